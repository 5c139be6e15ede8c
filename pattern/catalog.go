package pattern

import "golang.org/x/exp/maps"

// The static rule catalogue. Built once at init, read-only afterwards;
// lookups go through LookupRule. Names are case-sensitive, SPDX-flavored.
//
// Patterns are written in the simplified language: literal spaces tolerate
// comment decoration between words, and `.*`/`.+` are bounded at compile
// time. Keep them short: the classifier tests captured text against the
// whole pattern, so a pattern only needs to pin down the distinctive part
// of a declaration.
var catalog = map[string]Rule{
	"Apache-2.0": {
		Name: "Apache-2.0",
		Licenses: []string{
			`Apache License,? Version 2\.0`,
			`Apache License 2\.0`,
			`Apache-2\.0`,
			`Licensed under the Apache License,? Version 2\.0`,
			`www\.apache\.org/licenses/LICENSE-2\.0`,
			`apache\.org/licenses/LICENSE-2\.0`,
		},
		Keywords: []string{"apache"},
	},
	"Apache-1.1": {
		Name: "Apache-1.1",
		Licenses: []string{
			`Apache Software License,? Version 1\.1`,
			`Apache-1\.1`,
		},
		Keywords: []string{"apache"},
	},
	"MIT": {
		Name: "MIT",
		Licenses: []string{
			`MIT Licen[cs]e`,
			`\(MIT\)`,
			`Permission is hereby granted, free of charge, to any person obtaining a copy`,
			`opensource\.org/licenses/MIT`,
		},
		Keywords: []string{"mit", "permission is hereby granted"},
	},
	"BSD-2-Clause": {
		Name: "BSD-2-Clause",
		Licenses: []string{
			`BSD-2-Clause`,
			`Simplified BSD Licen[cs]e`,
			`FreeBSD Licen[cs]e`,
			`Redistribution and use in source and binary forms.*2\. Redistributions in binary form`,
		},
		Keywords: []string{"bsd", "redistribution and use"},
	},
	"BSD-3-Clause": {
		Name: "BSD-3-Clause",
		Licenses: []string{
			`BSD-3-Clause`,
			`New BSD Licen[cs]e`,
			`Modified BSD Licen[cs]e`,
			`Redistribution and use in source and binary forms.*3\. Neither the name`,
			`Redistribution and use in source and binary forms.*endorse or promote products`,
		},
		Keywords: []string{"bsd", "redistribution and use"},
	},
	"BSD-4-Clause": {
		Name: "BSD-4-Clause",
		Licenses: []string{
			`BSD-4-Clause`,
			`Redistribution and use in source and binary forms.*advertising materials`,
		},
		Keywords: []string{"bsd", "redistribution and use"},
	},
	"GPL-2.0": {
		Name: "GPL-2.0",
		Licenses: []string{
			`GPL-2\.0`,
			`GPLv2`,
			`GNU General Public Licen[cs]e,? [Vv]ersion 2`,
			`GNU General Public Licen[cs]e as published by the Free Software Foundation.*version 2`,
		},
		Keywords: []string{"gpl", "general public licen"},
	},
	"GPL-3.0": {
		Name: "GPL-3.0",
		Licenses: []string{
			`GPL-3\.0`,
			`GPLv3`,
			`GNU General Public Licen[cs]e,? [Vv]ersion 3`,
			`gnu\.org/licenses/gpl-3\.0`,
		},
		Keywords: []string{"gpl", "general public licen"},
	},
	"LGPL-2.1": {
		Name: "LGPL-2.1",
		Licenses: []string{
			`LGPL-2\.1`,
			`GNU Lesser General Public Licen[cs]e,? [Vv]ersion 2\.1`,
			`GNU Library General Public Licen[cs]e`,
		},
		Keywords: []string{"lgpl", "lesser general public", "library general public"},
	},
	"LGPL-3.0": {
		Name: "LGPL-3.0",
		Licenses: []string{
			`LGPL-3\.0`,
			`GNU Lesser General Public Licen[cs]e,? [Vv]ersion 3`,
		},
		Keywords: []string{"lgpl", "lesser general public"},
	},
	"AGPL-3.0": {
		Name: "AGPL-3.0",
		Licenses: []string{
			`AGPL-3\.0`,
			`GNU Affero General Public Licen[cs]e`,
		},
		Keywords: []string{"agpl", "affero"},
	},
	"MPL-1.1": {
		Name: "MPL-1.1",
		Licenses: []string{
			`MPL-1\.1`,
			`Mozilla Public Licen[cs]e,? [Vv]ersion 1\.1`,
		},
		Keywords: []string{"mozilla", "mpl"},
	},
	"MPL-2.0": {
		Name: "MPL-2.0",
		Licenses: []string{
			`MPL-2\.0`,
			`Mozilla Public Licen[cs]e,? [Vv]\.? ?2\.0`,
			`mozilla\.org/MPL/2\.0`,
		},
		Keywords: []string{"mozilla", "mpl"},
	},
	"EPL-1.0": {
		Name: "EPL-1.0",
		Licenses: []string{
			`EPL-1\.0`,
			`Eclipse Public Licen[cs]e,? [Vv](?:ersion )?1\.0`,
			`eclipse\.org/legal/epl-v10`,
		},
		Keywords: []string{"eclipse", "epl"},
	},
	"EPL-2.0": {
		Name: "EPL-2.0",
		Licenses: []string{
			`EPL-2\.0`,
			`Eclipse Public Licen[cs]e,? [Vv](?:ersion )?2\.0`,
			`eclipse\.org/legal/epl-2\.0`,
		},
		Keywords: []string{"eclipse", "epl"},
	},
	"CDDL-1.0": {
		Name: "CDDL-1.0",
		Licenses: []string{
			`CDDL-1\.0`,
			`Common Development and Distribution Licen[cs]e`,
		},
		Keywords: []string{"cddl", "common development"},
	},
	"ISC": {
		Name: "ISC",
		Licenses: []string{
			`ISC Licen[cs]e`,
			`Permission to use, copy, modify,? and(?:/or)? distribute this software for any purpose`,
		},
		Keywords: []string{"isc", "permission to use"},
	},
	"Zlib": {
		Name: "Zlib",
		Licenses: []string{
			`zlib Licen[cs]e`,
			`This software is provided '?as-is'?, without any express or implied warranty`,
		},
		Keywords: []string{"zlib", "as-is"},
	},
	"Unlicense": {
		Name: "Unlicense",
		Licenses: []string{
			`This is free and unencumbered software released into the public domain`,
			`unlicense\.org`,
		},
		Keywords: []string{"unlicense", "unencumbered"},
	},
	"CC0-1.0": {
		Name: "CC0-1.0",
		Licenses: []string{
			`CC0-1\.0`,
			`CC0 1\.0 Universal`,
			`creativecommons\.org/publicdomain/zero/1\.0`,
		},
		Keywords: []string{"cc0", "creativecommons"},
	},
	"CC-BY": {
		Name: "CC-BY",
		Licenses: []string{
			`Creative Commons Attribution`,
			`creativecommons\.org/licenses/by/`,
		},
		Keywords: []string{"creative commons", "creativecommons"},
	},
	"WTFPL": {
		Name: "WTFPL",
		Licenses: []string{
			`WTFPL`,
			`DO WHAT THE FUCK YOU WANT TO PUBLIC LICENSE`,
		},
		Keywords: []string{"wtfpl", "do what the"},
	},
	"Beerware": {
		Name: "Beerware",
		Licenses: []string{
			`THE BEER-WARE LICENSE`,
			`you can buy me a beer in return`,
		},
		Keywords: []string{"beer"},
	},
	"PostgreSQL": {
		Name: "PostgreSQL",
		Licenses: []string{
			`PostgreSQL Licen[cs]e`,
			`Permission to use, copy, modify, and distribute this software and its documentation for any purpose, without fee`,
		},
		Keywords: []string{"postgresql", "permission to use"},
	},
	"OpenSSL": {
		Name: "OpenSSL",
		Licenses: []string{
			`OpenSSL Licen[cs]e`,
			`This product includes software developed by the OpenSSL Project`,
		},
		Keywords: []string{"openssl"},
	},
	"SSPL-1.0": {
		Name: "SSPL-1.0",
		Licenses: []string{
			`SSPL-1\.0`,
			`Server Side Public Licen[cs]e`,
		},
		Keywords: []string{"sspl", "server side public"},
	},
	"Commons-Clause": {
		Name: "Commons-Clause",
		Licenses: []string{
			`Commons Clause`,
			`commonsclause\.com`,
		},
		Keywords: []string{"commons clause", "commonsclause"},
	},
	"JSON": {
		Name: "JSON",
		Licenses: []string{
			`The Software shall be used for Good, not Evil`,
		},
		Keywords: []string{"good, not evil"},
	},
	"PublicDomain": {
		Name: "PublicDomain",
		Licenses: []string{
			`(?:placed|released|dedicated) (?:in|into|to) the public domain`,
			`public.domain`,
		},
		Exclusions: []string{
			`.*not.*public.domain.*`,
		},
		Keywords: []string{"public domain"},
	},
	"FSF": {
		Name: "FSF",
		Owners: []string{
			`Free Software Foundation(?:, Inc\.?)?`,
			`FSF`,
		},
		Keywords: []string{"free software foundation", "fsf"},
	},
	"ApacheFoundation": {
		Name: "ApacheFoundation",
		Owners: []string{
			`(?:The )?Apache Software Foundation`,
			`ASF`,
		},
		Keywords: []string{"apache"},
	},
}

// RuleNames returns every catalogue name, unsorted. Callers sort.
func RuleNames() []string {
	return maps.Keys(catalog)
}
