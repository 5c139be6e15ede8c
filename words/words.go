// Package words holds the contract-word vocabulary: terms that frequently
// appear in license boilerplate, used as a fallback signal for license
// text the catalogue does not recognize, and as the fast keyword gate that
// decides whether the composite expression runs at all.
package words

import (
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
)

// Contract is the fixed vocabulary. Lowercase; multi-word phrases use
// single spaces (the composite expression re-expands them to tolerate
// comment decoration). Order is stable because it feeds the composite
// expression's fallback slot.
var Contract = []string{
	"all rights reserved",
	"as-is basis",
	"copyleft",
	"copyright law",
	"fitness for a particular purpose",
	"free of charge",
	"general public license",
	"indemnify",
	"indemnification",
	"lesser general public",
	"merchantability",
	"no event shall the authors",
	"no warranty",
	"noninfringement",
	"permission is hereby granted",
	"permission to use",
	"public license",
	"redistribution and use",
	"redistribute",
	"spdx-license-identifier",
	"sublicense",
	"terms and conditions",
	"warranties of merchantability",
	"without restriction",
	"without warranty",
}

// markers always gate the expression open: the generic slots (licensed
// under, license label, author, copyright) can fire without any
// configured rule keyword present.
var markers = []string{
	"licen", // license, licence, licensed, licensing
	"copyright",
	"(c)",
	"©",
	"author",
}

// Matcher is a case-insensitive substring gate over a fixed word set.
// Build once, share freely; the trie is read-only after construction.
type Matcher struct {
	trie *ahocorasick.Trie
}

// NewMatcher builds a gate over the contract vocabulary, the generic-slot
// markers, and any extra keywords (typically collected from the RuleSet).
func NewMatcher(extra []string) *Matcher {
	seen := make(map[string]struct{})
	var all []string
	add := func(w string) {
		w = strings.ToLower(w)
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		all = append(all, w)
	}
	for _, w := range Contract {
		add(w)
	}
	for _, w := range markers {
		add(w)
	}
	for _, w := range extra {
		add(w)
	}
	return &Matcher{trie: ahocorasick.NewTrieBuilder().AddStrings(all).Build()}
}

// ContainsAny reports whether s contains any gate word, case-insensitive.
func (m *Matcher) ContainsAny(s string) bool {
	return m.trie.MatchFirstString(strings.ToLower(s)) != nil
}
