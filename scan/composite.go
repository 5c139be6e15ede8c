package scan

import (
	"fmt"
	"strings"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/pattern"
	"github.com/copywatch/copywatch/regexp"
)

// Slot identifiers for the composite expression. Each alternative of the
// expression is built under a known slot; the classifier maps capture
// groups back to slots through the table built alongside the expression,
// never through hard-coded group arithmetic.
type slotID int

const (
	slotKnownLicense slotID = iota
	slotLicensedUnder
	slotLicenseLabel
	slotAuthorIs
	slotCopyright
	slotContractWords
)

func (s slotID) String() string {
	return [...]string{
		"known-license",
		"licensed-under",
		"license-label",
		"author-is",
		"copyright",
		"contract-words",
	}[s]
}

// Scan-time bounds on the generic slots.
const (
	// licenseNameTokens caps the words a generic license name may span.
	licenseNameTokens = 35
	// ownerTokens caps the words a generic (unconfigured) owner may span.
	ownerTokens = 7
	// copyrightReps caps how many owner declarations one copyright
	// header match absorbs.
	copyrightReps = 5
	// contractWordReps caps the contract words one fallback match chains.
	contractWordReps = 20
)

type groupInfo struct {
	num  int
	name string
	slot slotID
	kind copywatch.MatchKind
}

// composite is the single search expression built from a RuleSet, plus
// the slot table for its capture groups. Read-only after construction;
// shared across concurrent scans (the engine keeps no per-pattern mutable
// state between invocations).
type composite struct {
	re *regexp.Regexp

	// groups lists capture groups in position order, which also fixes
	// result order within one match: known-license precedes owners.
	groups []groupInfo
}

// Building blocks. ws matches one whitespace-or-comment character; sp is
// the bounded separator a literal pattern space expands to.
var (
	ws = pattern.WSComment
	sp = fmt.Sprintf(`%s{1,%d}`, pattern.WSComment, pattern.SpaceRun)
)

func wsRun(min, max int) string {
	return fmt.Sprintf(`%s{%d,%d}`, ws, min, max)
}

// nameTok matches one bounded name token (word of a license or owner name).
var nameTok = fmt.Sprintf(`[\pL\pN][\pL\pN._,'()&@:/+-]{0,%d}`, pattern.NameLen-1)

// nameSeq matches 1..max name tokens with bounded separation.
func nameSeq(max int) string {
	return fmt.Sprintf(`%s(?:%s%s){0,%d}`, nameTok, wsRun(1, 8), nameTok, max-1)
}

// ownerFallback matches a generic name, email, or quoted string of 1 to
// ownerTokens tokens, which lets unconfigured owners still be captured
// and classified third-party by default. A bare name token must end on a
// letter or digit so sentence punctuation stays out of the capture.
var ownerFallback = func() string {
	tok := `(?:"[^"\n]{1,60}"|[\pL](?:[\pL\pN.'&-]{0,28}[\pL\pN])?(?:@[\pL\pN.-]{2,60})?)`
	return fmt.Sprintf(`%s(?:%s%s){0,%d}`, tok, wsRun(1, 8), tok, ownerTokens-1)
}()

// inlineAlt joins compiled patterns into one non-capturing alternation,
// with their wildcard edges already stripped for inline embedding.
func inlineAlt(lists ...[]*pattern.Compiled) string {
	var parts []string
	for _, list := range lists {
		for _, c := range list {
			parts = append(parts, `(?:`+c.Inline+`)`)
		}
	}
	return strings.Join(parts, "|")
}

// ownerExpr builds the owner expression reused by the author and
// copyright slots: optional by/the prefix, configured owner alternation
// (third, first, forbidden order), generic fallback last.
func ownerExpr(groupName string, rs *pattern.RuleSet) string {
	alt := inlineAlt(
		rs.Owners(copywatch.ThirdParty),
		rs.Owners(copywatch.FirstParty),
		rs.Owners(copywatch.Forbidden),
	)
	if alt == "" {
		alt = ownerFallback
	} else {
		alt += "|" + ownerFallback
	}
	return fmt.Sprintf(`(?:by%s|the%s)?(?P<%s>%s)`, sp, sp, groupName, alt)
}

// contractAlt builds the contract-word alternation from the fixed
// vocabulary, expanding phrase spaces to the bounded separator.
func contractAlt(vocab []string) string {
	parts := make([]string, 0, len(vocab))
	for _, w := range vocab {
		parts = append(parts, strings.ReplaceAll(escapeLiteral(w), " ", sp))
	}
	return `(?:` + strings.Join(parts, "|") + `)`
}

// escapeLiteral quotes regex metacharacters in a vocabulary word, keeping
// spaces for later expansion.
func escapeLiteral(w string) string {
	var b strings.Builder
	for _, r := range w {
		switch r {
		case '(', ')', '[', ']', '{', '}', '.', '*', '+', '?', '^', '$', '|', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// newComposite assembles the ordered alternation. Slot order is fixed:
// known licenses, then the generic license slots, then authorship, then
// the contract-word fallback.
func newComposite(rs *pattern.RuleSet, vocab []string) (*composite, error) {
	var alts []string
	var names []string
	slotByName := map[string]groupInfo{}

	addGroup := func(name string, slot slotID, kind copywatch.MatchKind) {
		names = append(names, name)
		slotByName[name] = groupInfo{name: name, slot: slot, kind: kind}
	}

	// Slot 1: configured license patterns, only present if any exist.
	if rs.HasLicenses() {
		alts = append(alts, `(?P<lic>`+inlineAlt(
			rs.Licenses(copywatch.ThirdParty),
			rs.Licenses(copywatch.FirstParty),
			rs.Licenses(copywatch.Forbidden),
		)+`)`)
		addGroup("lic", slotKnownLicense, copywatch.KindLicense)
	}

	// Slot 2: generic "licensed under" phrasing for uncatalogued licenses.
	alts = append(alts,
		`(?:is`+sp+`)?(?:distributed|provided|released|licensed)`+sp+
			`under`+sp+`(?:the`+sp+`|this`+sp+`)?`+
			`(?P<under>`+nameSeq(licenseNameTokens)+`)`+sp+`licen[cs]e`)
	addGroup("under", slotLicensedUnder, copywatch.KindLicense)

	// Slot 3: a "License:" labeled line.
	alts = append(alts,
		`^`+wsRun(0, 8)+`licen[cs]e:`+wsRun(0, pattern.SpaceRun)+
			`(?P<label>`+nameSeq(licenseNameTokens)+`)`)
	addGroup("label", slotLicenseLabel, copywatch.KindLicense)

	// Slot 4: "the author of this software is ..." / "author: ...".
	alts = append(alts,
		`(?:the`+sp+`author`+sp+`of`+sp+`this`+sp+`software`+sp+`is|`+
			`(?:principal`+sp+`)?author:)`+wsRun(0, pattern.SpaceRun)+
			ownerExpr("auth", rs))
	addGroup("auth", slotAuthorIs, copywatch.KindAuthorOwner)

	// Slot 5: copyright marker + optional years + owner, either order,
	// with the block textually repeated so multi-owner headers land in
	// one scan pass. Repetition capture is per-block: the engine keeps
	// only the last value of a repeated group, so each block gets its
	// own pair of groups (year-first and owner-first orders).
	marker := `(?:copyright(?:` + sp + `\(c\)|` + sp + `©)?|\(c\)|©)`
	years := `\d{2,4}(?:` + wsRun(0, 4) + `[-–—,]` + wsRun(0, 4) +
		`(?:\d{2,4}|present|now))*` +
		`(?:` + sp + `(?:and|to)` + sp + `(?:\d{2,4}|present|now))?`
	block := func(i int) string {
		// Owner-then-year goes first: its year requirement makes it the
		// stricter alternative, and trying it first lets a declaration's
		// year span join the match instead of being left behind.
		ownerFirst := ownerExpr(fmt.Sprintf("cpB%d", i), rs) +
			wsRun(0, 4) + `,?` + wsRun(0, pattern.SpaceRun) + years
		yearFirst := `(?:` + years + wsRun(1, pattern.SpaceRun) + `)?` +
			ownerExpr(fmt.Sprintf("cpA%d", i), rs)
		return marker + wsRun(0, pattern.SpaceRun) + `(?:` + ownerFirst + `|` + yearFirst + `)`
	}
	cp := block(1)
	for i := 2; i <= copyrightReps; i++ {
		cp += `(?:` + wsRun(0, 4) + `[,;.]?` + wsRun(0, pattern.SpaceRun) + block(i) + `)?`
	}
	alts = append(alts, cp)
	for i := 1; i <= copyrightReps; i++ {
		addGroup(fmt.Sprintf("cpB%d", i), slotCopyright, copywatch.KindAuthorOwner)
		addGroup(fmt.Sprintf("cpA%d", i), slotCopyright, copywatch.KindAuthorOwner)
	}

	// Slot 6: contract-word fallback. No capture groups: a composite
	// match with every group empty is, by construction, this slot.
	cw := contractAlt(vocab)
	alts = append(alts, cw+fmt.Sprintf(`(?:%s%s){0,%d}`, wsRun(1, pattern.SpaceRun), cw, contractWordReps-1))

	re, err := regexp.Compile(`(?ims)` + strings.Join(alts, "|"))
	if err != nil {
		return nil, fmt.Errorf("composite expression: %w", err)
	}

	// Resolve declared names to group numbers via the compiled
	// expression, keeping declaration (position) order.
	byName := map[string]int{}
	for i, n := range re.SubexpNames() {
		if n != "" {
			byName[n] = i
		}
	}
	c := &composite{re: re}
	for _, n := range names {
		gi := slotByName[n]
		num, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("composite expression: group %q not allocated", n)
		}
		gi.num = num
		c.groups = append(c.groups, gi)
	}
	return c, nil
}
