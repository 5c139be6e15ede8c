package pattern

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/copywatch/copywatch"
)

// Rule is a named, immutable bundle of patterns in the simplified
// language. Catalogue rules are built once at process start; rules may
// also be declared inline in scan configuration.
type Rule struct {
	Name string

	// Owners match authorship declarations, Licenses match license
	// declarations, Exclusions suppress contract-word noise.
	Owners     []string
	Licenses   []string
	Exclusions []string

	// Keywords gate the composite expression: a target containing none
	// of a rule's keywords cannot match its patterns. A rule without
	// keywords forces the gate open for every target.
	Keywords []string
}

// RuleSet is the compiled aggregation of one scan configuration: six
// ordered pattern lists plus exclusions. Order is preserve-on-append and
// fixes both the composite expression's alternation order and the
// configuration signature. Immutable once built; safe for concurrent use.
type RuleSet struct {
	firstLicenses     []*Compiled
	thirdLicenses     []*Compiled
	forbiddenLicenses []*Compiled

	firstOwners     []*Compiled
	thirdOwners     []*Compiled
	forbiddenOwners []*Compiled

	exclusions []*Compiled

	keywords        []string
	keywordlessRule bool

	signature string
}

func (rs *RuleSet) Licenses(p copywatch.Party) []*Compiled {
	switch p {
	case copywatch.FirstParty:
		return rs.firstLicenses
	case copywatch.ThirdParty:
		return rs.thirdLicenses
	case copywatch.Forbidden:
		return rs.forbiddenLicenses
	}
	return nil
}

func (rs *RuleSet) Owners(p copywatch.Party) []*Compiled {
	switch p {
	case copywatch.FirstParty:
		return rs.firstOwners
	case copywatch.ThirdParty:
		return rs.thirdOwners
	case copywatch.Forbidden:
		return rs.forbiddenOwners
	}
	return nil
}

func (rs *RuleSet) Exclusions() []*Compiled { return rs.exclusions }

// HasLicenses reports whether any party has configured license patterns.
func (rs *RuleSet) HasLicenses() bool {
	return len(rs.firstLicenses)+len(rs.thirdLicenses)+len(rs.forbiddenLicenses) > 0
}

// Keywords returns the gate keywords collected from named rules, or
// (nil, false) when some pattern carries no keywords and the gate must
// stay open.
func (rs *RuleSet) Keywords() ([]string, bool) {
	if rs.keywordlessRule {
		return nil, false
	}
	return rs.keywords, true
}

// Signature is a stable hash over the pattern lists in fixed order. Hosts
// compare it across configuration changes to decide whether the generated
// composite expression changed and an expensive self-test is due.
func (rs *RuleSet) Signature() string { return rs.signature }

// RuleSetBuilder accumulates patterns additively. Adding a named rule
// appends its members to the corresponding lists; adding a raw pattern
// appends directly. Nothing is compiled until Build, so a configuration
// error can never leave a partially compiled set behind.
type RuleSetBuilder struct {
	// lists is indexed by Party value; the Unknown slot stays empty
	// (unknown is a classification outcome, never a configured bucket).
	lists      [4][2][]string
	exclusions []string

	keywords        []string
	keywordlessRule bool
}

func NewRuleSetBuilder() *RuleSetBuilder {
	return &RuleSetBuilder{}
}

const (
	kindLicense = 0
	kindOwner   = 1
)

// AddRule appends a rule's members under the given party.
func (b *RuleSetBuilder) AddRule(p copywatch.Party, r Rule) *RuleSetBuilder {
	b.lists[p][kindLicense] = append(b.lists[p][kindLicense], r.Licenses...)
	b.lists[p][kindOwner] = append(b.lists[p][kindOwner], r.Owners...)
	b.exclusions = append(b.exclusions, r.Exclusions...)
	if len(r.Keywords) == 0 {
		b.keywordlessRule = true
	} else {
		b.keywords = append(b.keywords, r.Keywords...)
	}
	return b
}

// AddNamedRule looks up a catalogue rule. Unknown names return an error
// carrying near-miss suggestions.
func (b *RuleSetBuilder) AddNamedRule(p copywatch.Party, name string) error {
	r, err := LookupRule(name)
	if err != nil {
		return err
	}
	b.AddRule(p, r)
	return nil
}

// AddLicensePattern appends one raw license pattern. Raw patterns carry
// no keywords, so they force the scan gate open.
func (b *RuleSetBuilder) AddLicensePattern(p copywatch.Party, pat string) *RuleSetBuilder {
	b.lists[p][kindLicense] = append(b.lists[p][kindLicense], pat)
	b.keywordlessRule = true
	return b
}

// AddOwnerPattern appends one raw owner pattern.
func (b *RuleSetBuilder) AddOwnerPattern(p copywatch.Party, pat string) *RuleSetBuilder {
	b.lists[p][kindOwner] = append(b.lists[p][kindOwner], pat)
	b.keywordlessRule = true
	return b
}

// AddExclusion appends one raw exclusion pattern.
func (b *RuleSetBuilder) AddExclusion(pat string) *RuleSetBuilder {
	b.exclusions = append(b.exclusions, pat)
	return b
}

// Build compiles every accumulated pattern. Any compile failure aborts
// the whole build.
func (b *RuleSetBuilder) Build() (*RuleSet, error) {
	rs := &RuleSet{
		keywords:        b.keywords,
		keywordlessRule: b.keywordlessRule,
	}

	var err error
	compile := func(dst *[]*Compiled, pats []string) {
		if err != nil {
			return
		}
		*dst, err = CompileAll(pats)
	}
	compile(&rs.firstLicenses, b.lists[copywatch.FirstParty][kindLicense])
	compile(&rs.thirdLicenses, b.lists[copywatch.ThirdParty][kindLicense])
	compile(&rs.forbiddenLicenses, b.lists[copywatch.Forbidden][kindLicense])
	compile(&rs.firstOwners, b.lists[copywatch.FirstParty][kindOwner])
	compile(&rs.thirdOwners, b.lists[copywatch.ThirdParty][kindOwner])
	compile(&rs.forbiddenOwners, b.lists[copywatch.Forbidden][kindOwner])
	compile(&rs.exclusions, b.exclusions)
	if err != nil {
		return nil, err
	}

	rs.signature = signature(
		b.lists[copywatch.FirstParty][kindLicense],
		b.lists[copywatch.ThirdParty][kindLicense],
		b.lists[copywatch.Forbidden][kindLicense],
		b.lists[copywatch.FirstParty][kindOwner],
		b.lists[copywatch.ThirdParty][kindOwner],
		b.lists[copywatch.Forbidden][kindOwner],
		b.exclusions,
	)
	return rs, nil
}

// signature hashes the pattern lists in fixed order, length-prefixing
// each entry so list boundaries cannot collide.
func signature(lists ...[]string) string {
	h := sha256.New()
	var lenBuf [4]byte
	for _, list := range lists {
		for _, pat := range list {
			n := len(pat)
			lenBuf[0] = byte(n >> 24)
			lenBuf[1] = byte(n >> 16)
			lenBuf[2] = byte(n >> 8)
			lenBuf[3] = byte(n)
			h.Write(lenBuf[:])
			h.Write([]byte(pat))
		}
		h.Write([]byte{0xff, 0, 0, 0, 0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
