package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copywatch/copywatch"
)

func TestRuleSetBuilder(t *testing.T) {
	b := NewRuleSetBuilder()
	require.NoError(t, b.AddNamedRule(copywatch.ThirdParty, "MIT"))
	require.NoError(t, b.AddNamedRule(copywatch.FirstParty, "Apache-2.0"))
	require.NoError(t, b.AddNamedRule(copywatch.Forbidden, "SSPL-1.0"))
	require.NoError(t, b.AddNamedRule(copywatch.ThirdParty, "FSF"))

	rs, err := b.Build()
	require.NoError(t, err)

	assert.True(t, rs.HasLicenses())
	assert.NotEmpty(t, rs.Licenses(copywatch.ThirdParty))
	assert.NotEmpty(t, rs.Licenses(copywatch.FirstParty))
	assert.NotEmpty(t, rs.Licenses(copywatch.Forbidden))
	assert.NotEmpty(t, rs.Owners(copywatch.ThirdParty))
	assert.Empty(t, rs.Owners(copywatch.FirstParty))
	assert.Nil(t, rs.Licenses(copywatch.Unknown))

	kws, gated := rs.Keywords()
	assert.True(t, gated)
	assert.Contains(t, kws, "mit")
	assert.Contains(t, kws, "apache")
}

func TestRawPatternsForceGateOpen(t *testing.T) {
	b := NewRuleSetBuilder()
	b.AddLicensePattern(copywatch.ThirdParty, `Example Licen[cs]e`)

	rs, err := b.Build()
	require.NoError(t, err)

	_, gated := rs.Keywords()
	assert.False(t, gated)
}

func TestEmptyRuleSetKeepsGate(t *testing.T) {
	rs, err := NewRuleSetBuilder().Build()
	require.NoError(t, err)

	assert.False(t, rs.HasLicenses())
	kws, gated := rs.Keywords()
	assert.True(t, gated)
	assert.Empty(t, kws)
}

func TestBuildReportsBadPattern(t *testing.T) {
	b := NewRuleSetBuilder()
	b.AddLicensePattern(copywatch.ThirdParty, `(broken`)
	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapturingGroup)
}

func TestSignature(t *testing.T) {
	build := func(f func(*RuleSetBuilder)) *RuleSet {
		b := NewRuleSetBuilder()
		f(b)
		rs, err := b.Build()
		require.NoError(t, err)
		return rs
	}

	a := build(func(b *RuleSetBuilder) {
		b.AddLicensePattern(copywatch.ThirdParty, `alpha`)
		b.AddLicensePattern(copywatch.ThirdParty, `beta`)
	})
	same := build(func(b *RuleSetBuilder) {
		b.AddLicensePattern(copywatch.ThirdParty, `alpha`)
		b.AddLicensePattern(copywatch.ThirdParty, `beta`)
	})
	reordered := build(func(b *RuleSetBuilder) {
		b.AddLicensePattern(copywatch.ThirdParty, `beta`)
		b.AddLicensePattern(copywatch.ThirdParty, `alpha`)
	})
	otherList := build(func(b *RuleSetBuilder) {
		b.AddOwnerPattern(copywatch.ThirdParty, `alpha`)
		b.AddOwnerPattern(copywatch.ThirdParty, `beta`)
	})
	// Same concatenation, different list boundaries.
	joined := build(func(b *RuleSetBuilder) {
		b.AddLicensePattern(copywatch.ThirdParty, `alphabeta`)
	})

	assert.Equal(t, a.Signature(), same.Signature())
	assert.NotEqual(t, a.Signature(), reordered.Signature())
	assert.NotEqual(t, a.Signature(), otherList.Signature())
	assert.NotEqual(t, a.Signature(), joined.Signature())
	assert.Len(t, a.Signature(), 64)
}

func TestLookupRuleSuggestions(t *testing.T) {
	r, err := LookupRule("Apache-2.0")
	require.NoError(t, err)
	assert.Equal(t, "Apache-2.0", r.Name)
	assert.NotEmpty(t, r.Licenses)

	_, err = LookupRule("MTI")
	require.Error(t, err)
	var uerr *UnknownRuleError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "MTI", uerr.Name)
	assert.Contains(t, uerr.Suggestions, "MIT")
	assert.Contains(t, err.Error(), "did you mean")

	// Far from everything: all catalogue names come back.
	_, err = LookupRule("zzzzzzzzzzzz")
	require.ErrorAs(t, err, &uerr)
	assert.Len(t, uerr.Suggestions, len(RuleNames()))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("MIT", "MIT"))
	assert.Equal(t, 1, editDistance("MIT", "MTT"))
	assert.Equal(t, 2, editDistance("MTI", "MIT"))
	assert.Equal(t, 3, editDistance("abc", ""))
}
