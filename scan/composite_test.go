package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/pattern"
	"github.com/copywatch/copywatch/words"
)

func buildRuleSet(t *testing.T, f func(*pattern.RuleSetBuilder)) *pattern.RuleSet {
	t.Helper()
	b := pattern.NewRuleSetBuilder()
	if f != nil {
		f(b)
	}
	rs, err := b.Build()
	require.NoError(t, err)
	return rs
}

func TestCompositeGroupTable(t *testing.T) {
	rs := buildRuleSet(t, func(b *pattern.RuleSetBuilder) {
		require.NoError(t, b.AddNamedRule(copywatch.ThirdParty, "MIT"))
	})
	comp, err := newComposite(rs, words.Contract)
	require.NoError(t, err)

	// lic + under + label + auth + 5 copyright blocks with two orders each.
	require.Len(t, comp.groups, 14)
	assert.Equal(t, "lic", comp.groups[0].name)
	assert.Equal(t, slotKnownLicense, comp.groups[0].slot)
	assert.Equal(t, copywatch.KindLicense, comp.groups[0].kind)
	assert.Equal(t, "cpB1", comp.groups[4].name)
	assert.Equal(t, slotCopyright, comp.groups[4].slot)
	assert.Equal(t, "cpA5", comp.groups[13].name)
	assert.Equal(t, copywatch.KindAuthorOwner, comp.groups[13].kind)

	// Group numbers must come from the compiled expression and ascend with
	// declaration order.
	for i := 1; i < len(comp.groups); i++ {
		assert.Greater(t, comp.groups[i].num, comp.groups[i-1].num)
	}
}

func TestCompositeWithoutLicenses(t *testing.T) {
	rs := buildRuleSet(t, nil)
	comp, err := newComposite(rs, words.Contract)
	require.NoError(t, err)

	require.Len(t, comp.groups, 13)
	assert.Equal(t, "under", comp.groups[0].name)
	for _, g := range comp.groups {
		assert.NotEqual(t, slotKnownLicense, g.slot)
	}
}

func TestCompositeContractSlotLeavesGroupsEmpty(t *testing.T) {
	rs := buildRuleSet(t, nil)
	comp, err := newComposite(rs, words.Contract)
	require.NoError(t, err)

	loc := comp.re.FindStringSubmatchIndex("code is distributed all rights reserved here")
	require.NotNil(t, loc)
	for _, g := range comp.groups {
		assert.Equal(t, -1, loc[2*g.num], "group %s must stay empty on a contract-word match", g.name)
	}
}

func TestCompositeCopyrightOrders(t *testing.T) {
	rs := buildRuleSet(t, nil)
	comp, err := newComposite(rs, words.Contract)
	require.NoError(t, err)

	group := func(name string) groupInfo {
		for _, g := range comp.groups {
			if g.name == name {
				return g
			}
		}
		t.Fatalf("no group %s", name)
		return groupInfo{}
	}

	// Year before owner fills the A group.
	text := "Copyright (c) 2019 Jane Doe"
	loc := comp.re.FindStringSubmatchIndex(text)
	require.NotNil(t, loc)
	a := group("cpA1")
	require.GreaterOrEqual(t, loc[2*a.num], 0)
	assert.Equal(t, "Jane Doe", text[loc[2*a.num]:loc[2*a.num+1]])

	// Owner before year fills the B group.
	text = "Copyright Acme Widgets, 2021"
	loc = comp.re.FindStringSubmatchIndex(text)
	require.NotNil(t, loc)
	bg := group("cpB1")
	require.GreaterOrEqual(t, loc[2*bg.num], 0)
	assert.Equal(t, "Acme Widgets", text[loc[2*bg.num]:loc[2*bg.num+1]])
}
