package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

func report(overall copywatch.Party, parties ...copywatch.Party) scan.Report {
	r := scan.Report{
		Resource: copywatch.Resource{Name: "a.txt", Source: "file"},
		Overall:  overall,
	}
	for _, p := range parties {
		r.Matches = append(r.Matches, copywatch.Match{Party: p, Kind: copywatch.KindLicense})
	}
	return r
}

func TestPolicyOverallGate(t *testing.T) {
	p, err := Compile(`overall != "FORBIDDEN"`)
	require.NoError(t, err)

	ok, err := p.Allow(report(copywatch.ThirdParty, copywatch.ThirdParty))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Allow(report(copywatch.Forbidden, copywatch.Forbidden))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicyCountsUnknown(t *testing.T) {
	p, err := Compile(`unknown == 0 && matches <= 2`)
	require.NoError(t, err)

	ok, err := p.Allow(report(copywatch.ThirdParty, copywatch.ThirdParty))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Allow(report(copywatch.Unknown, copywatch.ThirdParty, copywatch.Unknown))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicyResourceAndSource(t *testing.T) {
	p, err := Compile(`source == "git" || resource.endsWith(".txt")`)
	require.NoError(t, err)

	ok, err := p.Allow(report(copywatch.FirstParty))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileRejectsNonBool(t *testing.T) {
	_, err := Compile(`matches + 1`)
	assert.ErrorContains(t, err, "want bool")
}

func TestCompileRejectsUnknownVariable(t *testing.T) {
	_, err := Compile(`severity > 3`)
	assert.Error(t, err)
}

func TestCompileRejectsSyntaxError(t *testing.T) {
	_, err := Compile(`overall ==`)
	assert.Error(t, err)
}

func TestPolicySource(t *testing.T) {
	const expr = `overall == "FIRST_PARTY"`
	p, err := Compile(expr)
	require.NoError(t, err)
	assert.Equal(t, expr, p.Source())
}
