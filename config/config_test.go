package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copywatch/copywatch"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.Title)
	assert.Equal(t, 256<<10, cfg.Scan.MaxChars)
	assert.Equal(t, 10, cfg.Scan.MaxKnown)
	assert.NotEmpty(t, cfg.Rules)
	assert.NotEmpty(t, cfg.Policy.Allow)

	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Licenses(copywatch.ThirdParty))
	assert.NotEmpty(t, rs.Licenses(copywatch.Forbidden))

	kws, gated := rs.Keywords()
	assert.True(t, gated)
	assert.NotEmpty(t, kws)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copywatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scan]
max_known = 3

[[rules]]
use = "MIT"
party = "first_party"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overlay scalar wins, untouched defaults survive.
	assert.Equal(t, 3, cfg.Scan.MaxKnown)
	assert.Equal(t, 256<<10, cfg.Scan.MaxChars)

	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Licenses(copywatch.FirstParty))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadBytesInlineRule(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
[[rules]]
party = "first_party"
owners = ['Acme,? Inc\.?']
keywords = ["acme"]

[[rules]]
party = "forbidden"
licenses = ['Server Side Public License']
keywords = ["server side public"]
`))
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 2)

	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Len(t, rs.Owners(copywatch.FirstParty), 1)
	assert.Len(t, rs.Licenses(copywatch.Forbidden), 1)

	kws, gated := rs.Keywords()
	assert.True(t, gated)
	assert.Contains(t, kws, "acme")
}

func TestLoadBytesRejectsUnknownKeys(t *testing.T) {
	_, err := LoadBytes([]byte(`
[scan]
max_knwon = 3
`))
	assert.Error(t, err)
}

func TestRuleSetBadParty(t *testing.T) {
	cfg := &Config{Rules: []RuleConfig{{Use: "MIT", Party: "unknown"}}}
	_, err := cfg.RuleSet()
	assert.ErrorContains(t, err, "rules[0]")
}

func TestRuleSetEmptyEntry(t *testing.T) {
	cfg := &Config{Rules: []RuleConfig{{Party: "third_party"}}}
	_, err := cfg.RuleSet()
	assert.ErrorContains(t, err, "neither")
}

func TestRuleSetUnknownCatalogueName(t *testing.T) {
	cfg := &Config{Rules: []RuleConfig{{Use: "MTI", Party: "third_party"}}}
	_, err := cfg.RuleSet()
	require.Error(t, err)
	// The lookup error suggests the nearest catalogue name.
	assert.ErrorContains(t, err, "MIT")
}

func TestRuleSetAllowlist(t *testing.T) {
	cfg := &Config{
		Rules:     []RuleConfig{{Use: "MIT", Party: "third_party"}},
		Allowlist: Allowlist{Patterns: []string{`fixture banner`}},
	}
	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.NotEmpty(t, rs.Exclusions())
}

func TestParseParty(t *testing.T) {
	for in, want := range map[string]copywatch.Party{
		"first_party": copywatch.FirstParty,
		"FIRST-PARTY": copywatch.FirstParty,
		"third_party": copywatch.ThirdParty,
		"forbidden":   copywatch.Forbidden,
		"Forbidden":   copywatch.Forbidden,
	} {
		p, err := ParseParty(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p, in)
	}

	_, err := ParseParty("")
	assert.Error(t, err)
	_, err = ParseParty("unknown")
	assert.Error(t, err)
	_, err = ParseParty("second_party")
	assert.Error(t, err)
}
