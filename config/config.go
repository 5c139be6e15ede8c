// Package config loads scan configuration from TOML and translates it
// into a compiled RuleSet plus runtime options. A built-in default
// configuration ships in the binary; a user file overlays it.
package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/pattern"
)

//go:embed copywatch.toml
var defaultTOML []byte

// Config mirrors the TOML document.
type Config struct {
	Title     string       `koanf:"title"`
	Scan      ScanConfig   `koanf:"scan"`
	Rules     []RuleConfig `koanf:"rules"`
	Allowlist Allowlist    `koanf:"allowlist"`
	Policy    Policy       `koanf:"policy"`
}

// ScanConfig carries scanner and pipeline limits. Zero values defer to
// the scanner defaults.
type ScanConfig struct {
	MaxChars        int   `koanf:"max_chars"`
	MaxKnown        int   `koanf:"max_known"`
	MaxUnknown      int   `koanf:"max_unknown"`
	Workers         int   `koanf:"workers"`
	MaxFileSize     int64 `koanf:"max_file_size"`
	MaxArchiveDepth int   `koanf:"max_archive_depth"`
	FollowSymlinks  bool  `koanf:"follow_symlinks"`
}

// RuleConfig is one entry of the rules array: either a catalogue
// reference (use) or inline patterns, classified under a party.
type RuleConfig struct {
	Use   string `koanf:"use"`
	Party string `koanf:"party"`

	Licenses   []string `koanf:"licenses"`
	Owners     []string `koanf:"owners"`
	Exclusions []string `koanf:"exclusions"`
	Keywords   []string `koanf:"keywords"`
}

// Allowlist suppresses matches whose normalized text matches a pattern.
type Allowlist struct {
	Patterns []string `koanf:"patterns"`
}

// Policy holds the CEL gate evaluated per report.
type Policy struct {
	Allow string `koanf:"allow"`
}

// Load reads the built-in defaults and overlays path on top when it is
// non-empty. Scalar keys merge; the rules array in the user file replaces
// the default one wholesale.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultTOML), toml.Parser()); err != nil {
		return nil, fmt.Errorf("loading built-in config: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}
	return unmarshal(k)
}

// LoadBytes parses a complete TOML document, without the built-in
// defaults underneath.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return unmarshal(k)
}

// Default returns the built-in configuration.
func Default() *Config {
	c, err := Load("")
	if err != nil {
		// The embedded document is validated by tests; failing to parse
		// it is a build defect.
		panic(err)
	}
	return c
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var c Config
	err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &c,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &c, nil
}

// RuleSet translates the rule entries into a compiled set. Every entry
// must name a party; catalogue references and inline patterns may mix in
// one entry.
func (c *Config) RuleSet() (*pattern.RuleSet, error) {
	b := pattern.NewRuleSetBuilder()
	for i, rc := range c.Rules {
		p, err := ParseParty(rc.Party)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		if rc.Use == "" && len(rc.Licenses) == 0 && len(rc.Owners) == 0 {
			return nil, fmt.Errorf("rules[%d]: entry has neither a catalogue reference nor patterns", i)
		}
		if rc.Use != "" {
			if err := b.AddNamedRule(p, rc.Use); err != nil {
				return nil, fmt.Errorf("rules[%d]: %w", i, err)
			}
		}
		if len(rc.Licenses) > 0 || len(rc.Owners) > 0 {
			b.AddRule(p, pattern.Rule{
				Licenses:   rc.Licenses,
				Owners:     rc.Owners,
				Exclusions: rc.Exclusions,
				Keywords:   rc.Keywords,
			})
		} else {
			for _, ex := range rc.Exclusions {
				b.AddExclusion(ex)
			}
		}
	}
	for _, pat := range c.Allowlist.Patterns {
		b.AddExclusion(pat)
	}

	rs, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	return rs, nil
}

// ParseParty maps a configuration party string to its enum value. Both
// snake_case and the canonical upper form are accepted; UNKNOWN is not a
// configurable bucket.
func ParseParty(s string) (copywatch.Party, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, "-", "_")) {
	case "FIRST_PARTY":
		return copywatch.FirstParty, nil
	case "THIRD_PARTY":
		return copywatch.ThirdParty, nil
	case "FORBIDDEN":
		return copywatch.Forbidden, nil
	case "":
		return 0, fmt.Errorf("missing party")
	}
	return 0, fmt.Errorf("invalid party %q (want first_party, third_party, or forbidden)", s)
}
