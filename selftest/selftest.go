// Package selftest exercises a compiled rule set against generated
// inputs before it is trusted for real scans: strings synthesized from
// the patterns themselves, plus adversarial filler sized to the scan cap.
// Results are cached by rule-set signature, so re-running after an
// unchanged configuration reload is free.
package selftest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lucasjones/reggen"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/pattern"
	"github.com/copywatch/copywatch/scan"
)

// generated string length cap per pattern wildcard
const genLimit = 10

// Result summarizes one self-test run.
type Result struct {
	Signature string
	Inputs    int

	// MaxDuration is the slowest single scan observed; hosts compare it
	// against their own latency budget.
	MaxDuration   time.Duration
	TotalDuration time.Duration
}

var (
	mu    sync.Mutex
	cache = map[string]*Result{}
)

// Run scans generated inputs with a fresh scanner for rs. Each input is
// scanned twice and both passes must agree; disagreement means the
// expression is nondeterministic and the rule set must not be used.
func Run(rs *pattern.RuleSet) (*Result, error) {
	mu.Lock()
	if r, ok := cache[rs.Signature()]; ok {
		mu.Unlock()
		return r, nil
	}
	mu.Unlock()

	sc, err := scan.NewScanner(rs)
	if err != nil {
		return nil, err
	}

	res := &Result{Signature: rs.Signature()}
	for i, input := range inputs(rs, sc.MaxScanChars) {
		start := time.Now()
		first, err := sc.ScanString(fmt.Sprintf("selftest-%d", i), input)
		if err != nil {
			return nil, fmt.Errorf("selftest input %d: %w", i, err)
		}
		d := time.Since(start)

		second, err := sc.ScanString(fmt.Sprintf("selftest-%d", i), input)
		if err != nil {
			return nil, fmt.Errorf("selftest input %d: %w", i, err)
		}
		if !matchesEqual(first, second) {
			return nil, fmt.Errorf("selftest input %d: scan results differ between passes", i)
		}

		res.Inputs++
		res.TotalDuration += d
		if d > res.MaxDuration {
			res.MaxDuration = d
		}
	}

	mu.Lock()
	cache[rs.Signature()] = res
	mu.Unlock()
	return res, nil
}

// inputs builds the test corpus: strings generated from every configured
// pattern, wrapped in comment decoration, plus fixed adversarial fillers.
func inputs(rs *pattern.RuleSet, maxChars int) []string {
	var out []string

	addGenerated := func(list []*pattern.Compiled) {
		for _, c := range list {
			g, err := reggen.NewGenerator(c.Inline)
			if err != nil {
				// Bounded repetition the generator cannot handle is not a
				// rule defect; the pattern still compiled.
				continue
			}
			g.SetSeed(1)
			s := g.Generate(genLimit)
			out = append(out,
				s,
				"// "+s+"\n",
				"/*\n * "+s+"\n */\n",
			)
		}
	}
	for _, p := range []copywatch.Party{copywatch.FirstParty, copywatch.ThirdParty, copywatch.Forbidden} {
		addGenerated(rs.Licenses(p))
		addGenerated(rs.Owners(p))
	}

	// Adversarial fillers at the scan cap: separator runs that stress the
	// bounded whitespace expansion, and marker words that force the gate
	// open without ever completing a declaration.
	out = append(out,
		strings.Repeat("* ", maxChars/2),
		strings.Repeat("copyright ", maxChars/10),
		strings.Repeat("license # = | ~ ", maxChars/16),
		strings.Repeat("a", maxChars),
	)
	return out
}

func matchesEqual(a, b []copywatch.Match) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
