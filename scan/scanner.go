// Package scan builds one composite search expression from a RuleSet,
// runs it over a size-bounded excerpt of a decoded stream, and produces a
// deterministic, positioned, classified list of findings.
package scan

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/decode"
	"github.com/copywatch/copywatch/pattern"
	"github.com/copywatch/copywatch/regexp"
	"github.com/copywatch/copywatch/words"
)

// Scan-time caps. All are silent truncations: they bound latency on
// pathological input, they do not signal failure.
const (
	// DefaultMaxScanChars bounds how much of a target is decoded and
	// searched. Real declarations sit near the top of a file.
	DefaultMaxScanChars = 256 << 10

	// DefaultMaxKnown stops a scan once this many known (non-unknown)
	// matches were found; NOTICE-style files repeat declarations by the
	// thousand and a sample is enough.
	DefaultMaxKnown = 10

	// DefaultMaxUnknown caps distinct coalesced unknown fragments.
	DefaultMaxUnknown = 10

	// Unknown fragments closer than this to the previous one extend it
	// instead of starting a new finding.
	unknownGapLines = 6
	unknownGapChars = 300
)

// noCopyright matches negated copyright phrasing in normalized fragment
// text; such fragments are noise, not unknown license text.
var noCopyright = regexp.MustCompile(`(?i)\b(?:no copyright|not copyrighted|no rights reserved|uncopyrighted)\b`)

// Scanner runs one composite expression over scan targets. Build once per
// RuleSet; a Scanner is read-only after construction and safe for
// concurrent use, each Scan call keeping its own execution state.
type Scanner struct {
	RuleSet *pattern.RuleSet

	MaxScanChars int
	MaxKnown     int
	MaxUnknown   int

	comp *composite
	gate *words.Matcher // nil keeps the gate open
}

// NewScanner compiles the composite expression for a RuleSet.
func NewScanner(rs *pattern.RuleSet) (*Scanner, error) {
	comp, err := newComposite(rs, words.Contract)
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		RuleSet:      rs,
		MaxScanChars: DefaultMaxScanChars,
		MaxKnown:     DefaultMaxKnown,
		MaxUnknown:   DefaultMaxUnknown,
		comp:         comp,
	}
	if kws, ok := rs.Keywords(); ok {
		s.gate = words.NewMatcher(kws)
	}
	return s, nil
}

// Scan decodes up to MaxScanChars characters from d and classifies them.
// Matches come back in stream order. I/O errors from the byte source
// abort the scan; encoding anomalies never do.
func (s *Scanner) Scan(d *decode.Decoder) ([]copywatch.Match, error) {
	buf := make([]rune, 0, 8<<10)
	chunk := make([]rune, 4<<10)
	for len(buf) < s.MaxScanChars {
		n, err := d.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(buf) > s.MaxScanChars {
		buf = buf[:s.MaxScanChars]
	}

	text := string(buf)
	if s.gate != nil && !s.gate.ContainsAny(text) {
		return nil, nil
	}
	return s.scanText(text, d.Source()), nil
}

// ScanString scans in-memory content, decoding it like any byte source so
// the line index and markup rewriting still apply.
func (s *Scanner) ScanString(name, content string) ([]copywatch.Match, error) {
	d := decode.NewDecoder(name, strings.NewReader(content), int64(len(content)))
	defer d.Close()
	return s.Scan(d)
}

func (s *Scanner) scanText(text string, src *decode.Source) []copywatch.Match {
	var (
		known        []copywatch.Match
		unknowns     []copywatch.Match
		knownCount   int
		knownLicense bool
		pend         pendingUnknown
	)
	conv := offsetConverter{text: text}

	// All matches come from one pass over the full buffer, never from
	// re-searching a sliced tail: slicing would let the label slot's ^
	// anchor match mid-line at the slice boundary.
	for _, loc := range s.comp.re.FindAllStringSubmatchIndex(text, -1) {
		if knownCount >= s.MaxKnown {
			break
		}
		ms, me := loc[0], loc[1]

		populated := false
		for _, g := range s.comp.groups {
			gs, ge := loc[2*g.num], loc[2*g.num+1]
			if gs < 0 || gs == ge {
				continue
			}
			norm := Normalize(text[gs:ge])
			if norm == "" {
				continue
			}
			populated = true
			if pattern.AnyMatchesWhole(s.RuleSet.Exclusions(), norm) {
				continue
			}

			party := s.classify(g.kind, norm)
			m := copywatch.Match{
				Party:       party,
				Kind:        g.kind,
				Text:        norm,
				StartOffset: conv.runeOffset(gs),
				EndOffset:   conv.runeOffset(ge),
			}
			m.StartLine = src.LineNumber(m.StartOffset)
			m.EndLine = src.LineNumber(max(m.StartOffset, m.EndOffset-1))
			known = append(known, m)

			if party != copywatch.Unknown {
				knownCount++
				if g.kind == copywatch.KindLicense {
					knownLicense = true
				}
			}
		}

		if !populated {
			// Every group empty means the contract-word fallback slot
			// produced this match.
			frag := Normalize(text[ms:me])
			if frag != "" &&
				!noCopyright.MatchString(frag) &&
				!pattern.AnyMatchesWhole(s.RuleSet.Exclusions(), frag) {
				so := conv.runeOffset(ms)
				eo := conv.runeOffset(me)
				unknowns = pend.add(unknowns, copywatch.Match{
					Party:       copywatch.Unknown,
					Kind:        copywatch.KindLicense,
					Text:        frag,
					StartLine:   src.LineNumber(so),
					EndLine:     src.LineNumber(max(so, eo-1)),
					StartOffset: so,
					EndOffset:   eo,
				}, s.MaxUnknown)
			}
		}
	}
	unknowns = pend.flush(unknowns, s.MaxUnknown)

	// A known license finding subsumes contract-word noise.
	if knownLicense || len(unknowns) == 0 {
		return known
	}
	return mergeByOffset(known, unknowns)
}

// classify tests normalized captured text for a whole-string match
// against the forbidden, then third-party, then first-party lists of the
// capture's kind. Unmatched license captures default to UNKNOWN; unmatched
// owner captures default to THIRD_PARTY, never first-party.
func (s *Scanner) classify(kind copywatch.MatchKind, text string) copywatch.Party {
	lists := s.RuleSet.Licenses
	if kind == copywatch.KindAuthorOwner {
		lists = s.RuleSet.Owners
	}
	for _, p := range []copywatch.Party{copywatch.Forbidden, copywatch.ThirdParty, copywatch.FirstParty} {
		if pattern.AnyMatchesWhole(lists(p), text) {
			return p
		}
	}
	if kind == copywatch.KindLicense {
		return copywatch.Unknown
	}
	return copywatch.ThirdParty
}

// pendingUnknown is the coalescing state machine for unknown fragments:
// absent, or holding one match-in-progress that either extends or gets
// flushed into the result list when the next fragment is too far away.
type pendingUnknown struct {
	active  bool
	m       copywatch.Match
	flushed int
}

func (p *pendingUnknown) add(out []copywatch.Match, m copywatch.Match, maxOut int) []copywatch.Match {
	if p.active &&
		(m.StartLine-p.m.EndLine <= unknownGapLines ||
			m.StartOffset-p.m.EndOffset <= unknownGapChars) {
		p.m.Text += " " + m.Text
		p.m.EndLine = m.EndLine
		p.m.EndOffset = m.EndOffset
		return out
	}
	out = p.flush(out, maxOut)
	p.m = m
	p.active = true
	return out
}

func (p *pendingUnknown) flush(out []copywatch.Match, maxOut int) []copywatch.Match {
	if !p.active {
		return out
	}
	p.active = false
	if p.flushed < maxOut {
		out = append(out, p.m)
		p.flushed++
	}
	return out
}

// mergeByOffset interleaves two offset-ordered match lists back into
// stream order. Known matches win ties.
func mergeByOffset(a, b []copywatch.Match) []copywatch.Match {
	out := make([]copywatch.Match, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].StartOffset <= b[j].StartOffset {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// offsetConverter translates byte offsets in the scan buffer to character
// offsets. Calls arrive in ascending order, so conversion is amortized
// linear across a whole scan.
type offsetConverter struct {
	text     string
	lastByte int
	lastRune int
}

func (c *offsetConverter) runeOffset(b int) int {
	if b < c.lastByte {
		c.lastByte, c.lastRune = 0, 0
	}
	c.lastRune += utf8.RuneCountInString(c.text[c.lastByte:b])
	c.lastByte = b
	return c.lastRune
}
