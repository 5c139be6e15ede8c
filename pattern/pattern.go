// Package pattern compiles the simplified pattern language used in scan
// configurations into bounded regular expressions, and holds the static
// catalogue of named license/owner rules.
//
// The simplified language is ordinary regular-expression syntax plus two
// conveniences: unlimited wildcards (`.*`, `.+`) and literal spaces. Both
// are rewritten at compile time into bounded forms so administrator-authored
// patterns cannot backtrack catastrophically on adversarial input.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/copywatch/copywatch/regexp"
)

// Bounding constants. Empirically tuned: large enough to cover real
// license and owner declarations, small enough to keep worst-case match
// cost polynomial.
const (
	// NameLen caps the characters one wildcard repetition may span.
	NameLen = 30
	// WildcardReps caps how many repetitions an embedded wildcard allows.
	WildcardReps = 35
	// SpaceRun caps the whitespace-or-comment characters a literal space
	// in a pattern may absorb.
	SpaceRun = 47
)

// WSComment matches one whitespace or comment-decoration character. A
// literal space in a pattern becomes a bounded run of this class, so
// patterns written with ordinary spaces tolerate comment markers and line
// wrapping between words.
const WSComment = `[\s*#/;%=|"'` + "`" + `~-]`

var (
	ErrCapturingGroup    = errors.New("contains a capturing group")
	ErrSpaceInClass      = errors.New("character class contains a literal space")
	ErrUnterminatedClass = errors.New("unterminated character class")
	ErrTrailingBackslash = errors.New("trailing backslash")
	ErrEmptyPattern      = errors.New("empty pattern")
)

// Error is a configuration error for one pattern string.
type Error struct {
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compiled is a pattern transformed into a safe, embeddable form.
type Compiled struct {
	// Source is the original simplified pattern string.
	Source string

	// LooseStart/LooseEnd record stripped leading/trailing unlimited
	// wildcards; whole-match classification restores them.
	LooseStart bool
	LooseEnd   bool

	// Inline is the translated sub-expression body, free of capturing
	// groups and edge wildcards, for embedding in a composite expression.
	Inline string

	whole *regexp.Regexp
}

// Compile translates one simplified pattern. All rejections here are
// configuration errors: they identify the offending pattern and abort
// RuleSet construction, never a scan.
func Compile(pat string) (*Compiled, error) {
	if pat == "" {
		return nil, &Error{Pattern: pat, Err: ErrEmptyPattern}
	}
	if err := check(pat); err != nil {
		return nil, &Error{Pattern: pat, Err: err}
	}

	c := &Compiled{Source: pat}
	body := pat
	if strings.HasPrefix(body, ".*") || strings.HasPrefix(body, ".+") {
		c.LooseStart = true
		body = body[2:]
	}
	if hasLooseSuffix(body) {
		c.LooseEnd = true
		body = body[:len(body)-2]
	}

	inline, err := translate(body)
	if err != nil {
		return nil, &Error{Pattern: pat, Err: err}
	}
	c.Inline = inline

	expr := `(?ims)\A`
	if c.LooseStart {
		expr += `(?:.*?)`
	}
	expr += `(?:` + c.Inline + `)`
	if c.LooseEnd {
		expr += `(?:.*)`
	}
	expr += `\z`
	c.whole, err = regexp.Compile(expr)
	if err != nil {
		return nil, &Error{Pattern: pat, Err: err}
	}
	return c, nil
}

// MustCompile is for the static catalogue only.
func MustCompile(pat string) *Compiled {
	c, err := Compile(pat)
	if err != nil {
		panic(err)
	}
	return c
}

// CompileAll compiles a pattern list, preserving order.
func CompileAll(pats []string) ([]*Compiled, error) {
	out := make([]*Compiled, 0, len(pats))
	for _, p := range pats {
		c, err := Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MatchesWhole tests text against the whole pattern, honoring the loose
// edge semantics stripped at compile time. Used to classify captured text.
func (c *Compiled) MatchesWhole(text string) bool {
	return c.whole.MatchString(text)
}

// AnyMatchesWhole reports whether any compiled pattern whole-matches text.
func AnyMatchesWhole(list []*Compiled, text string) bool {
	for _, c := range list {
		if c.MatchesWhole(text) {
			return true
		}
	}
	return false
}

// check scans for the constructs the composite expression cannot absorb:
// capturing groups destabilize slot group numbering, and a literal space
// inside a character class would survive the space rewrite with changed
// meaning.
func check(pat string) error {
	inClass := false
	for i := 0; i < len(pat); i++ {
		switch pat[i] {
		case '\\':
			if i == len(pat)-1 {
				return ErrTrailingBackslash
			}
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case ' ':
			if inClass {
				return ErrSpaceInClass
			}
		case '(':
			if inClass {
				continue
			}
			if i == len(pat)-1 || pat[i+1] != '?' {
				return ErrCapturingGroup
			}
		}
	}
	if inClass {
		return ErrUnterminatedClass
	}
	return nil
}

// hasLooseSuffix reports whether the pattern ends in an unescaped
// unlimited wildcard.
func hasLooseSuffix(pat string) bool {
	if len(pat) < 2 {
		return false
	}
	if pat[len(pat)-1] != '*' && pat[len(pat)-1] != '+' {
		return false
	}
	if pat[len(pat)-2] != '.' {
		return false
	}
	// The '.' must itself be unescaped.
	backslashes := 0
	for i := len(pat) - 3; i >= 0 && pat[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}

// translate rewrites embedded wildcards and literal space runs into their
// bounded forms. check() has already validated the pattern.
func translate(pat string) (string, error) {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pat); i++ {
		ch := pat[i]
		switch {
		case ch == '\\':
			b.WriteByte(ch)
			i++
			b.WriteByte(pat[i])
		case ch == '[':
			inClass = true
			b.WriteByte(ch)
		case ch == ']':
			inClass = false
			b.WriteByte(ch)
		case inClass:
			b.WriteByte(ch)
		case ch == '.' && i+1 < len(pat) && (pat[i+1] == '*' || pat[i+1] == '+'):
			min := 0
			if pat[i+1] == '+' {
				min = 1
			}
			fmt.Fprintf(&b, `(?:.{1,%d}){%d,%d}`, NameLen, min, WildcardReps)
			i++
		case ch == ' ':
			// A run of literal spaces collapses into one bounded class.
			for i+1 < len(pat) && pat[i+1] == ' ' {
				i++
			}
			fmt.Fprintf(&b, `%s{1,%d}`, WSComment, SpaceRun)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}
