package decode

import "strings"

// Markup sequences rewritten to a literal double quote while decoding, so
// quoted names inside structured documentation match the same patterns as
// quoted names in plain text.
var rewriteSeqs = []string{
	"&quot;",
	"&#34;",
	"<var>",
	"</var>",
}

const rewriteTo = '"'

type prefixState int

const (
	matchNone prefixState = iota
	matchPrefix
	matchFull
)

// classify reports whether p is a complete markup sequence, a proper
// prefix of one, or neither.
func classify(p []rune) prefixState {
	s := string(p)
	for _, seq := range rewriteSeqs {
		if s == seq {
			return matchFull
		}
		if strings.HasPrefix(seq, s) {
			return matchPrefix
		}
	}
	return matchNone
}

// rewriter is the streaming markup-rewrite state machine. It owns exactly
// one pending buffer: characters that form a proper prefix of a markup
// sequence are held back rather than emitted, and either collapse to a
// quote on completion or spill out literally on mismatch or flush.
type rewriter struct {
	pending []rune
}

func (w *rewriter) pendingLen() int { return len(w.pending) }

// push feeds one character through the state machine, appending any
// characters that became decidable to out.
func (w *rewriter) push(r rune, out []rune) []rune {
	w.pending = append(w.pending, r)
	for len(w.pending) > 0 {
		switch classify(w.pending) {
		case matchFull:
			out = append(out, rewriteTo)
			w.pending = w.pending[:0]
			return out
		case matchPrefix:
			return out
		default:
			// The held prefix is not a markup sequence. Release its
			// first character and retry: the remainder may itself
			// start a sequence (e.g. "&&quot;").
			out = append(out, w.pending[0])
			copy(w.pending, w.pending[1:])
			w.pending = w.pending[:len(w.pending)-1]
		}
	}
	return out
}

// flush releases any held prefix literally. Called at end-of-input.
func (w *rewriter) flush(out []rune) []rune {
	out = append(out, w.pending...)
	w.pending = w.pending[:0]
	return out
}
