package copywatch

import "encoding/json"

// Party classifies a license or authorship declaration relative to the
// scanning organization's own accepted terms.
type Party int

const (
	FirstParty Party = iota
	ThirdParty
	Unknown
	Forbidden
)

func (p Party) String() string {
	return [...]string{
		"FIRST_PARTY",
		"THIRD_PARTY",
		"UNKNOWN",
		"FORBIDDEN",
	}[p]
}

// outranks reports whether p dominates q in the overall-classification
// ordering: FORBIDDEN > UNKNOWN > THIRD_PARTY > FIRST_PARTY.
func (p Party) outranks(q Party) bool {
	return p > q
}

// MatchKind says what a match found: a license declaration or an
// author/owner declaration.
type MatchKind int

const (
	KindLicense MatchKind = iota
	KindAuthorOwner
)

func (k MatchKind) String() string {
	return [...]string{
		"LICENSE",
		"AUTHOR_OWNER",
	}[k]
}

// Match is a single positioned finding produced by the scanner.
// Offsets are character offsets into the decoded stream, lines are 1-based.
type Match struct {
	Party Party
	Kind  MatchKind

	// Text is the normalized captured text (whitespace/comment runs
	// collapsed to single spaces, URL-shaped tokens preserved verbatim).
	Text string

	StartLine int
	EndLine   int

	StartOffset int
	EndOffset   int
}

type matchJSON struct {
	Party       string `json:"Party"`
	Kind        string `json:"Kind"`
	Text        string `json:"Text"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	StartOffset int    `json:"StartOffset"`
	EndOffset   int    `json:"EndOffset"`
}

func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchJSON{
		Party:       m.Party.String(),
		Kind:        m.Kind.String(),
		Text:        m.Text,
		StartLine:   m.StartLine,
		EndLine:     m.EndLine,
		StartOffset: m.StartOffset,
		EndOffset:   m.EndOffset,
	})
}

// OverallParty folds an ordered match list into a single file
// classification.
//
// The default is FIRST_PARTY. Any FORBIDDEN match wins outright. Otherwise
// a match whose party outranks the running party raises it, with one
// deliberate exception: a third-party AUTHOR_OWNER match does not by itself
// raise the classification when the file also carries a first-party LICENSE
// match (the accepted external contribution case). A third-party owner with
// no first-party license at all downgrades the file to THIRD_PARTY.
func OverallParty(matches []Match) Party {
	overall := FirstParty
	haveFirstPartyLicense := false
	haveThirdPartyOwner := false

	for _, m := range matches {
		if m.Party == Forbidden {
			return Forbidden
		}
		if m.Party == FirstParty && m.Kind == KindLicense {
			haveFirstPartyLicense = true
			continue
		}
		if m.Party == ThirdParty && m.Kind == KindAuthorOwner {
			haveThirdPartyOwner = true
			continue
		}
		if m.Party.outranks(overall) {
			overall = m.Party
		}
	}

	if haveThirdPartyOwner && !haveFirstPartyLicense && ThirdParty.outranks(overall) {
		overall = ThirdParty
	}
	return overall
}
