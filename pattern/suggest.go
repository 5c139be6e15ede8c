package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownRuleError reports a catalogue lookup miss with near-miss
// suggestions so typos in configuration are easy to fix.
type UnknownRuleError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule name %q (did you mean: %s?)",
		e.Name, strings.Join(e.Suggestions, ", "))
}

// LookupRule finds a catalogue rule by case-sensitive name. An unknown
// name returns an UnknownRuleError listing all names at the minimum edit
// distance when that distance is below 3, else every known name.
func LookupRule(name string) (Rule, error) {
	if r, ok := catalog[name]; ok {
		return r, nil
	}

	minDist := -1
	var nearest []string
	for known := range catalog {
		d := editDistance(name, known)
		switch {
		case minDist < 0 || d < minDist:
			minDist = d
			nearest = []string{known}
		case d == minDist:
			nearest = append(nearest, known)
		}
	}

	suggestions := nearest
	if minDist >= 3 {
		suggestions = RuleNames()
	}
	sort.Strings(suggestions)
	return Rule{}, &UnknownRuleError{Name: name, Suggestions: suggestions}
}

// editDistance is Levenshtein distance over bytes, two-row DP.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
