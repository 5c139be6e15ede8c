package regexp

import (
	stdlib "regexp"

	gore2 "github.com/wasilibs/go-re2"
)

// engine is an internal interface satisfied by both *stdlib.Regexp and *gore2.Regexp.
type engine interface {
	MatchString(s string) bool
	FindString(s string) string
	FindStringSubmatchIndex(s string) []int
	FindAllStringSubmatchIndex(s string, n int) [][]int
	SubexpNames() []string
}

// Regexp wraps a compiled regular expression. It is a concrete struct
// so that *Regexp works as a normal pointer (not pointer-to-interface).
type Regexp struct{ e engine }

func (r *Regexp) MatchString(s string) bool {
	return r.e.MatchString(s)
}
func (r *Regexp) FindString(s string) string {
	return r.e.FindString(s)
}
func (r *Regexp) FindStringSubmatchIndex(s string) []int {
	return r.e.FindStringSubmatchIndex(s)
}
func (r *Regexp) FindAllStringSubmatchIndex(s string, n int) [][]int {
	return r.e.FindAllStringSubmatchIndex(s, n)
}
func (r *Regexp) SubexpNames() []string {
	return r.e.SubexpNames()
}

var currentEngine = "stdlib"

// Version returns the name of the active regex engine.
func Version() string { return currentEngine }

// SetEngine selects the regex engine used by subsequent Compile calls.
func SetEngine(name string) {
	switch name {
	case "stdlib", "re2":
		currentEngine = name
	default:
		panic("regexp: unknown engine: " + name)
	}
}

// Compile compiles a regular expression using the currently selected engine.
func Compile(str string) (*Regexp, error) {
	if currentEngine == "re2" {
		impl, err := gore2.Compile(str)
		if err != nil {
			return nil, err
		}
		return &Regexp{e: impl}, nil
	}
	impl, err := stdlib.Compile(str)
	if err != nil {
		return nil, err
	}
	return &Regexp{e: impl}, nil
}

// MustCompile compiles a regular expression using the currently selected
// engine and panics on error. Reserved for static patterns known at init.
func MustCompile(str string) *Regexp {
	r, err := Compile(str)
	if err != nil {
		panic(err)
	}
	return r
}
