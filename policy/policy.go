// Package policy evaluates a per-report gate expression written in CEL.
// The expression decides whether a scanned resource is acceptable; the
// command exits nonzero when any report is refused.
package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

// Policy is a compiled gate expression. Immutable; safe for concurrent
// evaluation.
type Policy struct {
	source string
	prg    cel.Program
}

// Compile builds the evaluation environment and checks the expression.
// Available variables:
//
//	overall  string - FIRST_PARTY, THIRD_PARTY, UNKNOWN, or FORBIDDEN
//	resource string - resource name
//	source   string - originating source kind (file, git, ...)
//	matches  int    - total match count
//	unknown  int    - matches classified UNKNOWN
//
// The expression must produce a bool.
func Compile(expr string) (*Policy, error) {
	env, err := cel.NewEnv(
		cel.Variable("overall", cel.StringType),
		cel.Variable("resource", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("matches", cel.IntType),
		cel.Variable("unknown", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("policy environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("policy expression: %w", iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy expression: produces %s, want bool", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("policy program: %w", err)
	}
	return &Policy{source: expr, prg: prg}, nil
}

// Source returns the original expression text.
func (p *Policy) Source() string { return p.source }

// Allow evaluates the gate for one report.
func (p *Policy) Allow(r scan.Report) (bool, error) {
	unknown := 0
	for _, m := range r.Matches {
		if m.Party == copywatch.Unknown {
			unknown++
		}
	}

	out, _, err := p.prg.Eval(map[string]any{
		"overall":  r.Overall.String(),
		"resource": r.Resource.Name,
		"source":   r.Resource.Source,
		"matches":  len(r.Matches),
		"unknown":  unknown,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating policy for %s: %w", r.Resource.Name, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluating policy for %s: non-bool result %v", r.Resource.Name, out.Value())
	}
	return allowed, nil
}
