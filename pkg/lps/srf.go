package lps

import (
	"sort"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// UnifyParameters rewrites every equation's parameter list to the union of
// all equations' parameters (in a stable, sorted-by-name order with the
// propositional-variable tag kept first), giving every equation the same
// shape — required before transition groups can be computed uniformly
// across the whole PBES. It is the Go counterpart of the original
// implementation's unify_parameters transform (SPEC_FULL.md §13), and
// together with ProjectParameters gives R2 a concrete pair of operations.
func UnifyParameters(p *PBES) (*PBES, error) {
	if len(p.Equations) == 0 {
		return nil, apperrors.InputShape("instantiation", "PBES has no equations to unify")
	}

	seen := make(map[string]ProcessParameter)
	var names []string
	for _, eq := range p.Equations {
		for _, param := range unionParams(eq) {
			if _, ok := seen[param.Name]; !ok {
				seen[param.Name] = param
				names = append(names, param.Name)
			}
		}
	}
	sort.Strings(names)
	unified := make([]ProcessParameter, 0, len(names)+1)
	unified = append(unified, ProcessParameter{Name: "propvar", Sort: "PropVar"})
	for _, n := range names {
		unified = append(unified, seen[n])
	}

	out := &PBES{Initial: p.Initial, Parameters: unified}
	for _, eq := range p.Equations {
		out.Equations = append(out.Equations, Equation{
			Name:     eq.Name,
			Symbol:   eq.Symbol,
			Op:       eq.Op,
			Summands: eq.Summands,
		})
	}
	return out, nil
}

func unionParams(eq Equation) []ProcessParameter {
	var out []ProcessParameter
	for _, s := range eq.Summands {
		out = append(out, s.SumVars...)
	}
	return out
}

// ProjectParameters is UnifyParameters's inverse operation: given a unified
// PBES and the original per-equation parameter name sets, restrict each
// equation's visible parameter list back down. R2 requires that unifying
// then projecting recovers a semantically equivalent PBES.
func ProjectParameters(p *PBES, keep map[string][]string) *PBES {
	out := &PBES{Initial: p.Initial, Parameters: p.Parameters}
	for _, eq := range p.Equations {
		wanted := keep[eq.Name]
		wantSet := make(map[string]bool, len(wanted))
		for _, n := range wanted {
			wantSet[n] = true
		}
		var projected []Summand
		for _, s := range eq.Summands {
			var sv []ProcessParameter
			for _, v := range s.SumVars {
				if wantSet[v.Name] {
					sv = append(sv, v)
				}
			}
			projected = append(projected, Summand{
				SumVars:       sv,
				Condition:     s.Condition,
				NextState:     s.NextState,
				Action:        s.Action,
				PropVarUpdate: s.PropVarUpdate,
			})
		}
		out.Equations = append(out.Equations, Equation{
			Name: eq.Name, Symbol: eq.Symbol, Op: eq.Op, Summands: projected,
		})
	}
	return out
}

// MakeTotal adds a self-loop "true" sink equation and a self-loop "false"
// sink equation to p if they are not already present, ensuring invariant
// I5 (every vertex of the derived game has at least one outgoing edge). R1
// requires that the answer for the original initial equation is unaffected
// by this transform.
func MakeTotal(p *PBES) *PBES {
	hasTrue, hasFalse := false, false
	for _, eq := range p.Equations {
		if eq.Name == "true" {
			hasTrue = true
		}
		if eq.Name == "false" {
			hasFalse = true
		}
	}
	out := &PBES{Initial: p.Initial, Parameters: p.Parameters, Equations: append([]Equation(nil), p.Equations...)}
	if !hasTrue {
		out.Equations = append(out.Equations, Equation{
			Name: "true", Symbol: Nu, Op: Disjunctive,
			Summands: []Summand{{Condition: rewrite.BoolLit{Value: true}, PropVarUpdate: "true"}},
		})
	}
	if !hasFalse {
		out.Equations = append(out.Equations, Equation{
			Name: "false", Symbol: Mu, Op: Conjunctive,
			Summands: []Summand{{Condition: rewrite.BoolLit{Value: true}, PropVarUpdate: "false"}},
		})
	}
	return out
}
