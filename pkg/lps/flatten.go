package lps

import "github.com/mcrlgo/symparity/pkg/rewrite"

// Flatten turns a unified PBES (UnifyParameters must have run first) into
// the single-parameter-vector summand list spec.md §4.2 step 2 requires:
// each equation's summands are widened to the unified parameter list and
// gain an extra "propvar == X_i" conjunct, so the whole PBES can be driven
// through the same summand-group static analysis (pkg/groups) and
// reachability engine (pkg/reach) as a plain LPS. The propositional-
// variable tag is always Parameters[0] and its next-state expression is
// set to the literal name of the target equation (s.PropVarUpdate).
func Flatten(p *PBES) *LPS {
	out := &LPS{Parameters: p.Parameters}
	for _, eq := range p.Equations {
		tag := rewrite.Eq{Left: rewrite.Var{Name: p.Parameters[0].Name}, Right: rewrite.StrLit{Value: eq.Name}}
		for _, s := range eq.Summands {
			cond := s.Condition
			if cond == nil {
				cond = rewrite.BoolLit{Value: true}
			}
			widened := widenNextState(p.Parameters, s)
			out.Summands = append(out.Summands, Summand{
				SumVars:       s.SumVars,
				Condition:     rewrite.And{Left: tag, Right: cond},
				NextState:     widened,
				PropVarUpdate: s.PropVarUpdate,
			})
		}
	}
	return out
}

// widenNextState pads s's next-state list out to the unified parameter
// vector's full length, defaulting every position s did not mention to the
// identity expression, and sets position 0 (the propvar tag) to the
// literal target-equation name.
func widenNextState(params []ProcessParameter, s Summand) []rewrite.Term {
	out := make([]rewrite.Term, len(params))
	out[0] = rewrite.StrLit{Value: s.PropVarUpdate}
	for i := 1; i < len(params); i++ {
		out[i] = rewrite.Var{Name: params[i].Name}
	}
	for i, t := range s.NextState {
		if i == 0 || i >= len(out) {
			continue
		}
		if t != nil {
			out[i] = t
		}
	}
	return out
}
