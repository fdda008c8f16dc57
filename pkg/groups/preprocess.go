package groups

import (
	"fmt"

	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// OnePointRuleRewrite eliminates a summation variable that a conjunct of
// the condition pins to a constant value (`e == c && ...`), substituting
// the constant everywhere in the summand and dropping the variable from
// SumVars. This mirrors the original implementation's
// one_point_rule_rewrite (SPEC_FULL.md §13): the same simplification,
// reimplemented against this package's own term language rather than
// ported line for line.
func OnePointRuleRewrite(s lps.Summand) lps.Summand {
	cond := s.Condition
	remaining := append([]lps.ProcessParameter(nil), s.SumVars...)
	changed := true
	for changed {
		changed = false
		for i, v := range remaining {
			if value, ok := findOnePoint(cond, v.Name); ok {
				cond = substituteVar(cond, v.Name, value)
				s.NextState = substituteNextState(s.NextState, v.Name, value)
				if s.Action != nil {
					args := make([]rewrite.Term, len(s.Action.Args))
					for j, a := range s.Action.Args {
						args[j] = substituteVar(a, v.Name, value)
					}
					s.Action = &lps.Action{Name: s.Action.Name, Args: args}
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				changed = true
				break
			}
		}
	}
	out := s
	out.Condition = cond
	out.SumVars = remaining
	return out
}

// findOnePoint looks for a top-level conjunct of the shape `Var{name} ==
// literal` (or the symmetric form) and returns the literal it pins name to.
func findOnePoint(e rewrite.Term, name string) (rewrite.Term, bool) {
	switch t := e.(type) {
	case rewrite.And:
		if v, ok := findOnePoint(t.Left, name); ok {
			return v, ok
		}
		return findOnePoint(t.Right, name)
	case rewrite.Eq:
		if isVarNamed(t.Left, name) && isLiteral(t.Right) {
			return t.Right, true
		}
		if isVarNamed(t.Right, name) && isLiteral(t.Left) {
			return t.Left, true
		}
	}
	return nil, false
}

func isVarNamed(e rewrite.Term, name string) bool {
	v, ok := e.(rewrite.Var)
	return ok && v.Name == name
}

func isLiteral(e rewrite.Term) bool {
	switch e.(type) {
	case rewrite.BoolLit, rewrite.IntLit:
		return true
	default:
		return false
	}
}

func substituteVar(e rewrite.Term, name string, value rewrite.Term) rewrite.Term {
	switch t := e.(type) {
	case rewrite.Var:
		if t.Name == name {
			return value
		}
		return t
	case rewrite.And:
		return rewrite.And{Left: substituteVar(t.Left, name, value), Right: substituteVar(t.Right, name, value)}
	case rewrite.Or:
		return rewrite.Or{Left: substituteVar(t.Left, name, value), Right: substituteVar(t.Right, name, value)}
	case rewrite.Not:
		return rewrite.Not{Operand: substituteVar(t.Operand, name, value)}
	case rewrite.Eq:
		return rewrite.Eq{Left: substituteVar(t.Left, name, value), Right: substituteVar(t.Right, name, value)}
	case rewrite.Lt:
		return rewrite.Lt{Left: substituteVar(t.Left, name, value), Right: substituteVar(t.Right, name, value)}
	case rewrite.Plus:
		return rewrite.Plus{Left: substituteVar(t.Left, name, value), Right: substituteVar(t.Right, name, value)}
	default:
		return e
	}
}

func substituteNextState(g []rewrite.Term, name string, value rewrite.Term) []rewrite.Term {
	if g == nil {
		return nil
	}
	out := make([]rewrite.Term, len(g))
	for i, e := range g {
		if e == nil {
			continue
		}
		out[i] = substituteVar(e, name, value)
	}
	return out
}

// ResolveNameClashes renames every summation variable of s that collides
// with a process-parameter name (or with another summation variable of
// the same summand) by appending a numeric suffix, so that later static
// analysis never conflates a bound variable with a process parameter.
// Mirrors spec.md §4.2 step 1's "resolve variable-name clashes between
// summation variables and process parameters".
func ResolveNameClashes(params []lps.ProcessParameter, s lps.Summand) lps.Summand {
	reserved := make(map[string]bool, len(params))
	for _, p := range params {
		reserved[p.Name] = true
	}

	rename := make(map[string]string)
	newSumVars := make([]lps.ProcessParameter, len(s.SumVars))
	for i, v := range s.SumVars {
		name := v.Name
		suffix := 0
		for reserved[name] {
			suffix++
			name = fmt.Sprintf("%s_%d", v.Name, suffix)
		}
		reserved[name] = true
		rename[v.Name] = name
		newSumVars[i] = lps.ProcessParameter{Name: name, Sort: v.Sort}
	}
	if len(rename) == 0 {
		return s
	}

	out := s
	out.SumVars = newSumVars
	out.Condition = renameVars(s.Condition, rename)
	out.NextState = substituteNextStateRename(s.NextState, rename)
	return out
}

func renameVars(e rewrite.Term, rename map[string]string) rewrite.Term {
	if e == nil {
		return nil
	}
	switch t := e.(type) {
	case rewrite.Var:
		if n, ok := rename[t.Name]; ok {
			return rewrite.Var{Name: n}
		}
		return t
	case rewrite.And:
		return rewrite.And{Left: renameVars(t.Left, rename), Right: renameVars(t.Right, rename)}
	case rewrite.Or:
		return rewrite.Or{Left: renameVars(t.Left, rename), Right: renameVars(t.Right, rename)}
	case rewrite.Not:
		return rewrite.Not{Operand: renameVars(t.Operand, rename)}
	case rewrite.Eq:
		return rewrite.Eq{Left: renameVars(t.Left, rename), Right: renameVars(t.Right, rename)}
	case rewrite.Lt:
		return rewrite.Lt{Left: renameVars(t.Left, rename), Right: renameVars(t.Right, rename)}
	case rewrite.Plus:
		return rewrite.Plus{Left: renameVars(t.Left, rename), Right: renameVars(t.Right, rename)}
	default:
		return e
	}
}

func substituteNextStateRename(g []rewrite.Term, rename map[string]string) []rewrite.Term {
	if g == nil {
		return nil
	}
	out := make([]rewrite.Term, len(g))
	for i, e := range g {
		out[i] = renameVars(e, rename)
	}
	return out
}
