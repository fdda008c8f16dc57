package lps

import "github.com/mcrlgo/symparity/pkg/rewrite"

// Pattern is the read/write classification of one summand against a fixed
// parameter vector, spec.md §3's "read/write pattern of a summand" made
// concrete as two same-length boolean slices rather than one 2n bit-vector
// (Go has no native bit-vector type; two slices are the idiomatic
// equivalent and avoid bit-twiddling in every caller).
type Pattern struct {
	Read  []bool
	Write []bool
}

// ComputePattern computes s's read/write pattern against params. Position i
// is read if parameter i's name occurs free in the condition, in the
// action's arguments, or in any next-state expression that is not the
// identity, its own included (gj != dj case, spec.md §3; so y := y+1 reads
// y). Position i is written iff its own
// next-state expression is not syntactically the identity Var{params[i].Name}.
func ComputePattern(params []ProcessParameter, s Summand) Pattern {
	n := len(params)
	read := make([]bool, n)
	write := make([]bool, n)

	nameToPos := make(map[string]int, n)
	for i, p := range params {
		nameToPos[p.Name] = i
	}

	markRead := func(vars []string) {
		for _, v := range vars {
			if i, ok := nameToPos[v]; ok {
				read[i] = true
			}
		}
	}

	if s.Condition != nil {
		markRead(s.Condition.Variables())
	}
	if s.Action != nil {
		for _, arg := range s.Action.Args {
			markRead(arg.Variables())
		}
	}

	for i, p := range params {
		if i >= len(s.NextState) || s.NextState[i] == nil {
			continue
		}
		if isIdentity(s.NextState[i], p.Name) {
			continue
		}
		write[i] = true
		// A non-identity g_j reads every free variable it mentions,
		// including possibly d_j itself (e.g. g_j = d_j + 1).
		markRead(s.NextState[i].Variables())
	}

	return Pattern{Read: read, Write: write}
}

// isIdentity reports whether e is syntactically just Var{name}: the
// "unchanged" shape spec.md §3 tests g_i != d_i against.
func isIdentity(e rewrite.Term, name string) bool {
	v, ok := e.(rewrite.Var)
	return ok && v.Name == name
}

// Widen sets every position of both Read and Write to true, implementing
// the no_discard/no_discard_read/no_discard_write CLI flags of spec.md §6
// (called selectively by the caller per flag).
func (p *Pattern) Widen(read, write bool) {
	if read {
		for i := range p.Read {
			p.Read[i] = true
		}
	}
	if write {
		for i := range p.Write {
			p.Write[i] = true
		}
	}
}

// Equal reports whether p and q classify every position identically.
func (p Pattern) Equal(q Pattern) bool {
	if len(p.Read) != len(q.Read) || len(p.Write) != len(q.Write) {
		return false
	}
	for i := range p.Read {
		if p.Read[i] != q.Read[i] || p.Write[i] != q.Write[i] {
			return false
		}
	}
	return true
}

// Union returns a pattern that is the position-wise OR of p and q, the
// widening step the `used` grouping policy applies (spec.md §4.2 step 5).
func (p Pattern) Union(q Pattern) Pattern {
	out := Pattern{Read: make([]bool, len(p.Read)), Write: make([]bool, len(p.Write))}
	for i := range p.Read {
		out.Read[i] = p.Read[i] || q.Read[i]
		out.Write[i] = p.Write[i] || q.Write[i]
	}
	return out
}
