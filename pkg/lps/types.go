// Package lps models the Linear Process Specification / Parameterised
// Boolean Equation System data model of spec.md §3: typed parameter
// vectors, summands, read/write patterns, and the PBES standard recursive
// form used to derive a parity game's owner/priority labelling.
package lps

import "github.com/mcrlgo/symparity/pkg/rewrite"

// Sort names a data sort a process parameter ranges over. A few built-in
// sorts ("Bool", "Int") are handled natively by pkg/rewrite; any other name
// is an opaque finite sort whose carrier must be supplied via a Domains
// table (pkg/rewrite.Domains) built from the input specification.
type Sort string

// ProcessParameter is one position of the parameter vector d = d1...dn
// (spec.md §3). Position in the vector is implicit: it is this
// parameter's index within LPS.Parameters / PBES.Parameters.
type ProcessParameter struct {
	Name string
	Sort Sort
}

// Action is a multi-action label: a name plus argument expressions,
// rewritten the same way next-state expressions are (spec.md §3's `a`).
type Action struct {
	Name string
	Args []rewrite.Term
}

// Summand is spec.md §3's `(e, f, g, a)` tuple: existentially bound
// summation variables e, condition f, next-state expressions g (one per
// process parameter, g[i] == Var{Parameters[i].Name} when the parameter is
// unchanged), and a multi-action or propositional-variable update a.
type Summand struct {
	SumVars    []ProcessParameter
	Condition  rewrite.Term
	NextState  []rewrite.Term
	Action     *Action
	// PropVarUpdate is set instead of Action when this summand is
	// PBES-derived: the name of the target equation this summand's
	// instantiation moves control to, plus the propositional-variable
	// tag index is recorded via NextState[0] in the usual way.
	PropVarUpdate string
}

// LPS is a Linear Process Specification: a parameter vector, an ordered
// list of summands, and the initial value of every parameter.
type LPS struct {
	Parameters []ProcessParameter
	Summands   []Summand
	Initial    []rewrite.Term
}

// NumParameters returns n, the arity of the parameter vector.
func (l *LPS) NumParameters() int { return len(l.Parameters) }
