package lps

import "github.com/mcrlgo/symparity/pkg/apperrors"

// FixpointSymbol is the ν (greatest, disjunctive-owner-neutral) or μ
// (least) symbol prefixing a PBES equation.
type FixpointSymbol int

const (
	Nu FixpointSymbol = iota
	Mu
)

// Operator marks whether an equation's right-hand side is built from
// disjunction (owner "even", V0) or conjunction (owner "odd", V1),
// determining the owner of every state belonging to this equation
// (spec.md §3, "Parity game", owner partition).
type Operator int

const (
	Disjunctive Operator = iota
	Conjunctive
)

// Equation is one equation of a PBES in standard recursive form: a name,
// fixpoint symbol, operator, and the summands whose PropVarUpdate targets
// other equations (or itself). Equations have no parameter list of their
// own; all of them share PBES.Parameters.
type Equation struct {
	Name      string
	Symbol    FixpointSymbol
	Op        Operator
	Summands  []Summand
}

// PBES is an ordered list of equations (the order fixes rank, spec.md §3).
// The propositional-variable tag parameter is always Parameters[0] of the
// unified parameter list once UnifyParameters has run (srf.go).
type PBES struct {
	Equations  []Equation
	Initial    string // name of the equation the initial instantiation targets
	Parameters []ProcessParameter
}

// EquationInfo is the resolved (index, rank, owner) triple for one
// equation, as required to label a symbolic parity game (spec.md §3,
// "PBES equation index").
type EquationInfo struct {
	Index int
	Rank  int
	Op    Operator
}

// EquationIndex is the deterministic name -> (index, rank, owner) mapping
// spec.md §3 requires: rank is 0 for the first equation if it is ν, else
// 1, and increments each time the fixpoint symbol flips walking down the
// equation list.
type EquationIndex struct {
	byName map[string]EquationInfo
	order  []string
}

// BuildEquationIndex computes rank by scanning Equations in file order and
// incrementing rank on every fixpoint-symbol flip, per spec.md §3.
func BuildEquationIndex(p *PBES) (*EquationIndex, error) {
	if len(p.Equations) == 0 {
		return nil, apperrors.InputShape("instantiation", "PBES has no equations")
	}
	idx := &EquationIndex{byName: make(map[string]EquationInfo, len(p.Equations))}
	rank := 0
	if p.Equations[0].Symbol == Mu {
		rank = 1
	}
	prevSymbol := p.Equations[0].Symbol
	for i, eq := range p.Equations {
		if i > 0 && eq.Symbol != prevSymbol {
			rank++
		}
		prevSymbol = eq.Symbol
		if _, dup := idx.byName[eq.Name]; dup {
			return nil, apperrors.InputShape("instantiation", "duplicate PBES equation name: "+eq.Name)
		}
		idx.byName[eq.Name] = EquationInfo{Index: i, Rank: rank, Op: eq.Op}
		idx.order = append(idx.order, eq.Name)
	}
	return idx, nil
}

// Lookup returns the (index, rank, owner) info for an equation name.
func (e *EquationIndex) Lookup(name string) (EquationInfo, bool) {
	info, ok := e.byName[name]
	return info, ok
}

// MaxRank returns the highest rank assigned to any equation.
func (e *EquationIndex) MaxRank() int {
	max := 0
	for _, info := range e.byName {
		if info.Rank > max {
			max = info.Rank
		}
	}
	return max
}

// Names returns equation names in their original file order.
func (e *EquationIndex) Names() []string {
	return append([]string(nil), e.order...)
}
