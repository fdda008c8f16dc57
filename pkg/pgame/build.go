package pgame

import (
	"github.com/mcrlgo/symparity/pkg/ddindex"
	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/lps"
)

// NewGame labels a reachable LDD with owner/priority information derived
// from a PBES equation index, keyed by the ldd value of the propositional-
// variable tag in position 0 (spec.md §4.4, "Constructed from ... the PBES
// equation info ... keyed by the ldd value of the propositional-variable
// tag in the first data-index table").
func NewGame(dd *ldd.Kernel, visited ldd.Ref, arity int, gs []*groups.TransitionGroup, propVarTable *ddindex.Table, idx *lps.EquationIndex) *Game {
	g := &Game{
		DD:     dd,
		V:      visited,
		Groups: gs,
		Arity:  arity,
		Prio:   make(map[int]ldd.Ref),
	}
	g.Owner[Player0] = ldd.Empty
	g.Owner[Player1] = ldd.Empty

	for _, name := range idx.Names() {
		info, ok := idx.Lookup(name)
		if !ok {
			continue
		}
		value, ok := propVarTable.IndexOf(name)
		if !ok {
			continue // no reachable state carries this equation's tag
		}
		class := filterByFirst(dd, visited, arity, value)
		if class == ldd.Empty {
			continue
		}
		g.Prio[info.Rank] = dd.Union(g.Prio[info.Rank], class)
		owner := Player0
		if info.Op == lps.Conjunctive {
			owner = Player1
		}
		g.Owner[owner] = dd.Union(g.Owner[owner], class)
	}
	return g
}

// filterByFirst returns the subset of r whose position-0 value equals
// value. pkg/ldd exposes no direct single-position restriction primitive,
// so this rebuilds the subset from the enumerated members — adequate for
// the state spaces this module's tests and CLI tools operate on (spec.md
// does not require this operation at kernel scale; a kernel-native
// restrict would replace this if sat-enumeration ever became a
// bottleneck).
func filterByFirst(dd *ldd.Kernel, r ldd.Ref, arity int, value uint32) ldd.Ref {
	out := ldd.Empty
	dd.SatAll(r, arity, func(tuple []uint32) bool {
		if tuple[0] == value {
			out = dd.Union(out, dd.Singleton(tuple))
		}
		return true
	})
	return out
}
