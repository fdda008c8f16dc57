package pgame

import "github.com/mcrlgo/symparity/pkg/ldd"

// maxPriorityIn returns the highest priority with a non-empty class inside
// subgame, and false if subgame is empty or unlabelled.
func (g *Game) maxPriorityIn(subgame ldd.Ref) (int, bool) {
	for _, p := range g.SortedPriorities() {
		if g.DD.Intersect(g.Prio[p], subgame) != ldd.Empty {
			return p, true
		}
	}
	return 0, false
}

// Solve implements spec.md §4.5's Zielonka recursion over subgame,
// returning the winning regions W[0]/W[1] and a combined witness strategy.
// Exact on total games (every vertex has at least one outgoing edge). A
// vertex with no successor in subgame gets no special treatment: it is
// decided by the priority and attractor steps like any other vertex, so it
// is not necessarily won by the player who does not own it.
func (g *Game) Solve(subgame ldd.Ref) (W [2]ldd.Ref, strat Strategy) {
	if subgame == ldd.Empty {
		return [2]ldd.Ref{ldd.Empty, ldd.Empty}, Strategy{}
	}
	p, ok := g.maxPriorityIn(subgame)
	if !ok {
		return [2]ldd.Ref{ldd.Empty, ldd.Empty}, Strategy{}
	}
	alpha := Player(p % 2)
	other := alpha.Other()

	U := g.DD.Intersect(g.Prio[p], subgame)
	A, strat := g.Attr(alpha, U, subgame, ldd.Empty)

	rest := g.DD.Minus(subgame, A)
	Wp, stratP := g.Solve(rest)
	strat.Merge(stratP)

	if Wp[other] == ldd.Empty {
		var out [2]ldd.Ref
		out[alpha] = subgame
		out[other] = ldd.Empty
		return out, strat
	}

	B, stratB := g.Attr(other, Wp[other], subgame, ldd.Empty)
	strat.Merge(stratB)

	rest2 := g.DD.Minus(subgame, B)
	Wpp, stratPP := g.Solve(rest2)
	strat.Merge(stratPP)

	var out [2]ldd.Ref
	out[alpha] = Wpp[alpha]
	out[other] = g.DD.Union(B, Wpp[other])
	return out, strat
}
