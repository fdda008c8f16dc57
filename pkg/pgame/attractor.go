package pgame

import "github.com/mcrlgo/symparity/pkg/ldd"

// Attr computes spec.md §4.4's safe attractor Attr_α(U, V, I): the set of
// vertices in subgame V from which player alpha can force play into U
// without ever leaving V, while never routing through a vertex already
// claimed in I. Returns the attractor and a witness strategy for alpha's
// vertices added along the way.
func (g *Game) Attr(alpha Player, U, subgame, I ldd.Ref) (ldd.Ref, Strategy) {
	attr := g.DD.Intersect(U, subgame)
	strat := Strategy{}
	candidates := g.DD.Minus(subgame, I)

	for {
		aV := g.DD.Intersect(candidates, g.Owner[alpha])
		oV := g.DD.Intersect(candidates, g.Owner[alpha.Other()])

		newAlpha := g.DD.Minus(g.DD.Intersect(aV, g.Predecessors(aV, attr)), attr)
		newOther := g.DD.Minus(g.DD.Intersect(oV, g.AllSuccessorsIn(oV, attr)), attr)

		added := g.DD.Union(newAlpha, newOther)
		if added == ldd.Empty {
			break
		}
		if newAlpha != ldd.Empty {
			g.recordStrategy(strat, newAlpha, attr)
		}
		attr = g.DD.Union(attr, added)
	}
	return attr, strat
}

// MonotoneAttr computes spec.md §4.4's monotone attractor mAttr_α(U, c, V,
// I): like Attr, but additionally requires every step to stay within the
// priority-c class or higher-for-alpha vertices supplied by allowed — the
// restriction used when growing a fatal attractor around a single cycle.
func (g *Game) MonotoneAttr(alpha Player, U, allowed, subgame, I ldd.Ref) (ldd.Ref, Strategy) {
	restricted := g.DD.Intersect(subgame, allowed)
	return g.Attr(alpha, U, restricted, I)
}
