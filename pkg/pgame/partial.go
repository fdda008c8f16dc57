package pgame

import "github.com/mcrlgo/symparity/pkg/ldd"

// Heuristic selects one of the incremental partial-solve passes run from
// the reachability engine's end-of-round hook, in increasing order of cost
// and completeness.
type Heuristic int

const (
	HeuristicNone Heuristic = iota
	HeuristicSolitaireCycles
	HeuristicSolitaireSafeAttractors
	HeuristicForcedTopPriority
	HeuristicForcedSafeAttractors
	HeuristicFatalAttractors
	HeuristicPartialZielonkaStep
)

// PartialSolve runs heuristic h over safe (typically the engine's current
// visited set) treating I (typically the engine's current todo set, whose
// real out-edges are still unknown) as forbidden to route an attractor
// through. It returns whatever subset of safe it managed to decide; callers
// keep exploring if neither W[0] nor W[1] covers safe.
func (g *Game) PartialSolve(h Heuristic, safe, I ldd.Ref) (W [2]ldd.Ref, strat Strategy) {
	switch h {
	case HeuristicSolitaireCycles:
		return g.solitaireCycles(safe, I, false)
	case HeuristicSolitaireSafeAttractors:
		return g.solitaireCycles(safe, I, true)
	case HeuristicForcedTopPriority:
		return g.forcedTopPriority(safe, I, false)
	case HeuristicForcedSafeAttractors:
		return g.forcedTopPriority(safe, I, true)
	case HeuristicFatalAttractors:
		return g.fatalAttractors(safe, I)
	case HeuristicPartialZielonkaStep:
		return g.partialZielonkaStep(safe, I)
	default:
		return [2]ldd.Ref{ldd.Empty, ldd.Empty}, Strategy{}
	}
}

// solitaireWinning computes the vertices owned exclusively by alpha (within
// safe∖I) from which alpha can force visiting an alpha-favourable priority
// class without ever leaving its own vertices — a solitaire sub-game has no
// opponent choices at all, so reaching a favourable class once is enough to
// win it forever.
func (g *Game) solitaireWinning(alpha Player, safe, I ldd.Ref) (ldd.Ref, Strategy) {
	owned := g.DD.Minus(g.DD.Intersect(safe, g.Owner[alpha]), I)
	win := ldd.Empty
	strat := Strategy{}
	for _, p := range g.SortedPriorities() {
		if Player(p%2) != alpha {
			continue
		}
		Up := g.DD.Intersect(g.Prio[p], owned)
		if Up == ldd.Empty && win == ldd.Empty {
			continue
		}
		reach, s := g.Attr(alpha, g.DD.Union(Up, win), owned, ldd.Empty)
		strat.Merge(s)
		win = reach
	}
	return win, strat
}

func (g *Game) solitaireCycles(safe, I ldd.Ref, withSafeAttractor bool) (W [2]ldd.Ref, strat Strategy) {
	strat = Strategy{}
	for _, alpha := range [2]Player{Player0, Player1} {
		win, s := g.solitaireWinning(alpha, safe, I)
		strat.Merge(s)
		if withSafeAttractor && win != ldd.Empty {
			win, s = g.Attr(alpha, win, safe, I)
			strat.Merge(s)
		}
		W[alpha] = win
	}
	return W, strat
}

// forcedTopPriority attracts the top priority class of safe for its owning
// player in one pass (not the full descending tower Solve uses), deciding
// only what a single round of attraction can prove. withDeadEnds also
// folds in sinks of the opponent, who loses immediately having no move.
func (g *Game) forcedTopPriority(safe, I ldd.Ref, withDeadEnds bool) (W [2]ldd.Ref, strat Strategy) {
	strat = Strategy{}
	p, ok := g.maxPriorityIn(safe)
	if !ok {
		return W, strat
	}
	alpha := Player(p % 2)
	other := alpha.Other()
	Up := g.DD.Intersect(g.Prio[p], safe)
	win, s := g.Attr(alpha, Up, safe, I)
	strat.Merge(s)
	W[alpha] = win

	if withDeadEnds {
		remaining := g.DD.Minus(g.DD.Minus(safe, win), I)
		otherOwned := g.DD.Intersect(remaining, g.Owner[other])
		deadEnds := g.Sinks(otherOwned, remaining)
		if deadEnds != ldd.Empty {
			extra, s2 := g.Attr(alpha, deadEnds, safe, I)
			strat.Merge(s2)
			W[alpha] = g.DD.Union(W[alpha], extra)
		}
	}
	return W, strat
}

// fatalAttractors implements the "fatal attractor" heuristic: the entire
// top priority class is attracted under the restriction of never dropping
// below its own priority (MonotoneAttr); if that attractor's predecessor
// set loops back into the class that seeded it, the whole thing is
// certified as won by the class's owner regardless of anything outside it.
func (g *Game) fatalAttractors(safe, I ldd.Ref) (W [2]ldd.Ref, strat Strategy) {
	strat = Strategy{}
	p, ok := g.maxPriorityIn(safe)
	if !ok {
		return W, strat
	}
	alpha := Player(p % 2)
	U := g.DD.Intersect(g.Prio[p], safe)
	if U == ldd.Empty {
		return W, strat
	}
	allowed := ldd.Empty
	for _, q := range g.SortedPriorities() {
		if q >= p {
			allowed = g.DD.Union(allowed, g.Prio[q])
		}
	}
	reach, s := g.MonotoneAttr(alpha, U, allowed, safe, I)
	strat.Merge(s)

	loopsBack := g.DD.Intersect(g.Predecessors(reach, U), reach)
	if loopsBack != ldd.Empty {
		W[alpha] = reach
	}
	return W, strat
}

// partialZielonkaStep runs a single level of the Zielonka recursion
// (attract the top priority class for its owner, respecting I) without
// recursing into the undecided remainder, since recursing on a graph whose
// frontier I hasn't been fully explored yet would not be sound.
func (g *Game) partialZielonkaStep(safe, I ldd.Ref) (W [2]ldd.Ref, strat Strategy) {
	p, ok := g.maxPriorityIn(safe)
	if !ok {
		return W, Strategy{}
	}
	alpha := Player(p % 2)
	U := g.DD.Intersect(g.Prio[p], safe)
	A, strat := g.Attr(alpha, U, safe, I)
	W[alpha] = A
	return W, strat
}
