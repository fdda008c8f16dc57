// Package pgame implements spec.md §4.4/§4.5's symbolic parity-game
// representation and solver: owner/priority labelling over a reachable LDD,
// safe/monotone attractors, Zielonka recursion, and the seven partial-solve
// heuristics invoked from the reachability engine's end-of-round hook.
package pgame

import (
	"sort"

	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/ldd"
)

// Player is spec.md §3's owner: 0 (disjunctive/"even") or 1
// (conjunctive/"odd").
type Player int

const (
	Player0 Player = 0
	Player1 Player = 1
)

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == Player0 {
		return Player1
	}
	return Player0
}

// Game is spec.md §3's "Parity game": a reachable vertex set V, an owner
// partition, a priority map, and the transition groups serving as the edge
// relation.
type Game struct {
	DD     *ldd.Kernel
	V      ldd.Ref
	Owner  [2]ldd.Ref // Owner[0]=V0, Owner[1]=V1, a partition of V
	Prio   map[int]ldd.Ref
	Groups []*groups.TransitionGroup
	Arity  int // number of process parameters, the tuple length everywhere in this package
}

// MaxPriority returns the highest key with a non-empty priority class, or
// -1 if every class is empty.
func (g *Game) MaxPriority() int {
	max := -1
	for p, set := range g.Prio {
		if set != ldd.Empty && p > max {
			max = p
		}
	}
	return max
}

// SortedPriorities returns the keys of Prio with non-empty classes, in
// descending order (max-priority games process the highest priority
// first).
func (g *Game) SortedPriorities() []int {
	var ps []int
	for p, set := range g.Prio {
		if set != ldd.Empty {
			ps = append(ps, p)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ps)))
	return ps
}

// Ranks partitions V by priority (spec.md §4.4, "ranks()").
func (g *Game) Ranks() map[int]ldd.Ref {
	out := make(map[int]ldd.Ref, len(g.Prio))
	for p, set := range g.Prio {
		out[p] = g.DD.Intersect(set, g.V)
	}
	return out
}

// Players returns (V0, V1), spec.md §4.4's "players()".
func (g *Game) Players() (ldd.Ref, ldd.Ref) {
	return g.DD.Intersect(g.Owner[0], g.V), g.DD.Intersect(g.Owner[1], g.V)
}

// VertexPlayer returns the player owning v, using Owner[0]/Owner[1].
func (g *Game) VertexPlayer(v Player) ldd.Ref {
	return g.DD.Intersect(g.Owner[v], g.V)
}

// Predecessors computes { u in U : exists v in W. u -> v }, spec.md §4.4's
// "predecessors(U, W)", using relprev across every transition group.
func (g *Game) Predecessors(U, W ldd.Ref) ldd.Ref {
	var pred ldd.Ref = ldd.Empty
	for _, grp := range g.Groups {
		pred = g.DD.Union(pred, g.DD.RelPrev(W, grp.Meta, grp.L, U))
	}
	return g.DD.Intersect(pred, U)
}

// HasSuccessorIn reports, as an LDD, the subset of U that has at least one
// successor inside W.
func (g *Game) HasSuccessorIn(U, W ldd.Ref) ldd.Ref {
	return g.Predecessors(U, W)
}

// AllSuccessorsIn returns the subset of U all of whose successors lie in W:
// U minus (the set of U-vertices with at least one successor outside W).
func (g *Game) AllSuccessorsIn(U, W ldd.Ref) ldd.Ref {
	outside := g.DD.Minus(g.V, W)
	hasOutside := g.Predecessors(U, outside)
	return g.DD.Minus(U, hasOutside)
}

// SafeControlPredecessors computes spec.md §4.4's
// safe_control_predecessors(α, U, V, W, Vplayer, I) for vertices in V∖I:
// α-vertices with a successor into U, plus (1-α)-vertices all of whose
// successors lie in U, with intermediate vertices outside W∩Vplayer[1-α]
// excluded from the (1-α) case (the "chaining" restriction).
func (g *Game) SafeControlPredecessors(alpha Player, U, subgame, W ldd.Ref, I ldd.Ref) ldd.Ref {
	candidates := g.DD.Minus(subgame, I)
	alphaVerts := g.DD.Intersect(candidates, g.Owner[alpha])
	otherVerts := g.DD.Intersect(candidates, g.Owner[alpha.Other()])

	alphaHit := g.DD.Intersect(alphaVerts, g.Predecessors(alphaVerts, U))

	otherRestricted := g.DD.Intersect(otherVerts, W)
	otherForced := g.DD.Intersect(otherRestricted, g.AllSuccessorsIn(otherRestricted, U))

	return g.DD.Union(alphaHit, otherForced)
}

// Sinks returns U ∖ predecessors(U, V), spec.md §4.4's "sinks(U, V)":
// vertices of U with no outgoing edge into V at all.
func (g *Game) Sinks(U, subgame ldd.Ref) ldd.Ref {
	return g.DD.Minus(U, g.Predecessors(U, subgame))
}
