// Package confluence implements find_representative: an iterative
// (explicit-stack) Tarjan strongly-connected-components search over a
// confluent-τ subgraph, used to canonicalise a successor state to the
// smallest-vertex member of its first-discovered terminal SCC (spec.md
// §4.6, "Confluent-τ representative"). Grounded on
// original_source/libraries/lps/include/mcrl2/lps/find_representative.h's
// explicit recursion avoidance (SPEC_FULL.md §13); reimplemented against
// this module's own state-identifier type rather than ported line for
// line.
package confluence

import "github.com/mcrlgo/symparity/pkg/apperrors"

// StateID is a dense identifier into the explicit explorer's discovered-
// state table (pkg/explicit).
type StateID uint64

// Successors returns the confluent-τ successors of s (a restriction of the
// full transition relation to just the τ-labelled, confluence-tagged
// summands); supplied by the caller since only it knows which summands are
// confluent.
type Successors func(s StateID) []StateID

type tarjanNode struct {
	index   int
	low     int
	onStack bool
}

// FindRepresentative runs an iterative Tarjan SCC search rooted at start
// restricted to succ, and returns the smallest StateID (by numeric value)
// in the first terminal SCC discovered — the deterministic representative
// spec.md §4.6 requires. It returns apperrors.InvariantBreach if the
// search terminates without ever closing an SCC rooted in the reachable
// subgraph, which would indicate succ is not actually confluent (every
// finite graph has at least one terminal SCC).
func FindRepresentative(start StateID, succ Successors) (StateID, error) {
	nodes := make(map[StateID]*tarjanNode)
	var stack []StateID
	counter := 0
	var best StateID
	found := false

	type frame struct {
		v        StateID
		children []StateID
		ci       int
	}
	var work []*frame

	visit := func(v StateID) {
		nodes[v] = &tarjanNode{index: counter, low: counter, onStack: true}
		counter++
		stack = append(stack, v)
		work = append(work, &frame{v: v, children: succ(v)})
	}

	visit(start)
	for len(work) > 0 && !found {
		top := work[len(work)-1]
		if top.ci < len(top.children) {
			w := top.children[top.ci]
			top.ci++
			if _, ok := nodes[w]; !ok {
				visit(w)
				continue
			}
			if nodes[w].onStack {
				if nodes[w].index < nodes[top.v].low {
					nodes[top.v].low = nodes[w].index
				}
			}
			continue
		}

		// All children processed: pop this frame.
		work = work[:len(work)-1]
		if len(work) > 0 {
			parent := work[len(work)-1]
			if nodes[top.v].low < nodes[parent.v].low {
				nodes[parent.v].low = nodes[top.v].low
			}
		}

		if nodes[top.v].low == nodes[top.v].index {
			// top.v roots an SCC: pop the stack down to and including it.
			var scc []StateID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				nodes[w].onStack = false
				scc = append(scc, w)
				if w == top.v {
					break
				}
			}
			smallest := scc[0]
			for _, w := range scc[1:] {
				if w < smallest {
					smallest = w
				}
			}
			best = smallest
			found = true
		}
	}

	if !found {
		return 0, apperrors.InvariantBreach("exploration", "find_representative: no terminal SCC found")
	}
	return best, nil
}
