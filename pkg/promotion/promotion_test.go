package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSolve_SingleSelfLoop checks the smallest possible total game: one
// vertex looping to itself is won by whichever parity its own priority has.
func TestSolve_SingleSelfLoop(t *testing.T) {
	even := &Graph{Owner: []Player{Even}, Priority: []int{0}, Succ: [][]int{{0}}}
	res := Solve(even)
	assert.Equal(t, Even, res.Winner[0])

	odd := &Graph{Owner: []Player{Odd}, Priority: []int{1}, Succ: [][]int{{0}}}
	res = Solve(odd)
	assert.Equal(t, Odd, res.Winner[0])
}

// TestSolve_TwoCycleFollowsMaxPriority is the textbook two-vertex cycle:
// regardless of who owns which vertex, the infinite play visits both
// priorities forever, so both vertices are won by the parity of the higher
// one.
func TestSolve_TwoCycleFollowsMaxPriority(t *testing.T) {
	g := &Graph{
		Owner:    []Player{Even, Odd},
		Priority: []int{2, 1},
		Succ:     [][]int{{1}, {0}},
	}
	res := Solve(g)
	assert.Equal(t, Even, res.Winner[0])
	assert.Equal(t, Even, res.Winner[1])
}

// TestSolve_TrappedChoiceGoesToOdd builds a three-vertex game where the
// Even-owned vertex has two live choices, both of which only ever lead back
// into odd-dominated cycles — v0<->v1 (max priority 3, odd) or v2's
// self-loop (priority 1, odd) — so Even's freedom to choose never actually
// helps it, and every vertex is won by Odd.
func TestSolve_TrappedChoiceGoesToOdd(t *testing.T) {
	g := &Graph{
		Owner:    []Player{Odd, Even, Odd},
		Priority: []int{3, 2, 1},
		Succ:     [][]int{{1}, {0, 2}, {2}},
	}
	res := Solve(g)
	assert.Equal(t, Odd, res.Winner[0])
	assert.Equal(t, Odd, res.Winner[1])
	assert.Equal(t, Odd, res.Winner[2])
}

// TestSolve_EvenEscapeHatchWins mirrors the previous game but gives v1 an
// escape to a fresh even sink instead of only odd traps, so Even can now
// force a win by always choosing the sink.
func TestSolve_EvenEscapeHatchWins(t *testing.T) {
	g := &Graph{
		Owner:    []Player{Odd, Even, Even},
		Priority: []int{3, 2, 0},
		Succ:     [][]int{{1}, {0, 2}, {2}},
	}
	res := Solve(g)
	assert.Equal(t, Even, res.Winner[1])
	assert.Equal(t, Even, res.Winner[2])
}

// TestSolve_StrategyStaysInWinningRegion checks that every strategy move
// recorded for a vertex lands back inside that vertex's own winning region
// (spec.md §3's "optional strategy" witness requirement).
func TestSolve_StrategyStaysInWinningRegion(t *testing.T) {
	g := &Graph{
		Owner:    []Player{Even, Odd},
		Priority: []int{2, 1},
		Succ:     [][]int{{1}, {0}},
	}
	res := Solve(g)
	for v, w := range res.Strategy {
		assert.Equal(t, res.Winner[v], res.Winner[w], "strategy move from %d to %d should stay in the same winning region", v, w)
	}
}

func TestDominions_GroupsByWinner(t *testing.T) {
	res := Result{Winner: []Player{Even, Odd, Even}}
	doms := res.Dominions()
	assert.Equal(t, []int{0, 2}, doms[Even])
	assert.Equal(t, []int{1}, doms[Odd])
}
