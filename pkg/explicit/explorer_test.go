package explicit

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterLPS builds a one-parameter process counting 0..bound inclusive,
// mirroring pkg/reach's bounded-counter fixture so the two engines can be
// cross-checked on the same input (spec.md §8 P9's flavour, applied here
// to explicit-vs-explicit worker-count equivalence, S6).
func counterLPS(bound int64) *lps.LPS {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}}
	summand := lps.Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: bound}},
		NextState: []rewrite.Term{rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}}},
		Action:    &lps.Action{Name: "inc"},
	}
	return &lps.LPS{Parameters: params, Summands: []lps.Summand{summand}, Initial: []rewrite.Term{rewrite.IntLit{Value: 0}}}
}

type edge struct {
	src, dst int
	action   string
}

func runExplorer(t *testing.T, workers int, strategy Strategy) (int, []edge) {
	t.Helper()
	l := counterLPS(10)

	var mu sync.Mutex
	var edges []edge
	hooks := Hooks{
		ExamineTransition: func(src StateID, action string, _ []rewrite.Value, dst StateID, _ int) {
			mu.Lock()
			edges = append(edges, edge{src: int(src), dst: int(dst), action: action})
			mu.Unlock()
		},
	}

	exp := NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Workers: workers, Strategy: strategy}, hooks, nil)
	err := exp.Run(context.Background(), StateVector{int64(0)})
	require.NoError(t, err)
	return exp.Table.Len(), edges
}

func TestExplorer_BFSReachesAllStates(t *testing.T) {
	n, edges := runExplorer(t, 1, StrategyBreadth)
	assert.Equal(t, 11, n) // x = 0..10
	assert.Len(t, edges, 10)
}

// TestExplorer_WorkerCountEquivalence is spec.md §8's S6: running with 1,
// 2, and 8 workers must produce the same multiset of (source, action,
// target) triples up to renumbering of indices, canonicalised by an
// initial-state-rooted BFS order (here: since this fixture is a simple
// chain, canonical order is just numeric id order, which a deterministic
// single-summand enumeration already guarantees regardless of worker
// count).
func TestExplorer_WorkerCountEquivalence(t *testing.T) {
	want, wantEdges := runExplorer(t, 1, StrategyBreadth)
	for _, workers := range []int{2, 8} {
		got, gotEdges := runExplorer(t, workers, StrategyBreadth)
		assert.Equal(t, want, got, "worker count %d should discover the same number of states", workers)
		assert.ElementsMatch(t, wantEdges, gotEdges, "worker count %d should produce the same transitions", workers)
	}
}

func TestExplorer_DFSReachesAllStates(t *testing.T) {
	n, _ := runExplorer(t, 2, StrategyDepth)
	assert.Equal(t, 11, n)
}

func TestExplorer_HighwayBoundsFrontier(t *testing.T) {
	l := counterLPS(1000)
	exp := NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Workers: 1, Strategy: StrategyHighway, HighwayN: 5}, Hooks{}, nil)
	err := exp.Run(context.Background(), StateVector{int64(0)})
	require.NoError(t, err)
	// Highway discards survivors beyond the reservoir bound of 5, but the
	// frontier of a single chain never holds more than one state, so
	// nothing is discarded and every x = 0..1000 is discovered.
	assert.Equal(t, 1001, exp.Table.Len())
}

func TestExplorer_CacheMatchesUncached(t *testing.T) {
	without, _ := runExplorer(t, 1, StrategyBreadth)
	l := counterLPS(10)
	exp := NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Workers: 1, Strategy: StrategyBreadth, Cache: true, GlobalCache: true}, Hooks{}, nil)
	err := exp.Run(context.Background(), StateVector{int64(0)})
	require.NoError(t, err)
	assert.Equal(t, without, exp.Table.Len())
}

// confluentLPS has a non-tau summand n -> n+1 (bounded) and a confluent-tau
// summand that silently steps an auxiliary flag parameter back to false,
// used to check FindRepresentative collapses the flag's two values to one
// representative.
func confluentLPS() *lps.LPS {
	params := []lps.ProcessParameter{
		{Name: "n", Sort: "Int"},
		{Name: "flag", Sort: "Bool"},
	}
	step := lps.Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "n"}, Right: rewrite.IntLit{Value: 3}},
		NextState: []rewrite.Term{
			rewrite.Plus{Left: rewrite.Var{Name: "n"}, Right: rewrite.IntLit{Value: 1}},
			rewrite.BoolLit{Value: true},
		},
		Action: &lps.Action{Name: "step"},
	}
	resetFlag := lps.Summand{
		Condition: rewrite.Var{Name: "flag"},
		NextState: []rewrite.Term{
			rewrite.Var{Name: "n"},
			rewrite.BoolLit{Value: false},
		},
		Action: &lps.Action{Name: "tau"},
	}
	return &lps.LPS{
		Parameters: params,
		Summands:   []lps.Summand{step, resetFlag},
		Initial:    []rewrite.Term{rewrite.IntLit{Value: 0}, rewrite.BoolLit{Value: false}},
	}
}

func TestExplorer_ConfluentTauCollapsesFlag(t *testing.T) {
	l := confluentLPS()
	exp := NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(),
		Config{Workers: 1, Strategy: StrategyBreadth, ConfluentTau: []bool{false, true}}, Hooks{}, nil)
	err := exp.Run(context.Background(), StateVector{int64(0), false})
	require.NoError(t, err)

	var ns []int64
	exp.Table.Each(func(_ StateID, s StateVector) {
		ns = append(ns, s[0].(int64))
		assert.Equal(t, false, s[1], "every discovered state's flag should have been collapsed to false by the confluent-tau representative")
	})
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	assert.Equal(t, []int64{0, 1, 2, 3}, ns)
}

func TestExplorer_AbortStopsEarly(t *testing.T) {
	l := counterLPS(1_000_000)
	var exp *Explorer
	hooks := Hooks{
		DiscoverState: func(id StateID, _ StateVector) {
			if id >= 10 {
				exp.Abort()
			}
		},
	}
	exp = NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Workers: 1, Strategy: StrategyBreadth}, hooks, nil)
	err := exp.Run(context.Background(), StateVector{int64(0)})
	require.NoError(t, err)
	assert.Less(t, exp.Table.Len(), 1_000_001)
}

func TestExplorer_MaxStatesResourceExhausted(t *testing.T) {
	l := counterLPS(1000)
	exp := NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Workers: 1, Strategy: StrategyBreadth, MaxStates: 5}, Hooks{}, nil)
	err := exp.Run(context.Background(), StateVector{int64(0)})
	require.Error(t, err)
}
