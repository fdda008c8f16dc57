package reach

import (
	"testing"

	"github.com/mcrlgo/symparity/internal/parallel"
	"github.com/mcrlgo/symparity/pkg/ddindex"
	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEngine_BoundedCounter exercises spec.md §4.3's algorithm end to end
// on a one-parameter process that counts from 0 up to 2 and stops
// (condition x < 2; next-state x+1), checking the reachable set is exactly
// {0,1,2}.
func TestEngine_BoundedCounter(t *testing.T) {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}}
	summand := lps.Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 2}},
		NextState: []rewrite.Term{rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}}},
	}
	pattern := lps.ComputePattern(params, summand)
	group := groups.BuildGroup(params, []lps.Summand{summand}, pattern)

	k := ldd.NewKernel()
	tables := ddindex.NewTables(1)
	eng := NewEngine(k, params, []*groups.TransitionGroup{&group}, tables, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Cached: true}, nil)

	_, err := eng.Initial([]interface{}{int64(0)})
	require.NoError(t, err)

	visited, err := eng.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(3), k.SatCount(visited).Int64())

	var decoded []int64
	k.SatAll(visited, 1, func(tuple []uint32) bool {
		v, _ := tables.At(0).At(tuple[0])
		decoded = append(decoded, v.(int64))
		return true
	})
	assert.ElementsMatch(t, []int64{0, 1, 2}, decoded)
}

func TestEngine_MaxIterationsStopsEarly(t *testing.T) {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}}
	summand := lps.Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 100}},
		NextState: []rewrite.Term{rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}}},
	}
	pattern := lps.ComputePattern(params, summand)
	group := groups.BuildGroup(params, []lps.Summand{summand}, pattern)

	k := ldd.NewKernel()
	tables := ddindex.NewTables(1)
	eng := NewEngine(k, params, []*groups.TransitionGroup{&group}, tables, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Cached: true, MaxIterations: 2}, nil)

	_, err := eng.Initial([]interface{}{int64(0)})
	require.NoError(t, err)

	_, err = eng.Run()
	require.Error(t, err)
}

// TestEngine_WorkerPoolMatchesSequential checks P4/P6-adjacent determinism:
// enabling Pool changes only how learnTransitions is scheduled, never the
// resulting visited set or satcount (spec.md §8 P4, "cache soundness" and
// by extension any scheduling optimisation).
func TestEngine_WorkerPoolMatchesSequential(t *testing.T) {
	build := func(pool *parallel.WorkerPool) int64 {
		params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}}
		summand := lps.Summand{
			Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 25}},
			NextState: []rewrite.Term{rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}}},
		}
		pattern := lps.ComputePattern(params, summand)
		group := groups.BuildGroup(params, []lps.Summand{summand}, pattern)

		k := ldd.NewKernel()
		tables := ddindex.NewTables(1)
		eng := NewEngine(k, params, []*groups.TransitionGroup{&group}, tables, rewrite.Domains{}, rewrite.NewSimpleRewriter(), Config{Cached: true}, nil)
		eng.Pool = pool

		_, err := eng.Initial([]interface{}{int64(0)})
		require.NoError(t, err)
		visited, err := eng.Run()
		require.NoError(t, err)
		return k.SatCount(visited).Int64()
	}

	sequential := build(nil)
	pool := parallel.NewWorkerPool(4)
	defer pool.Shutdown()
	parallelCount := build(pool)

	assert.Equal(t, sequential, parallelCount)
	assert.Equal(t, int64(26), sequential)
}
