package groups

import (
	"math/rand"
	"testing"

	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoParamSummands() ([]lps.ProcessParameter, []lps.Summand) {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}, {Name: "y", Sort: "Int"}}
	summands := []lps.Summand{
		{
			Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 10}},
			NextState: []rewrite.Term{
				rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}},
				rewrite.Var{Name: "y"},
			},
		},
		{
			Condition: rewrite.Lt{Left: rewrite.Var{Name: "y"}, Right: rewrite.IntLit{Value: 10}},
			NextState: []rewrite.Term{
				rewrite.Var{Name: "x"},
				rewrite.Plus{Left: rewrite.Var{Name: "y"}, Right: rewrite.IntLit{Value: 1}},
			},
		},
	}
	return params, summands
}

func TestCompute_PolicyNoneOneGroupPerSummand(t *testing.T) {
	params, summands := twoParamSummands()
	gs, err := Compute(params, summands, PolicyNone, false, false, "")
	require.NoError(t, err)
	assert.Len(t, gs, 2)
	assert.Equal(t, []int{0}, gs[0].Write)
	assert.Equal(t, []int{1}, gs[1].Write)
}

func TestCompute_PolicySimpleMergesEqualPatterns(t *testing.T) {
	params, summands := twoParamSummands()
	summands = append(summands, lps.Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 5}},
		NextState: []rewrite.Term{
			rewrite.Plus{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 2}},
			rewrite.Var{Name: "y"},
		},
	})
	gs, err := Compute(params, summands, PolicySimple, false, false, "")
	require.NoError(t, err)
	assert.Len(t, gs, 2)
}

func TestCompute_ExplicitPartition(t *testing.T) {
	params, summands := twoParamSummands()
	gs, err := Compute(params, summands, PolicyExplicit, false, false, "0 1")
	require.NoError(t, err)
	require.Len(t, gs, 1)
	assert.Equal(t, []int{0, 1}, gs[0].Write)
}

func TestCompute_ExplicitIncompletePartitionErrors(t *testing.T) {
	params, summands := twoParamSummands()
	_, err := Compute(params, summands, PolicyExplicit, false, false, "0")
	require.Error(t, err)
}

func TestBuildGroup_MetaAndPositions(t *testing.T) {
	params, summands := twoParamSummands()
	p := lps.ComputePattern(params, summands[0])
	g := BuildGroup(params, []lps.Summand{summands[0]}, p)
	assert.Equal(t, ldd.Meta{ldd.MetaReadWrite, ldd.MetaSkip}, g.Meta)
	assert.Equal(t, []int{0}, g.ReadPos)
	assert.Equal(t, []int{1}, g.WritePos)
	assert.Equal(t, []bool{false}, g.Copy)
}

func TestBuildGroup_CopyPosition(t *testing.T) {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}, {Name: "y", Sort: "Int"}}
	s := lps.Summand{
		Condition: rewrite.BoolLit{Value: true},
		NextState: []rewrite.Term{rewrite.Var{Name: "x"}, rewrite.Plus{Left: rewrite.Var{Name: "y"}, Right: rewrite.IntLit{Value: 1}}},
	}
	// force y into Write via widen so the union pattern includes it while
	// x stays read-only; here we directly build a pattern with x read+write
	// identity (copy) by hand instead, since ComputePattern never marks an
	// identity position as written.
	pattern := lps.Pattern{Read: []bool{true, true}, Write: []bool{true, true}}
	g := BuildGroup(params, []lps.Summand{s}, pattern)
	assert.True(t, g.Copy[0]) // x: identity next-state -> copy
	assert.False(t, g.Copy[1])
}

func TestComputePermutation_UserMustFixFirst(t *testing.T) {
	_, err := ComputePermutation(ReorderUser, 3, []int{1, 0, 2}, true, rand.New(rand.NewSource(1)))
	require.Error(t, err)

	perm, err := ComputePermutation(ReorderUser, 3, []int{0, 2, 1}, true, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, perm)
}

func TestComputePermutation_RandomFixesFirstWhenRequested(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	perm, err := ComputePermutation(ReorderRandom, 4, nil, true, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, perm[0])
	assert.Len(t, perm, 4)
}

func TestOnePointRuleRewrite(t *testing.T) {
	s := lps.Summand{
		SumVars:   []lps.ProcessParameter{{Name: "e", Sort: "Int"}},
		Condition: rewrite.And{Left: rewrite.Eq{Left: rewrite.Var{Name: "e"}, Right: rewrite.IntLit{Value: 3}}, Right: rewrite.BoolLit{Value: true}},
		NextState: []rewrite.Term{rewrite.Var{Name: "e"}},
	}
	out := OnePointRuleRewrite(s)
	assert.Empty(t, out.SumVars)
	assert.Equal(t, "3", out.NextState[0].String())
}

func TestResolveNameClashes(t *testing.T) {
	params := []lps.ProcessParameter{{Name: "x", Sort: "Int"}}
	s := lps.Summand{
		SumVars:   []lps.ProcessParameter{{Name: "x", Sort: "Int"}},
		Condition: rewrite.Eq{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 1}},
	}
	out := ResolveNameClashes(params, s)
	require.Len(t, out.SumVars, 1)
	assert.Equal(t, "x_1", out.SumVars[0].Name)
	assert.Equal(t, "(x_1 == 1)", out.Condition.String())
}
