package lps

import (
	"testing"

	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params() []ProcessParameter {
	return []ProcessParameter{{Name: "x", Sort: "Int"}, {Name: "y", Sort: "Int"}}
}

func TestComputePattern_IdentityNotWritten(t *testing.T) {
	s := Summand{
		Condition: rewrite.Lt{Left: rewrite.Var{Name: "x"}, Right: rewrite.IntLit{Value: 5}},
		NextState: []rewrite.Term{
			rewrite.Var{Name: "x"},
			rewrite.Plus{Left: rewrite.Var{Name: "y"}, Right: rewrite.IntLit{Value: 1}},
		},
	}
	p := ComputePattern(params(), s)
	assert.Equal(t, []bool{true, true}, p.Read)
	assert.Equal(t, []bool{false, true}, p.Write)
}

func TestPatternUnionAndEqual(t *testing.T) {
	a := Pattern{Read: []bool{true, false}, Write: []bool{false, false}}
	b := Pattern{Read: []bool{false, true}, Write: []bool{false, true}}
	u := a.Union(b)
	assert.Equal(t, []bool{true, true}, u.Read)
	assert.Equal(t, []bool{false, true}, u.Write)
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestBuildEquationIndex_RankFlips(t *testing.T) {
	p := &PBES{
		Equations: []Equation{
			{Name: "X", Symbol: Nu, Op: Disjunctive},
			{Name: "Y", Symbol: Nu, Op: Disjunctive},
			{Name: "Z", Symbol: Mu, Op: Conjunctive},
		},
	}
	idx, err := BuildEquationIndex(p)
	require.NoError(t, err)

	xi, _ := idx.Lookup("X")
	yi, _ := idx.Lookup("Y")
	zi, _ := idx.Lookup("Z")
	assert.Equal(t, 0, xi.Rank)
	assert.Equal(t, 0, yi.Rank)
	assert.Equal(t, 1, zi.Rank)
	assert.Equal(t, 1, idx.MaxRank())
}

func TestBuildEquationIndex_EmptyIsError(t *testing.T) {
	_, err := BuildEquationIndex(&PBES{})
	require.Error(t, err)
}

func TestMakeTotalAddsSinks(t *testing.T) {
	p := &PBES{Equations: []Equation{{Name: "X", Symbol: Nu, Op: Disjunctive}}}
	out := MakeTotal(p)
	assert.Len(t, out.Equations, 3)
}
