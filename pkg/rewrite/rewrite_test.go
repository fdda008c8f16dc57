package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleRewriter_Folding(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	sigma.Bind("x", int64(3))

	e := Eq{Var{"x"}, IntLit{3}}
	out, err := r.Rewrite(e, sigma)
	require.NoError(t, err)
	assert.True(t, IsTrue(out))

	e2 := And{BoolLit{true}, Lt{Var{"x"}, IntLit{2}}}
	out2, err := r.Rewrite(e2, sigma)
	require.NoError(t, err)
	assert.True(t, IsFalse(out2))
}

func TestSimpleRewriter_ShortCircuit(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	// y is unbound; And should still short-circuit to false without
	// needing to resolve the right operand.
	e := And{BoolLit{false}, Eq{Var{"y"}, IntLit{0}}}
	out, err := r.Rewrite(e, sigma)
	require.NoError(t, err)
	assert.True(t, IsFalse(out))
}

func TestSimpleRewriter_LeavesUnboundPending(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	e := Eq{Var{"z"}, IntLit{5}}
	out, err := r.Rewrite(e, sigma)
	require.NoError(t, err)
	assert.False(t, IsTrue(out))
	assert.False(t, IsFalse(out))
}

func TestEnumerate_VisitsSatisfyingAssignments(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	elt := Enumerable{
		Vars:       []string{"e"},
		Expression: Lt{Var{"e"}, IntLit{2}},
	}
	domains := Domains{"e": {int64(0), int64(1), int64(2), int64(3)}}

	var seen []int64
	err := Enumerate(r, elt, domains, sigma, func(s *Substitution) bool {
		v, _ := s.Lookup("e")
		seen = append(seen, v.(int64))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, seen)
}

func TestEnumerate_EarlyStop(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	elt := Enumerable{
		Vars:       []string{"e"},
		Expression: BoolLit{true},
	}
	domains := Domains{"e": {int64(0), int64(1), int64(2)}}

	count := 0
	err := Enumerate(r, elt, domains, sigma, func(s *Substitution) bool {
		count++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnumerate_UnderSpecified(t *testing.T) {
	r := NewSimpleRewriter()
	sigma := NewSubstitution()
	elt := Enumerable{
		Vars:       []string{"e"},
		Expression: Eq{Var{"e"}, Var{"unbound"}},
	}
	domains := Domains{"e": {int64(0)}}

	err := Enumerate(r, elt, domains, sigma, func(s *Substitution) bool { return true })
	require.Error(t, err)
	var use *ErrUnderSpecified
	assert.ErrorAs(t, err, &use)
}

func TestSubstitutionCloneIndependence(t *testing.T) {
	s := NewSubstitution()
	s.Bind("a", int64(1))
	clone := s.Clone()
	clone.Bind("a", int64(2))
	v, _ := s.Lookup("a")
	assert.Equal(t, int64(1), v)
}
