package bdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarAndOrNot(t *testing.T) {
	k := NewKernel()
	x, y := k.Var(0), k.Var(1)

	and := k.And(x, y)
	assert.Equal(t, uint64(1), k.SatCount(and, 2))

	or := k.Or(x, y)
	assert.Equal(t, uint64(3), k.SatCount(or, 2))

	not := k.Not(x)
	assert.Equal(t, uint64(2), k.SatCount(not, 2))
}

func TestIteIsIfThenElse(t *testing.T) {
	k := NewKernel()
	x, y, z := k.Var(0), k.Var(1), k.Var(2)
	f := k.Ite(x, y, z)

	// x=1,y=1 -> true regardless of z
	assert.Equal(t, True, k.restrictAssign(f, map[uint32]bool{0: true, 1: true}))
	// x=0 -> follows z
	assert.Equal(t, True, k.restrictAssign(f, map[uint32]bool{0: false, 2: true}))
	assert.Equal(t, False, k.restrictAssign(f, map[uint32]bool{0: false, 2: false}))
}

func (k *Kernel) restrictAssign(f Ref, assign map[uint32]bool) Ref {
	for f != True && f != False {
		n := k.get(f)
		b, ok := assign[n.v]
		if !ok {
			break
		}
		if b {
			f = n.then
		} else {
			f = n.els
		}
	}
	return f
}

func TestExistsEliminatesVariable(t *testing.T) {
	k := NewKernel()
	x, y := k.Var(0), k.Var(1)
	f := k.And(x, y) // only satisfied at x=1,y=1

	exy := k.Exists(f, []uint32{0})
	// after eliminating x, exy should equal y (satisfied whenever y=1)
	assert.Equal(t, y, exy)
}

func TestForallIsDualOfExists(t *testing.T) {
	k := NewKernel()
	x, y := k.Var(0), k.Var(1)
	f := k.Or(x, y)

	all := k.Forall(f, []uint32{0})
	// forall x. (x or y) is true only when y is true regardless of x
	assert.Equal(t, y, all)
}

func TestComposeSubstitutes(t *testing.T) {
	k := NewKernel()
	x, y, z := k.Var(0), k.Var(1), k.Var(2)
	f := k.And(x, y)

	composed := k.Compose(f, map[uint32]Ref{0: z})
	require.Equal(t, k.And(z, y), composed)
}

func TestNodeCountAndSatCount(t *testing.T) {
	k := NewKernel()
	x, y := k.Var(0), k.Var(1)
	f := k.Or(x, y)

	assert.Greater(t, k.NodeCount(f), 0)
	assert.Equal(t, uint64(3), k.SatCount(f, 2))
}
