package ldd

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubes(k *Kernel, r Ref, arity int) [][]uint32 {
	var out [][]uint32
	k.SatAll(r, arity, func(t []uint32) bool {
		cp := append([]uint32(nil), t...)
		out = append(out, cp)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		for p := range out[i] {
			if out[i][p] != out[j][p] {
				return out[i][p] < out[j][p]
			}
		}
		return false
	})
	return out
}

func TestSingletonMember(t *testing.T) {
	k := NewKernel()
	r := k.Singleton([]uint32{1, 2, 3})
	assert.True(t, k.Member(r, []uint32{1, 2, 3}))
	assert.False(t, k.Member(r, []uint32{1, 2, 4}))
	assert.False(t, k.Member(r, []uint32{1, 2}))
}

func TestUnionIntersectMinus(t *testing.T) {
	k := NewKernel()
	a := k.Singleton([]uint32{0, 0})
	b := k.Singleton([]uint32{0, 1})
	c := k.Singleton([]uint32{1, 0})

	ab := k.Union(a, b)
	assert.Equal(t, [][]uint32{{0, 0}, {0, 1}}, cubes(k, ab, 2))

	abc := k.Union(ab, c)
	assert.Equal(t, [][]uint32{{0, 0}, {0, 1}, {1, 0}}, cubes(k, abc, 2))

	inter := k.Intersect(abc, ab)
	assert.Equal(t, [][]uint32{{0, 0}, {0, 1}}, cubes(k, inter, 2))

	diff := k.Minus(abc, ab)
	assert.Equal(t, [][]uint32{{1, 0}}, cubes(k, diff, 2))

	assert.True(t, k.Includes(ab, abc))
	assert.False(t, k.Includes(abc, ab))
}

func TestUnionIdempotentAndEmpty(t *testing.T) {
	k := NewKernel()
	a := k.Singleton([]uint32{5, 6})
	assert.Equal(t, a, k.Union(a, a))
	assert.Equal(t, a, k.Union(a, Empty))
	assert.Equal(t, a, k.Union(Empty, a))
	assert.Equal(t, Empty, k.Intersect(a, Empty))
	assert.Equal(t, Empty, k.Minus(a, a))
}

func TestProject(t *testing.T) {
	k := NewKernel()
	s := Empty
	s = k.Union(s, k.Singleton([]uint32{0, 0, 9}))
	s = k.Union(s, k.Singleton([]uint32{0, 1, 9}))
	s = k.Union(s, k.Singleton([]uint32{1, 0, 8}))

	onFirstTwo := k.Project(s, []bool{true, true, false})
	assert.Equal(t, [][]uint32{{0, 0}, {0, 1}, {1, 0}}, cubes(k, onFirstTwo, 2))

	onFirstOnly := k.Project(s, []bool{true, false, false})
	assert.Equal(t, [][]uint32{{0}, {1}}, cubes(k, onFirstOnly, 1))
}

func TestSatCountAndNodeCount(t *testing.T) {
	k := NewKernel()
	s := Empty
	s = k.Union(s, k.Singleton([]uint32{0, 0}))
	s = k.Union(s, k.Singleton([]uint32{0, 1}))
	s = k.Union(s, k.Singleton([]uint32{1, 0}))

	assert.Equal(t, int64(3), k.SatCount(s).Int64())
	assert.True(t, k.NodeCount(s) > 0)
	assert.Equal(t, int64(0), k.SatCount(Empty).Int64())
}

func TestSatAllEarlyStop(t *testing.T) {
	k := NewKernel()
	s := Empty
	s = k.Union(s, k.Singleton([]uint32{0, 0}))
	s = k.Union(s, k.Singleton([]uint32{0, 1}))
	s = k.Union(s, k.Singleton([]uint32{1, 0}))

	count := 0
	k.SatAll(s, 2, func(tuple []uint32) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

// TestRelProdReadWrite models a two-parameter process whose group reads
// and writes position 0 (MetaReadWrite) and skips position 1: every group
// tuple in L is (readVal, writeVal) for position 0.
func TestRelProdReadWrite(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaReadWrite, MetaSkip}
	// relation: param0 0 -> 1, param0 1 -> 0 (a toggle), param1 untouched.
	l := Empty
	l = k.Union(l, k.Singleton([]uint32{0, 1}))
	l = k.Union(l, k.Singleton([]uint32{1, 0}))

	x := Empty
	x = k.Union(x, k.Singleton([]uint32{0, 7}))
	x = k.Union(x, k.Singleton([]uint32{1, 8}))

	y := k.RelProd(x, meta, l)
	assert.Equal(t, [][]uint32{{0, 8}, {1, 7}}, cubes(k, y, 2))
}

func TestRelProdWriteOnly(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaSkip, MetaWrite}
	l := Empty
	l = k.Union(l, k.Singleton([]uint32{42}))
	l = k.Union(l, k.Singleton([]uint32{43}))

	x := k.Singleton([]uint32{9, 0})

	y := k.RelProd(x, meta, l)
	assert.Equal(t, [][]uint32{{9, 42}, {9, 43}}, cubes(k, y, 2))
}

func TestRelProdCopyMarker(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaReadWrite}
	l := k.Singleton([]uint32{5, CopyMarker})

	x := k.Singleton([]uint32{5})
	y := k.RelProd(x, meta, l)
	assert.Equal(t, [][]uint32{{5}}, cubes(k, y, 1))

	xNoMatch := k.Singleton([]uint32{6})
	assert.Equal(t, Empty, k.RelProd(xNoMatch, meta, l))
}

func TestRelPrevMatchesRelProdInverse(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaReadWrite, MetaSkip}
	l := Empty
	l = k.Union(l, k.Singleton([]uint32{0, 1}))
	l = k.Union(l, k.Singleton([]uint32{1, 0}))

	universe := Empty
	universe = k.Union(universe, k.Singleton([]uint32{0, 7}))
	universe = k.Union(universe, k.Singleton([]uint32{1, 8}))

	y := k.Singleton([]uint32{1, 7})
	pre := k.RelPrev(y, meta, l, universe)
	assert.Equal(t, [][]uint32{{0, 7}}, cubes(k, pre, 2))
}

func TestUnionCubeCopy(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaReadWrite, MetaSkip}
	l := k.UnionCubeCopy(Empty, meta, []uint32{0, 0}, []uint32{0, 0}, []bool{true, false})
	assert.Equal(t, [][]uint32{{0, CopyMarker}}, cubes(k, l, 2))
}

func TestAlternativeRelProdMatchesRelProd(t *testing.T) {
	k := NewKernel()
	meta := Meta{MetaReadWrite, MetaSkip}
	l := Empty
	l = k.Union(l, k.Singleton([]uint32{0, 1}))
	l = k.Union(l, k.Singleton([]uint32{1, 0}))

	x := Empty
	x = k.Union(x, k.Singleton([]uint32{0, 7}))
	x = k.Union(x, k.Singleton([]uint32{1, 8}))

	want := cubes(k, k.RelProd(x, meta, l), 2)
	got := cubes(k, k.AlternativeRelProd(x, meta, l), 2)
	require.Equal(t, want, got)
}

func TestArity(t *testing.T) {
	m := Meta{MetaSkip, MetaRead, MetaWrite, MetaReadWrite}
	assert.Equal(t, 4, m.Arity())
}
