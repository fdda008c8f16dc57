package ddindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertDedup(t *testing.T) {
	tb := New()
	i1, existed1, err := tb.Insert("hello")
	require.NoError(t, err)
	assert.False(t, existed1)
	assert.Equal(t, uint32(0), i1)

	i2, existed2, err := tb.Insert("world")
	require.NoError(t, err)
	assert.False(t, existed2)
	assert.Equal(t, uint32(1), i2)

	i3, existed3, err := tb.Insert("hello")
	require.NoError(t, err)
	assert.True(t, existed3)
	assert.Equal(t, i1, i3)

	assert.Equal(t, 2, tb.Size())
}

func TestTable_At(t *testing.T) {
	tb := New()
	idx, _, err := tb.Insert(42)
	require.NoError(t, err)

	v, ok := tb.At(idx)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = tb.At(DontCare)
	assert.False(t, ok)

	_, ok = tb.At(999)
	assert.False(t, ok)
}

func TestTable_ConcurrentInsert(t *testing.T) {
	tb := New()
	const n = 200
	done := make(chan uint32, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			idx, _, err := tb.Insert(i % 20)
			require.NoError(t, err)
			done <- idx
		}(i)
	}
	seen := make(map[uint32]bool)
	for i := 0; i < n; i++ {
		seen[<-done] = true
	}
	assert.Equal(t, 20, tb.Size())
	assert.LessOrEqual(t, len(seen), 20)
}

func TestTables_EncodeDecodeVector(t *testing.T) {
	ts := NewTables(3)
	vec, err := ts.EncodeVector([]interface{}{true, 0, 0})
	require.NoError(t, err)
	require.Len(t, vec, 3)

	back, err := ts.DecodeVector(vec)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{true, 0, 0}, back)

	vec2, err := ts.EncodeVector([]interface{}{true, 1, 0})
	require.NoError(t, err)
	// position 0 and 2 reuse interned indices; position 1 gets a fresh one.
	assert.Equal(t, vec[0], vec2[0])
	assert.NotEqual(t, vec[1], vec2[1])
}

func TestTables_EncodeVector_WrongArity(t *testing.T) {
	ts := NewTables(2)
	_, err := ts.EncodeVector([]interface{}{1, 2, 3})
	require.Error(t, err)
}

func TestTables_DecodeVector_DontCare(t *testing.T) {
	ts := NewTables(1)
	out, err := ts.DecodeVector([]uint32{DontCare})
	require.NoError(t, err)
	assert.Nil(t, out[0])
}
