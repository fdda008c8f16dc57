package confluence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepresentative_SimpleCycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 (a single terminal SCC containing all three)
	graph := map[StateID][]StateID{
		0: {1},
		1: {2},
		2: {0},
	}
	succ := func(s StateID) []StateID { return graph[s] }

	rep, err := FindRepresentative(0, succ)
	require.NoError(t, err)
	assert.Equal(t, StateID(0), rep)
}

func TestFindRepresentative_ChainToSink(t *testing.T) {
	// 0 -> 1 -> 2 -> 2 (2 self-loops, a singleton terminal SCC)
	graph := map[StateID][]StateID{
		0: {1},
		1: {2},
		2: {2},
	}
	succ := func(s StateID) []StateID { return graph[s] }

	rep, err := FindRepresentative(0, succ)
	require.NoError(t, err)
	assert.Equal(t, StateID(2), rep)
}

func TestFindRepresentative_PicksSmallestInSCC(t *testing.T) {
	graph := map[StateID][]StateID{
		5: {3},
		3: {7},
		7: {5},
	}
	succ := func(s StateID) []StateID { return graph[s] }

	rep, err := FindRepresentative(5, succ)
	require.NoError(t, err)
	assert.Equal(t, StateID(3), rep)
}

func TestFindRepresentative_NoOutgoingEdgesIsSingletonSCC(t *testing.T) {
	succ := func(s StateID) []StateID { return nil }
	rep, err := FindRepresentative(9, succ)
	require.NoError(t, err)
	assert.Equal(t, StateID(9), rep)
}
