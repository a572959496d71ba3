package amrgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBlock stores a dataset under the given level/fab, creating the groups.
func seedBlock(t *testing.T, s *MemStore, level, fab int, name string, dims []uint64, data any) {
	t.Helper()
	require.NoError(t, s.CreateGroup(levelPath(level)+"/"+fabName(fab)))
	require.NoError(t, s.WriteArray(blockPath(level, fab, name), dims, data))
}

func TestExists_FullPath(t *testing.T) {
	s := NewMemStore()
	seedBlock(t, s, 1, 1, "density", []uint64{2, 2, 2}, make([]float64, 8))
	assert.True(t, Exists(s, "density"))
}

func TestExists_MissingSegments(t *testing.T) {
	s := NewMemStore()
	assert.False(t, Exists(s, "density"), "empty container")

	require.NoError(t, s.CreateGroup("Level 1"))
	assert.False(t, Exists(s, "density"), "no Fab 1 group")

	require.NoError(t, s.CreateGroup("Level 1/Fab 1"))
	assert.False(t, Exists(s, "density"), "no dataset")
}

// The probe only looks at level 1 / fab 1. A dataset missing from every
// other block still probes true; that is the documented contract.
func TestExists_PartialPresenceStillTrue(t *testing.T) {
	s := NewMemStore()
	seedBlock(t, s, 1, 1, "density", []uint64{2, 2, 2}, make([]float64, 8))
	require.NoError(t, s.CreateGroup("Level 1/Fab 2")) // No density here.

	assert.True(t, Exists(s, "density"))
}

func TestExistsEverywhere(t *testing.T) {
	geo := &Geometry{
		Levels: []Level{
			{Fabs: []Fab{
				{Offset: 0, Cells: 8, Extent: [3]int{2, 2, 2}},
				{Offset: 8, Cells: 8, Extent: [3]int{2, 2, 2}},
			}},
		},
	}

	s := NewMemStore()
	seedBlock(t, s, 1, 1, "density", []uint64{2, 2, 2}, make([]float64, 8))
	assert.False(t, ExistsEverywhere(s, "density", geo), "fab 2 has no density")

	seedBlock(t, s, 1, 2, "density", []uint64{2, 2, 2}, make([]float64, 8))
	assert.True(t, ExistsEverywhere(s, "density", geo))

	assert.False(t, ExistsEverywhere(s, "pressure", geo))
}
