package amrgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedGrid3 stores per-fab 3D datasets carved from a flat source array,
// bypassing WriteGrid3 so the read tests stand on their own.
func seedGrid3(t *testing.T, s *MemStore, geo *Geometry, name string, src []float64) {
	t.Helper()
	for li, lvl := range geo.Levels {
		for fi, fab := range lvl.Fabs {
			dims := []uint64{uint64(fab.Extent[0]), uint64(fab.Extent[1]), uint64(fab.Extent[2])}
			seg := src[fab.Offset : fab.Offset+fab.Cells]
			seedBlock(t, s, li+1, fi+1, name, dims, seg)
		}
	}
}

func distinctValues(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100.0 + float64(i)*0.25
	}
	return out
}

func TestReadGrid3_ScattersAllBlocks(t *testing.T) {
	geo := twoLevelGeometry()
	src := distinctValues(geo.TotalCells())

	s := NewMemStore()
	seedGrid3(t, s, geo, "density", src)

	out := make([]float64, geo.TotalCells())
	require.NoError(t, ReadGrid3(s, "density", out, geo))
	assert.Equal(t, src, out, "every cell written exactly once with its source value")
}

func TestReadGrid3_ShapeMismatchBeforeIO(t *testing.T) {
	geo := tripleFabGeometry()
	s := NewMemStore() // Deliberately empty: a too-short array must fail first.

	out := make([]float64, geo.TotalCells()-1)
	err := ReadGrid3(s, "density", out, geo)

	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, geo.TotalCells()-1, shapeErr.Got)
	assert.Equal(t, geo.TotalCells(), shapeErr.Want)
}

func TestReadGrid3_NaNAbortsAndNamesBlock(t *testing.T) {
	geo := tripleFabGeometry()
	src := distinctValues(geo.TotalCells())

	s := NewMemStore()
	seedGrid3(t, s, geo, "density", src)

	// Poison one element of the second fab.
	poisoned := make([]float64, 27)
	copy(poisoned, src[8:35])
	poisoned[13] = math.NaN()
	require.NoError(t, s.WriteArray("Level 1/Fab 2/density", []uint64{3, 3, 3}, poisoned))

	out := make([]float64, geo.TotalCells())
	err := ReadGrid3(s, "density", out, geo)

	var intErr *IntegrityError
	require.ErrorAs(t, err, &intErr)
	assert.Equal(t, 1, intErr.Level)
	assert.Equal(t, 2, intErr.Fab)
	assert.Equal(t, "Level 1/Fab 2/density", intErr.Path)

	// The fab before the failure was scattered; the fab after it was not.
	assert.Equal(t, src[:8], out[:8])
	assert.Equal(t, make([]float64, 64), out[35:])
}

func TestReadGrid3_MissingDataset(t *testing.T) {
	geo := tripleFabGeometry()
	src := distinctValues(geo.TotalCells())

	s := NewMemStore()
	seedGrid3(t, s, geo, "density", src)

	out := make([]float64, geo.TotalCells())
	err := ReadGrid3(s, "pressure", out, geo)

	var readErr *ContainerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "Level 1/Fab 1/pressure", readErr.Path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadGrid3_RankMismatch(t *testing.T) {
	geo := &Geometry{Levels: []Level{{Fabs: []Fab{{Offset: 0, Cells: 8}}}}}

	s := NewMemStore()
	require.NoError(t, s.CreateGroup("Level 1/Fab 1"))
	require.NoError(t, s.WriteArray("Level 1/Fab 1/density", []uint64{8}, make([]float64, 8)))

	out := make([]float64, 8)
	err := ReadGrid3(s, "density", out, geo)

	var readErr *ContainerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Reason, "rank 1")
}

func TestReadGrid3_ElementTypeMismatch(t *testing.T) {
	geo := &Geometry{Levels: []Level{{Fabs: []Fab{{Offset: 0, Cells: 8}}}}}

	s := NewMemStore()
	seedBlock(t, s, 1, 1, "density", []uint64{2, 2, 2}, make([]float32, 8))

	out := make([]float64, 8)
	err := ReadGrid3(s, "density", out, geo)

	var readErr *ContainerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Reason, "element type")
}

func TestReadGrid3_CellCountMismatch(t *testing.T) {
	geo := &Geometry{Levels: []Level{{Fabs: []Fab{{Offset: 0, Cells: 27}}}}}

	s := NewMemStore()
	seedBlock(t, s, 1, 1, "density", []uint64{2, 2, 2}, make([]float64, 8))

	out := make([]float64, 27)
	err := ReadGrid3(s, "density", out, geo)

	var readErr *ContainerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Reason, "8 elements")
}

func TestReadGrid3_IntegerTypesPassFiniteCheck(t *testing.T) {
	geo := &Geometry{Levels: []Level{{Fabs: []Fab{{Offset: 0, Cells: 8, Extent: [3]int{2, 2, 2}}}}}}

	src := []int32{1, 2, 3, 4, 5, 6, 7, 8}
	s := NewMemStore()
	seedBlock(t, s, 1, 1, "flags", []uint64{2, 2, 2}, src)

	out := make([]int32, 8)
	require.NoError(t, ReadGrid3(s, "flags", out, geo))
	assert.Equal(t, src, out)
}

func TestReadGrid4_ScattersComponents(t *testing.T) {
	geo := &Geometry{
		Levels: []Level{
			{Fabs: []Fab{
				{Offset: 0, Cells: 8, Extent: [3]int{2, 2, 2}},
				{Offset: 8, Cells: 6, Extent: [3]int{1, 2, 3}},
			}},
		},
	}
	const ncomp = 3
	src := distinctValues(geo.TotalCells() * ncomp)

	s := NewMemStore()
	seedBlock(t, s, 1, 1, "velocity", []uint64{2, 2, 2, ncomp}, src[:8*ncomp])
	seedBlock(t, s, 1, 2, "velocity", []uint64{1, 2, 3, ncomp}, src[8*ncomp:])

	out := make([]float64, geo.TotalCells()*ncomp)
	require.NoError(t, ReadGrid4(s, "velocity", out, ncomp, geo))
	assert.Equal(t, src, out)
}

func TestReadGrid4_ComponentCountMismatch(t *testing.T) {
	geo := &Geometry{Levels: []Level{{Fabs: []Fab{{Offset: 0, Cells: 8}}}}}

	s := NewMemStore()
	seedBlock(t, s, 1, 1, "velocity", []uint64{2, 2, 2, 2}, make([]float64, 16))

	out := make([]float64, 8*3)
	err := ReadGrid4(s, "velocity", out, 3, geo)

	var readErr *ContainerReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, readErr.Reason, "components")
}

func TestReadGrid4_ShapeMismatch(t *testing.T) {
	geo := tripleFabGeometry()
	s := NewMemStore()

	out := make([]float64, geo.TotalCells()) // Missing the component factor.
	err := ReadGrid4(s, "velocity", out, 3, geo)

	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, geo.TotalCells()*3, shapeErr.Want)
}

func TestReadGrid4_RejectsNonPositiveComponents(t *testing.T) {
	geo := tripleFabGeometry()
	s := NewMemStore()

	err := ReadGrid4(s, "velocity", []float64{}, 0, geo)
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*ShapeMismatchError)))
}
