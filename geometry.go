package amrgrid

import (
	"crypto/md5" //nolint:gosec // Layout fingerprint, not a security boundary.
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Fab describes one rectangular sub-block of an AMR level: where its cells
// live in the global flat array and how many there are.
//
// Offset is the 0-based index of the fab's first cell in the flat array.
// Cells is the fab's cell count. Extent holds the spatial extents
// (nx, ny, nz); the read path ignores it (extents are auto-detected from the
// stored dataset), but the write path requires it to shape the dataset, and
// Validate cross-checks it against Cells when set.
type Fab struct {
	Offset int
	Cells  int
	Extent [3]int
}

// HasExtent reports whether the fab carries spatial extents.
func (f Fab) HasExtent() bool {
	return f.Extent[0] > 0 && f.Extent[1] > 0 && f.Extent[2] > 0
}

// Level is one refinement tier of the hierarchy. Fab order is semantically
// meaningful: fab i is stored under "Fab i+1" on disk.
type Level struct {
	Fabs []Fab
}

// Geometry describes the full AMR hierarchy: an ordered list of levels, each
// with an ordered list of fabs. Level i is stored under "Level i+1" on disk;
// the coarsest level comes first. A Geometry is built by the mesh
// construction stage and treated as read-only by every function in this
// package.
type Geometry struct {
	Levels []Level
}

// TotalCells returns the number of cells covered by all fabs on all levels.
func (g *Geometry) TotalCells() int {
	total := 0
	for _, lvl := range g.Levels {
		for _, fab := range lvl.Fabs {
			total += fab.Cells
		}
	}
	return total
}

// NumFabs returns the number of fabs across all levels.
func (g *Geometry) NumFabs() int {
	n := 0
	for _, lvl := range g.Levels {
		n += len(lvl.Fabs)
	}
	return n
}

// Validate checks that the fabs partition [0, TotalCells) with no gaps or
// overlaps when traversed in (level, fab) order, and that each fab's extents
// (when set) multiply out to its cell count. The read and write entry points
// do not call Validate; an unvalidated geometry with gaps reads silently and
// leaves the uncovered cells untouched. Mesh construction should call this
// once after building the descriptor.
func (g *Geometry) Validate() error {
	next := 0
	for li, lvl := range g.Levels {
		if len(lvl.Fabs) == 0 {
			return fmt.Errorf("level %d has no fabs", li+1)
		}
		for fi, fab := range lvl.Fabs {
			if fab.Cells < 0 {
				return fmt.Errorf("level %d fab %d: negative cell count %d", li+1, fi+1, fab.Cells)
			}
			if fab.Offset != next {
				return fmt.Errorf("level %d fab %d: offset %d, want %d (gap or overlap)",
					li+1, fi+1, fab.Offset, next)
			}
			if fab.HasExtent() {
				if n := fab.Extent[0] * fab.Extent[1] * fab.Extent[2]; n != fab.Cells {
					return fmt.Errorf("level %d fab %d: extent %v yields %d cells, want %d",
						li+1, fi+1, fab.Extent, n, fab.Cells)
				}
			}
			next += fab.Cells
		}
	}
	return nil
}

// Checksum returns a deterministic hex digest of the level/fab layout.
// Writers stamp it next to the data so readers can detect a geometry that
// drifted from the arrays it indexes. Two geometries with identical level,
// offset, cell and extent sequences produce identical checksums.
func (g *Geometry) Checksum() string {
	h := md5.New() //nolint:gosec // Layout fingerprint, not a security boundary.
	buf := make([]byte, 8)
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}
	put(len(g.Levels))
	for _, lvl := range g.Levels {
		put(len(lvl.Fabs))
		for _, fab := range lvl.Fabs {
			put(fab.Offset)
			put(fab.Cells)
			put(fab.Extent[0])
			put(fab.Extent[1])
			put(fab.Extent[2])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
