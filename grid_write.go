package amrgrid

import "fmt"

// WriteGrid3 gathers the flat array in into per-block datasets and writes
// them out under "Level {l}/Fab {f}/{name}", creating the level and fab
// groups if absent. in must have exactly geo.TotalCells() elements (checked
// before any I/O) and is never mutated. Every fab must carry spatial extents
// whose product equals its cell count; the dataset is created with shape
// [nx, ny, nz] and the element type T, with no widening or narrowing.
//
// Writing is idempotent at the byte level: identical inputs always produce
// identical stored datasets. Whether a second write to the same path
// replaces the first is the backend's policy (MemStore replaces in place;
// the HDF5 Store rejects it). Any failure to create a group or dataset, a
// read-only container included, surfaces as a ContainerWriteError naming
// the sub-path.
func WriteGrid3[T Element](c Container, name string, in []T, geo *Geometry) error {
	if len(in) != geo.TotalCells() {
		return &ShapeMismatchError{Got: len(in), Want: geo.TotalCells()}
	}
	for li, lvl := range geo.Levels {
		for fi, fab := range lvl.Fabs {
			path := blockPath(li+1, fi+1, name)
			dims, err := fabDims(fab, path, 0)
			if err != nil {
				return err
			}
			if err := ensureFabGroups(c, li+1, fi+1); err != nil {
				return err
			}
			seg := in[fab.Offset : fab.Offset+fab.Cells]
			if err := c.WriteArray(path, dims, seg); err != nil {
				return &ContainerWriteError{Path: path, Reason: "dataset write failed", Err: err}
			}
		}
	}
	return nil
}

// WriteGrid4 is the 4D counterpart of WriteGrid3. in is row-major
// [cell][component] with geo.TotalCells()*ncomp elements; each block dataset
// is created with shape [nx, ny, nz, ncomp], components fastest-varying,
// which is the inverse of the ReadGrid4 linearization.
func WriteGrid4[T Element](c Container, name string, in []T, ncomp int, geo *Geometry) error {
	if ncomp < 1 {
		return fmt.Errorf("amrgrid: ncomp must be >= 1, got %d", ncomp)
	}
	if len(in) != geo.TotalCells()*ncomp {
		return &ShapeMismatchError{Got: len(in), Want: geo.TotalCells() * ncomp}
	}
	for li, lvl := range geo.Levels {
		for fi, fab := range lvl.Fabs {
			path := blockPath(li+1, fi+1, name)
			dims, err := fabDims(fab, path, ncomp)
			if err != nil {
				return err
			}
			if err := ensureFabGroups(c, li+1, fi+1); err != nil {
				return err
			}
			seg := in[fab.Offset*ncomp : (fab.Offset+fab.Cells)*ncomp]
			if err := c.WriteArray(path, dims, seg); err != nil {
				return &ContainerWriteError{Path: path, Reason: "dataset write failed", Err: err}
			}
		}
	}
	return nil
}

// fabDims builds the dataset extents for one fab. ncomp == 0 means a 3D
// dataset. The extents are validated before any group or dataset is created
// for the fab, so a malformed fab leaves no partial structure behind.
func fabDims(fab Fab, path string, ncomp int) ([]uint64, error) {
	if !fab.HasExtent() {
		return nil, &ContainerWriteError{Path: path, Reason: "fab has no spatial extents"}
	}
	if n := fab.Extent[0] * fab.Extent[1] * fab.Extent[2]; n != fab.Cells {
		return nil, &ContainerWriteError{
			Path:   path,
			Reason: fmt.Sprintf("extent %v yields %d cells, fab holds %d", fab.Extent, n, fab.Cells),
		}
	}
	dims := []uint64{uint64(fab.Extent[0]), uint64(fab.Extent[1]), uint64(fab.Extent[2])}
	if ncomp > 0 {
		dims = append(dims, uint64(ncomp))
	}
	return dims, nil
}

func ensureFabGroups(c Container, level, fab int) error {
	lp := levelPath(level)
	if err := c.CreateGroup(lp); err != nil {
		return &ContainerWriteError{Path: lp, Reason: "group creation failed", Err: err}
	}
	fp := lp + "/" + fabName(fab)
	if err := c.CreateGroup(fp); err != nil {
		return &ContainerWriteError{Path: fp, Reason: "group creation failed", Err: err}
	}
	return nil
}
