package amrgrid

import "fmt"

// ReadGrid3 reads the 3D quantity dataset called name from every block of
// the geometry and scatters it into out, which must have exactly
// geo.TotalCells() elements (checked before any I/O). Each block's dataset
// is read with auto-detected extents and element type; its element count
// must equal the fab's cell count.
//
// Linearization contract: block datasets are stored [nx, ny, nz] in
// row-major element order (x slowest, z fastest), and a fab's cells occupy
// the flat array in exactly that order, so the scatter is a contiguous
// segment copy into out[fab.Offset : fab.Offset+fab.Cells].
//
// Any NaN element aborts the whole call with an IntegrityError naming the
// block. Blocks earlier in traversal order keep their scattered values;
// blocks after the failing one are untouched.
func ReadGrid3[T Element](c Container, name string, out []T, geo *Geometry) error {
	if len(out) != geo.TotalCells() {
		return &ShapeMismatchError{Got: len(out), Want: geo.TotalCells()}
	}
	for li, lvl := range geo.Levels {
		for fi, fab := range lvl.Fabs {
			path := blockPath(li+1, fi+1, name)
			vals, dims, err := readBlock[T](c, path)
			if err != nil {
				return err
			}
			if len(dims) != 3 {
				return &ContainerReadError{
					Path:   path,
					Reason: fmt.Sprintf("rank %d, want 3", len(dims)),
				}
			}
			if len(vals) != fab.Cells {
				return &ContainerReadError{
					Path:   path,
					Reason: fmt.Sprintf("%d elements, fab holds %d cells", len(vals), fab.Cells),
				}
			}
			if err := checkFinite(vals, path, li+1, fi+1); err != nil {
				return err
			}
			copy(out[fab.Offset:fab.Offset+fab.Cells], vals)
		}
	}
	return nil
}

// ReadGrid4 reads the 4D quantity dataset called name from every block and
// scatters it into out, a row-major [cell][component] array of
// geo.TotalCells()*ncomp elements. Block datasets are stored
// [nx, ny, nz, ncomp] with components fastest-varying, so as in ReadGrid3
// the scatter is a contiguous copy of the fab's cell rows. ncomp must match
// the component extent of every block dataset; uniformity across blocks is
// the writer's responsibility and only the blocks actually traversed are
// checked.
func ReadGrid4[T Element](c Container, name string, out []T, ncomp int, geo *Geometry) error {
	if ncomp < 1 {
		return fmt.Errorf("amrgrid: ncomp must be >= 1, got %d", ncomp)
	}
	if len(out) != geo.TotalCells()*ncomp {
		return &ShapeMismatchError{Got: len(out), Want: geo.TotalCells() * ncomp}
	}
	for li, lvl := range geo.Levels {
		for fi, fab := range lvl.Fabs {
			path := blockPath(li+1, fi+1, name)
			vals, dims, err := readBlock[T](c, path)
			if err != nil {
				return err
			}
			if len(dims) != 4 {
				return &ContainerReadError{
					Path:   path,
					Reason: fmt.Sprintf("rank %d, want 4", len(dims)),
				}
			}
			if int(dims[3]) != ncomp {
				return &ContainerReadError{
					Path:   path,
					Reason: fmt.Sprintf("%d components, want %d", dims[3], ncomp),
				}
			}
			if len(vals) != fab.Cells*ncomp {
				return &ContainerReadError{
					Path:   path,
					Reason: fmt.Sprintf("%d elements, fab holds %d cells x %d components", len(vals), fab.Cells, ncomp),
				}
			}
			if err := checkFinite(vals, path, li+1, fi+1); err != nil {
				return err
			}
			copy(out[fab.Offset*ncomp:(fab.Offset+fab.Cells)*ncomp], vals)
		}
	}
	return nil
}

// checkFinite rejects NaN elements. The v != v identity is false for every
// integer and every finite or infinite float, and true only for NaN, so the
// same monomorphized loop serves all four element types.
func checkFinite[T Element](vals []T, path string, level, fab int) error {
	for _, v := range vals {
		if v != v {
			return &IntegrityError{Path: path, Level: level, Fab: fab}
		}
	}
	return nil
}
