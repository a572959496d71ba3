// Package amrgrid reads and writes cell-centered quantity arrays for
// Adaptive Mesh Refinement (AMR) grids stored in a hierarchical container.
// The on-disk layout is a forest of groups named "Level 1", "Level 2", ...
// each holding "Fab 1", "Fab 2", ... groups with one dataset per quantity.
// The package moves data between that per-block layout and a single
// contiguous flat array covering every cell of the grid.
package amrgrid

import "strconv"

// Element is the closed set of numeric element types a grid dataset can
// carry. All read and write entry points are monomorphized over this set;
// there is no runtime type dispatch in the per-element loops.
type Element interface {
	float32 | float64 | int32 | int64
}

// Container is the narrow contract the grid traversal depends on. It is
// deliberately small so any hierarchical store (an HDF5 file, an in-memory
// fake) can serve as a backend. Paths are slash-separated and relative to
// the container root, e.g. "Level 2/Fab 14/density".
//
// Implementations shipped with this package: Store (HDF5-backed) and
// MemStore (in-memory).
type Container interface {
	// PathExists reports whether a group or dataset exists at path.
	PathExists(path string) bool

	// ReadArray reads the full dataset at path, auto-detecting its rank,
	// extents and element type from the container's own metadata. The
	// returned data is one of []float32, []float64, []int32 or []int64,
	// flattened in row-major element order, and dims holds the per-axis
	// extents.
	ReadArray(path string) (data any, dims []uint64, err error)

	// CreateGroup creates the group at path, creating missing intermediate
	// groups. Creating a group that already exists is not an error.
	CreateGroup(path string) error

	// WriteArray creates (or overwrites) the dataset at path with the given
	// extents and row-major data. The dataset's element type is the element
	// type of data; no widening or narrowing is performed.
	WriteArray(path string, dims []uint64, data any) error
}

// blockPath composes the canonical sub-path for one fab's dataset.
// Level and fab indices are 1-based on disk with no zero padding:
// "Level 1/Fab 12/density", never "Level 01".
func blockPath(level, fab int, name string) string {
	return levelPath(level) + "/" + fabName(fab) + "/" + name
}

func levelPath(level int) string {
	return "Level " + strconv.Itoa(level)
}

func fabName(fab int) string {
	return "Fab " + strconv.Itoa(fab)
}

// readBlock reads one block dataset and asserts its element type. The type
// switch resolves once per instantiation of T; inside each branch the
// assertion to []T is the identity.
func readBlock[T Element](c Container, path string) ([]T, []uint64, error) {
	data, dims, err := c.ReadArray(path)
	if err != nil {
		return nil, nil, &ContainerReadError{Path: path, Reason: "dataset read failed", Err: err}
	}
	vals, ok := data.([]T)
	if !ok {
		return nil, nil, &ContainerReadError{
			Path:   path,
			Reason: "element type " + typeName(data) + " does not match requested type",
		}
	}
	return vals, dims, nil
}

func typeName(data any) string {
	switch data.(type) {
	case []float32:
		return "float32"
	case []float64:
		return "float64"
	case []int32:
		return "int32"
	case []int64:
		return "int64"
	default:
		return "unsupported"
	}
}
