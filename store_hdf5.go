package amrgrid

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// Store is an HDF5-backed Container. Grid paths like "Level 2/Fab 14/density"
// map directly onto the file's group hierarchy. A Store opened read-only
// serves probes and reads; a created or read-write Store additionally
// serves the gather-write path.
//
// The backend creates datasets immutably: writing a dataset at a path that
// already holds one fails rather than overwriting in place. Rewriting a grid
// means rewriting the file; two writes of the same arrays produce files with
// identical dataset bytes.
type Store struct {
	file *hdf5.File
	// Group handles resolved or created during this session, keyed by
	// container-relative path. Avoids re-walking the file tree once per fab.
	groups map[string]*hdf5.Group
}

// OpenStore opens an existing HDF5 grid file for reading.
func OpenStore(path string) (*Store, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("amrgrid: open store: %w", err)
	}
	return newStore(f), nil
}

// CreateStore creates a new HDF5 grid file, truncating any existing file at
// path, and returns a writable Store.
func CreateStore(path string) (*Store, error) {
	f, err := hdf5.Create(path)
	if err != nil {
		return nil, fmt.Errorf("amrgrid: create store: %w", err)
	}
	return newStore(f), nil
}

// OpenStoreReadWrite opens an existing HDF5 grid file for reading and
// writing, so further quantities can be added to an already-written grid.
func OpenStoreReadWrite(path string) (*Store, error) {
	f, err := hdf5.OpenReadWrite(path)
	if err != nil {
		return nil, fmt.Errorf("amrgrid: open store read-write: %w", err)
	}
	return newStore(f), nil
}

func newStore(f *hdf5.File) *Store {
	return &Store{
		file:   f,
		groups: make(map[string]*hdf5.Group),
	}
}

// Close flushes pending writes and closes the underlying file.
func (s *Store) Close() error {
	return s.file.Close()
}

// File exposes the underlying HDF5 file handle for callers that need to
// attach attributes or inspect objects beyond the Container contract.
func (s *Store) File() *hdf5.File {
	return s.file
}

// PathExists reports whether a group or dataset exists at path.
func (s *Store) PathExists(path string) bool {
	if _, ok := s.groups[path]; ok {
		return true
	}
	if _, err := s.file.Root().OpenGroup(path); err == nil {
		return true
	}
	if _, err := s.file.Root().OpenDataset(path); err == nil {
		return true
	}
	return false
}

// ReadArray reads the full dataset at path. Rank and extents come from the
// dataset's dataspace and the element type from its datatype; data is
// returned flattened in row-major element order, which is how HDF5 stores
// it.
func (s *Store) ReadArray(path string) (any, []uint64, error) {
	ds, err := s.file.Root().OpenDataset(path)
	if err != nil {
		return nil, nil, fmt.Errorf("amrgrid: open dataset %q: %w", path, err)
	}
	dims := ds.Shape()

	goType, err := ds.GoType()
	if err != nil {
		return nil, nil, fmt.Errorf("amrgrid: dataset %q datatype: %w", path, err)
	}

	var data any
	switch goType.Kind() {
	case reflect.Float32:
		data, err = ds.ReadFloat32()
	case reflect.Float64:
		data, err = ds.ReadFloat64()
	case reflect.Int32:
		data, err = ds.ReadInt32()
	case reflect.Int64:
		data, err = ds.ReadInt64()
	default:
		return nil, nil, fmt.Errorf("amrgrid: dataset %q has unsupported element type %s", path, goType)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("amrgrid: read dataset %q: %w", path, err)
	}
	return data, dims, nil
}

// CreateGroup creates the group at path, creating missing intermediate
// groups. Existing groups are reused.
func (s *Store) CreateGroup(path string) error {
	_, err := s.groupAt(path, true)
	return err
}

// WriteArray creates the dataset at path with the given extents and element
// type. The parent group must already exist. Writing over an existing
// dataset is rejected (see the Store doc comment).
func (s *Store) WriteArray(path string, dims []uint64, data any) error {
	parentPath, name := splitObjectPath(path)
	var parent *hdf5.Group
	if parentPath == "" {
		parent = s.file.Root()
	} else {
		g, err := s.groupAt(parentPath, false)
		if err != nil {
			return err
		}
		parent = g
	}

	if _, err := parent.OpenDataset(name); err == nil {
		return fmt.Errorf("amrgrid: dataset %q already exists; the HDF5 backend cannot overwrite in place", path)
	}

	payload, err := nestPayload(data, dims)
	if err != nil {
		return fmt.Errorf("amrgrid: dataset %q: %w", path, err)
	}
	if _, err := parent.CreateDataset(name, payload); err != nil {
		return fmt.Errorf("amrgrid: create dataset %q: %w", path, err)
	}
	return nil
}

// groupAt resolves a container-relative group path, optionally creating
// missing segments. Resolved handles are cached for the session.
func (s *Store) groupAt(path string, create bool) (*hdf5.Group, error) {
	if g, ok := s.groups[path]; ok {
		return g, nil
	}

	parent := s.file.Root()
	seg := path
	if i := strings.LastIndex(path, "/"); i > 0 {
		p, err := s.groupAt(path[:i], create)
		if err != nil {
			return nil, err
		}
		parent = p
		seg = path[i+1:]
	}

	if g, err := parent.OpenGroup(seg); err == nil {
		s.groups[path] = g
		return g, nil
	}
	if !create {
		return nil, fmt.Errorf("amrgrid: group %q: %w", path, ErrNotFound)
	}
	g, err := parent.CreateGroup(seg)
	if err != nil {
		return nil, fmt.Errorf("amrgrid: create group %q: %w", path, err)
	}
	s.groups[path] = g
	return g, nil
}

func splitObjectPath(path string) (parent, name string) {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

// nestPayload reshapes a flat row-major array into the nested slices the
// backend's CreateDataset infers dimensions from. Inner slices alias the
// flat array; nothing is copied.
func nestPayload(data any, dims []uint64) (any, error) {
	switch v := data.(type) {
	case []float32:
		return nestTyped(v, dims)
	case []float64:
		return nestTyped(v, dims)
	case []int32:
		return nestTyped(v, dims)
	case []int64:
		return nestTyped(v, dims)
	default:
		return nil, fmt.Errorf("unsupported element type %T", data)
	}
}

func nestTyped[T Element](flat []T, dims []uint64) (any, error) {
	want := uint64(1)
	for _, d := range dims {
		want *= d
	}
	if uint64(len(flat)) != want {
		return nil, fmt.Errorf("%d elements do not fill extents %v", len(flat), dims)
	}
	switch len(dims) {
	case 3:
		return nest3(flat, int(dims[0]), int(dims[1]), int(dims[2])), nil
	case 4:
		return nest4(flat, int(dims[0]), int(dims[1]), int(dims[2]), int(dims[3])), nil
	default:
		return nil, fmt.Errorf("unsupported rank %d", len(dims))
	}
}

func nest3[T Element](flat []T, nx, ny, nz int) [][][]T {
	out := make([][][]T, nx)
	for x := 0; x < nx; x++ {
		plane := make([][]T, ny)
		for y := 0; y < ny; y++ {
			off := (x*ny + y) * nz
			plane[y] = flat[off : off+nz]
		}
		out[x] = plane
	}
	return out
}

func nest4[T Element](flat []T, nx, ny, nz, nc int) [][][][]T {
	out := make([][][][]T, nx)
	for x := 0; x < nx; x++ {
		cube := make([][][]T, ny)
		for y := 0; y < ny; y++ {
			rows := make([][]T, nz)
			for z := 0; z < nz; z++ {
				off := ((x*ny+y)*nz + z) * nc
				rows[z] = flat[off : off+nc]
			}
			cube[y] = rows
		}
		out[x] = cube
	}
	return out
}
