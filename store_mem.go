package amrgrid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by container backends when no object exists at the
// requested path.
var ErrNotFound = errors.New("amrgrid: object not found")

// ErrReadOnly is returned by container backends that were opened without
// write access.
var ErrReadOnly = errors.New("amrgrid: container is read-only")

// MemStore is an in-memory Container. It backs tests and examples and is
// useful as a staging area before copying a grid into a file-backed store.
// Data is copied on both write and read, so callers can never alias the
// stored arrays.
type MemStore struct {
	mu       sync.Mutex
	readOnly bool
	groups   map[string]bool
	datasets map[string]memDataset
}

type memDataset struct {
	dims []uint64
	data any
}

// MemOption configures a MemStore.
type MemOption func(*MemStore)

// WithReadOnly makes every CreateGroup and WriteArray call fail with
// ErrReadOnly. Reads are unaffected.
func WithReadOnly() MemOption {
	return func(s *MemStore) {
		s.readOnly = true
	}
}

// NewMemStore returns an empty in-memory container.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		groups:   make(map[string]bool),
		datasets: make(map[string]memDataset),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PathExists reports whether a group or dataset exists at path.
func (s *MemStore) PathExists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups[path] {
		return true
	}
	_, ok := s.datasets[path]
	return ok
}

// ReadArray returns a copy of the dataset stored at path along with its
// extents.
func (s *MemStore) ReadArray(path string) (any, []uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[path]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	dims := make([]uint64, len(ds.dims))
	copy(dims, ds.dims)
	return copyArray(ds.data), dims, nil
}

// CreateGroup registers the group at path and every missing intermediate
// group. Re-creating an existing group is a no-op.
func (s *MemStore) CreateGroup(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	if _, ok := s.datasets[path]; ok {
		return fmt.Errorf("amrgrid: %q already exists as a dataset", path)
	}
	segs := strings.Split(path, "/")
	for i := range segs {
		s.groups[strings.Join(segs[:i+1], "/")] = true
	}
	return nil
}

// WriteArray stores a copy of data at path, overwriting any existing
// dataset there. The parent group must already exist, the element count
// must match the product of dims, and the element type must be one of the
// four supported kinds.
func (s *MemStore) WriteArray(path string, dims []uint64, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	if s.groups[path] {
		return fmt.Errorf("amrgrid: %q already exists as a group", path)
	}
	if i := strings.LastIndex(path, "/"); i > 0 {
		if !s.groups[path[:i]] {
			return fmt.Errorf("amrgrid: parent group of %q does not exist", path)
		}
	}
	n := arrayLen(data)
	if n < 0 {
		return fmt.Errorf("amrgrid: unsupported element type %T", data)
	}
	want := uint64(1)
	for _, d := range dims {
		want *= d
	}
	if uint64(n) != want {
		return fmt.Errorf("amrgrid: %d elements do not fill extents %v", n, dims)
	}
	stored := make([]uint64, len(dims))
	copy(stored, dims)
	s.datasets[path] = memDataset{dims: stored, data: copyArray(data)}
	return nil
}

// Paths returns every group and dataset path in the store, sorted. Intended
// for tests and tooling.
func (s *MemStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.groups)+len(s.datasets))
	for p := range s.groups {
		paths = append(paths, p)
	}
	for p := range s.datasets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func copyArray(data any) any {
	switch v := data.(type) {
	case []float32:
		out := make([]float32, len(v))
		copy(out, v)
		return out
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out
	case []int32:
		out := make([]int32, len(v))
		copy(out, v)
		return out
	case []int64:
		out := make([]int64, len(v))
		copy(out, v)
		return out
	default:
		return nil
	}
}

func arrayLen(data any) int {
	switch v := data.(type) {
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	default:
		return -1
	}
}
