package amrgrid

import "fmt"

// The four error kinds a grid call can fail with. Every failure is fatal to
// the current call: there are no retries and no partial-success returns. A
// call either fully populates (or writes) every block or reports exactly one
// error identifying the first offending block in traversal order.

// IntegrityError reports a not-a-number value found in a just-read block
// dataset. It names the dataset sub-path and the logical block.
type IntegrityError struct {
	Path  string
	Level int
	Fab   int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("amrgrid: NaN in dataset %q (level %d, fab %d)", e.Path, e.Level, e.Fab)
}

// ContainerReadError reports a dataset that is missing, unreadable, or does
// not match what the traversal expects (rank, element count, component count
// or element type).
type ContainerReadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ContainerReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("amrgrid: read %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("amrgrid: read %q: %s", e.Path, e.Reason)
}

func (e *ContainerReadError) Unwrap() error { return e.Err }

// ContainerWriteError reports a group or dataset that could not be created
// or written, e.g. a read-only container or a fab without extents.
type ContainerWriteError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ContainerWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("amrgrid: write %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("amrgrid: write %q: %s", e.Path, e.Reason)
}

func (e *ContainerWriteError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a caller-supplied flat array whose length does
// not match the geometry's total cell count. It is raised at call entry,
// before any container I/O is attempted.
type ShapeMismatchError struct {
	Got  int
	Want int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("amrgrid: flat array has %d elements, geometry requires %d", e.Got, e.Want)
}
