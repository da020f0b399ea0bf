// Package gfaerr defines the sentinel error kinds shared across the
// reader, partitioner, chunk store and paged graph.
package gfaerr

import "errors"

var (
	// ErrFileNotFound is returned when a GFA file is missing (a missing
	// sidecar is reported as ErrMissingSidecar).
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformedRecord is returned when an S or L line cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingSidecar is returned when the .index or .db file is absent
	// when opening a chunked graph.
	ErrMissingSidecar = errors.New("missing sidecar artifact")

	// ErrUnknownNode is returned when a lookup key is absent from the graph or db.
	ErrUnknownNode = errors.New("unknown node")

	// ErrCorruption is returned when a node is present in the db but its
	// chunk's records do not contain it, or when a chunk id has no index
	// entry. Edge symmetry between resident nodes is not checked, so no
	// symmetry violation is reported through it.
	ErrCorruption = errors.New("corruption")

	// ErrPartitionerStall is returned when the split loop exceeds its round budget.
	ErrPartitionerStall = errors.New("partitioner stall")
)

// OpError wraps an error with the operation and path that produced it,
// mirroring the treatment of os.PathError in the filesystem packages
// this module's storage layer is grounded on.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

// Op builds an *OpError, the error-construction helper used throughout
// the reader, chunk store and paged graph instead of ad-hoc fmt.Errorf.
func Op(op, path string, err error) *OpError {
	return &OpError{Op: op, Path: path, Err: err}
}
