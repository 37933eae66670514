package checkpoint

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested checkpoint id does not exist.
var ErrNotFound = errors.New("checkpoint not found")

// StorageError wraps a persistence failure with the operation that hit it.
type StorageError struct {
	Op  string // "encode", "put", "get", "list", "delete"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("checkpoint storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CorruptError indicates stored snapshot bytes failed to decode.
type CorruptError struct {
	ID  string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt snapshot %s: %v", e.ID, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the checkpoint id is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt reports whether err means stored bytes failed to decode.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
