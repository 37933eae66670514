package checkpoint

import (
	"context"

	"github.com/rowanvale/inkwell/internal/snapshot"
)

// Record is one stored checkpoint: the listing entry plus the opaque
// payload bytes. The payload's physical layout is the codec's business;
// backends treat it as a blob.
type Record struct {
	snapshot.Entry
	Payload []byte
}

// Backend is the byte-store capability the Store is built on. Implementations
// must be safe for concurrent use.
//
// Get returns ErrNotFound (possibly wrapped) for absent ids. Delete of an
// absent id is a no-op, not an error.
type Backend interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]snapshot.Entry, error)
	Delete(ctx context.Context, id string) error
}
