package checkpoint

import (
	"context"
	"sort"
	"time"

	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/snapshot"
)

// Store captures, lists, loads and deletes project snapshots. It is pure
// storage: no merge logic, and it never mutates the live project.
type Store struct {
	backend Backend
	now     func() time.Time
	ids     IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the creation-time source. Tests use this to get
// deterministic listing order.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the checkpoint id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// NewStore creates a Store over the given backend. Defaults: wall clock and
// UUIDv7 ids.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create deep-copies the live project into a fresh snapshot, persists it and
// returns the new checkpoint id. The live project is only read, never
// mutated.
//
// If ctx is cancelled before the persistence write, nothing becomes visible:
// no listing entry, no payload. Persistence failures surface as StorageError.
func (s *Store) Create(ctx context.Context, live project.Accessor, label string) (string, error) {
	snap := snapshot.Capture(live, s.ids.NewID(), s.now(), label)

	payload, err := snapshot.Encode(snap)
	if err != nil {
		return "", &StorageError{Op: "encode", Err: err}
	}

	// Cancellation point: after this check the write is committed or fails
	// as a unit inside the backend.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.backend.Put(ctx, Record{Entry: snap.Entry(), Payload: payload}); err != nil {
		return "", &StorageError{Op: "put", Err: err}
	}
	return snap.ID, nil
}

// List returns listing entries newest first by creation time, ties broken by
// ascending id. Side-effect-free and restartable.
//
// Backends already order their results; the sort here keeps the contract
// independent of backend behavior.
func (s *Store) List(ctx context.Context) ([]snapshot.Entry, error) {
	entries, err := s.backend.List(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Load retrieves and decodes a snapshot. Returns ErrNotFound (wrapped) for
// absent ids and CorruptError when stored bytes fail to decode.
func (s *Store) Load(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	rec, err := s.backend.Get(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, &StorageError{Op: "get", Err: err}
	}

	snap, err := snapshot.Decode(rec.Payload)
	if err != nil {
		return nil, &CorruptError{ID: id, Err: err}
	}
	return snap, nil
}

// Delete removes a checkpoint. Idempotent: deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}
