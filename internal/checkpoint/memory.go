package checkpoint

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rowanvale/inkwell/internal/snapshot"
)

// MemoryBackend keeps checkpoints in process memory. Used by tests and for
// ephemeral sessions where durability is not wanted.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

// Put stores a record. Duplicate ids are ignored, matching the SQLite
// backend's ON CONFLICT DO NOTHING behavior.
func (b *MemoryBackend) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.records[rec.ID]; exists {
		return nil
	}
	stored := rec
	stored.Payload = append([]byte(nil), rec.Payload...)
	b.records[rec.ID] = stored
	return nil
}

// Get retrieves a record by id. Returns ErrNotFound if absent.
func (b *MemoryBackend) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.records[id]
	if !ok {
		return Record{}, fmt.Errorf("get checkpoint %s: %w", id, ErrNotFound)
	}
	out := rec
	out.Payload = append([]byte(nil), rec.Payload...)
	return out, nil
}

// List returns listing entries newest first, ties broken by ascending id.
func (b *MemoryBackend) List(ctx context.Context) ([]snapshot.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries := make([]snapshot.Entry, 0, len(b.records))
	for _, rec := range b.records {
		entries = append(entries, rec.Entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Delete removes a record by id. Deleting an absent id is a no-op.
func (b *MemoryBackend) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, id)
	return nil
}
