package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/restore"
	"github.com/rowanvale/inkwell/internal/snapshot"
)

// ErrBusy indicates another checkpoint or restore against the same live
// project is already in flight. The request was rejected before touching
// anything; retry once the current operation finishes.
var ErrBusy = errors.New("another checkpoint or restore is in progress")

// Manager owns one live project and serializes every checkpoint and restore
// against it.
type Manager struct {
	mu     sync.Mutex // the single-writer gate; TryLock, never block
	live   *project.Project
	store  *checkpoint.Store
	engine *restore.Engine
}

// New creates a Manager owning live, storing checkpoints through store.
func New(live *project.Project, store *checkpoint.Store) *Manager {
	return &Manager{
		live:   live,
		store:  store,
		engine: restore.New(store),
	}
}

// Project returns the owned live project. Mutating it while a checkpoint or
// restore is in flight is the caller's race to lose; the editing surface is
// expected to share this manager's turn.
func (m *Manager) Project() *project.Project {
	return m.live
}

// Checkpoint captures the live project into a new checkpoint and returns its
// id. Fails with ErrBusy if another operation holds the gate.
func (m *Manager) Checkpoint(ctx context.Context, label string) (string, error) {
	if !m.mu.TryLock() {
		return "", ErrBusy
	}
	defer m.mu.Unlock()

	id, err := m.store.Create(ctx, m.live, label)
	if err != nil {
		return "", err
	}
	slog.Debug("checkpoint created", "id", id, "label", label)
	return id, nil
}

// Restore merges the named checkpoint into the live project per opts.
// Fails with ErrBusy if another operation holds the gate; any engine or
// storage error leaves the live project untouched.
func (m *Manager) Restore(ctx context.Context, id string, opts restore.Options) (*restore.Report, error) {
	if !m.mu.TryLock() {
		return nil, ErrBusy
	}
	defer m.mu.Unlock()

	report, err := m.engine.Restore(ctx, m.live, id, opts)
	if err != nil {
		return report, err
	}
	t := report.Total()
	slog.Debug("restore applied", "id", id,
		"added", t.Added, "updated", t.Updated, "removed", t.Removed)
	return report, nil
}

// RestoreWithBackup captures a safety checkpoint of the current live state
// and then restores the named checkpoint, all under one gate acquisition so
// nothing can slip in between. The safety checkpoint id is returned even
// when the restore itself fails, so the state before the attempt stays
// recoverable.
func (m *Manager) RestoreWithBackup(ctx context.Context, id string, opts restore.Options) (backupID string, report *restore.Report, err error) {
	if !m.mu.TryLock() {
		return "", nil, ErrBusy
	}
	defer m.mu.Unlock()

	backupID, err = m.store.Create(ctx, m.live, fmt.Sprintf("before restore of %s", id))
	if err != nil {
		return "", nil, fmt.Errorf("safety checkpoint: %w", err)
	}
	slog.Debug("safety checkpoint created", "id", backupID, "restoring", id)

	report, err = m.engine.Restore(ctx, m.live, id, opts)
	return backupID, report, err
}

// List enumerates stored checkpoints, newest first. Read-only, so it does
// not take the gate.
func (m *Manager) List(ctx context.Context) ([]snapshot.Entry, error) {
	return m.store.List(ctx)
}

// Delete removes a stored checkpoint. Storage-only; the live project is not
// involved, so no gate.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// GuardDestructive is the automatic checkpoint trigger: it captures a safety
// checkpoint labeled after op, then runs fn while still holding the gate.
// If the checkpoint cannot be taken, fn never runs.
//
// Returns the safety checkpoint id alongside fn's error.
func (m *Manager) GuardDestructive(ctx context.Context, op string, fn func(context.Context) error) (string, error) {
	if !m.mu.TryLock() {
		return "", ErrBusy
	}
	defer m.mu.Unlock()

	id, err := m.store.Create(ctx, m.live, fmt.Sprintf("before %s", op))
	if err != nil {
		return "", fmt.Errorf("safety checkpoint: %w", err)
	}
	slog.Debug("safety checkpoint created", "id", id, "op", op)
	return id, fn(ctx)
}
