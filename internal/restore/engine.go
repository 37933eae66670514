package restore

import (
	"context"
	"sort"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/snapshot"
)

// Engine merges loaded snapshots into a live project. It assumes exclusive
// access to the live project for the duration of Restore; serialization
// against concurrent edits and other restores belongs to the owner
// (internal/manager).
type Engine struct {
	store *checkpoint.Store

	// validate is the invariant check run on the working copy before the
	// swap. Overridable in tests to exercise the failure path.
	validate func(*project.Project) error
}

// New creates an Engine reading snapshots from the given store.
func New(store *checkpoint.Store) *Engine {
	return &Engine{
		store:    store,
		validate: project.Validate,
	}
}

// Restore merges checkpoint checkpointID into live per opts and returns the
// change report.
//
// The merge runs on a deep working copy; live is written only after every
// included category merged and the working copy passed invariant
// validation. On any error the live project is exactly as it was.
//
// Applying the same restore twice with identical options yields identical
// live state after the first application.
func (e *Engine) Restore(ctx context.Context, live project.Accessor, checkpointID string, opts Options) (*Report, error) {
	report := newReport(checkpointID)
	if opts.IsNoOp() {
		return report, ErrNoOp
	}

	snap, err := e.store.Load(ctx, checkpointID)
	if err != nil {
		return nil, err
	}

	work := project.CloneOf(live)
	origins := sceneOrigins(snap, live)

	for _, kind := range project.Kinds() {
		if !opts.Included(kind) {
			continue
		}
		report.Categories[kind] = mergeCategory(work.ReadCategory(kind), snap.Category(kind), opts)
	}

	log := project.Repair(work, origins)
	report.Reattached = log.Reattached
	report.PrunedContexts = log.PrunedContexts
	report.PrunedContextRefs = log.PrunedContextRefs
	report.DroppedSceneRefs = log.DroppedRefs

	if err := e.validate(work); err != nil {
		return nil, &FailedError{CheckpointID: checkpointID, Reason: err}
	}

	// Commit: the working copy becomes the live state. Every category is
	// written back because invariant repair may touch categories the option
	// set excluded (e.g. pruning scene contexts after scene deletions).
	for _, kind := range project.Kinds() {
		live.WriteCategory(kind, work.ReadCategory(kind))
	}
	return report, nil
}

// mergeCategory applies the three-way id partition to one category, mutating
// the working copy's mapping in place. Ids are processed in ascending order
// for a reproducible change report; the order does not affect the result.
func mergeCategory(work map[string]project.Entity, snap map[string]project.Entity, opts Options) Changes {
	var ch Changes
	for _, id := range unionIDs(work, snap) {
		snapEnt, inSnap := snap[id]
		_, inWork := work[id]
		switch {
		case inSnap && inWork:
			// Matched: overwrite with snapshot values, unconditionally.
			work[id] = snapEnt.Clone()
			ch.Updated++
		case inSnap:
			if opts.RestoreDeleted {
				work[id] = snapEnt.Clone()
				ch.Added++
			}
		default:
			if opts.DeleteMissing {
				delete(work, id)
				ch.Removed++
			}
		}
	}
	return ch
}

// sceneOrigins maps each known scene id to the chapter that should adopt it
// if it ends up orphaned by the merge: the chapter holding it in the
// snapshot, or failing that in the pre-merge live project.
func sceneOrigins(snap *snapshot.Snapshot, live project.Accessor) map[string]string {
	origins := make(map[string]string)
	collect := func(text map[string]project.Entity) {
		for _, cid := range project.SortedIDs(text) {
			ch, ok := text[cid].(*project.Chapter)
			if !ok {
				continue
			}
			for _, sid := range ch.SceneIDs {
				if _, seen := origins[sid]; !seen {
					origins[sid] = ch.ID
				}
			}
		}
	}
	collect(snap.Category(project.KindText))
	collect(live.ReadCategory(project.KindText))
	return origins
}

func unionIDs(a, b map[string]project.Entity) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for id := range a {
		set[id] = struct{}{}
	}
	for id := range b {
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
