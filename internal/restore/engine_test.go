package restore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanvale/inkwell/internal/checkpoint"
	"github.com/rowanvale/inkwell/internal/project"
	"github.com/rowanvale/inkwell/internal/testutil"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// baseProject is the state checkpoints are captured from in these tests:
// one chapter with two scenes, plus one entity in each remaining category.
func baseProject() *project.Project {
	p := project.New()
	p.Put(project.KindText, &project.Chapter{ID: "ch-1", Title: "One", SceneIDs: []string{"sc-1", "sc-2"}})
	p.Put(project.KindText, &project.Scene{ID: "sc-1", Title: "Opening", Content: "v1"})
	p.Put(project.KindText, &project.Scene{ID: "sc-2", Title: "Middle", Content: "v1"})
	p.Put(project.KindSummaries, &project.Summary{ID: "sum-1", Content: "v1"})
	p.Put(project.KindNotes, &project.Note{ID: "note-1", Title: "Tone", Content: "v1"})
	p.Put(project.KindCompendium, &project.CompendiumEntry{ID: "comp-1", Name: "Mara", Category: "character", Aliases: []string{"M"}})
	p.Put(project.KindTemplates, &project.Template{ID: "tpl-1", Name: "Continue", Text: "v1"})
	p.Put(project.KindSettings, &project.Setting{ID: "theme", Value: "dark"})
	p.Put(project.KindWorkshop, &project.WorkshopSession{ID: "ws-1", Title: "Brainstorm", Messages: []project.Message{{Role: "user", Content: "Ideas?"}}})
	p.Put(project.KindInputHistory, &project.InputHistory{ID: "search", Entries: []string{"mara"}})
	p.Put(project.KindSceneContext, &project.SceneContext{ID: "sc-1", SceneID: "sc-1", CompendiumIDs: []string{"comp-1"}})
	return p
}

// newFixture captures snapshotOf as checkpoint cp-1 and returns an engine
// over the backing store.
func newFixture(t *testing.T, snapshotOf *project.Project) (*Engine, *checkpoint.Store) {
	t.Helper()
	store := checkpoint.NewStore(checkpoint.NewMemoryBackend(),
		checkpoint.WithClock(testutil.NewClock(t0, time.Minute).Now),
		checkpoint.WithIDGenerator(testutil.NewFixedIDs("cp-1")),
	)
	_, err := store.Create(context.Background(), snapshotOf, "fixture")
	require.NoError(t, err)
	return New(store), store
}

func requireEqualState(t *testing.T, want, got *project.Project) {
	t.Helper()
	for _, kind := range project.Kinds() {
		require.Equal(t, project.SortedIDs(want.ReadCategory(kind)), project.SortedIDs(got.ReadCategory(kind)), "ids in %s", kind)
		for id, e := range want.ReadCategory(kind) {
			require.Equal(t, e, got.ReadCategory(kind)[id], "%s/%s", kind, id)
		}
	}
}

func TestRestore_NoOp_LeavesLiveUntouched(t *testing.T) {
	eng, _ := newFixture(t, baseProject())
	live := baseProject()
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
	before := live.Clone()

	report, err := eng.Restore(context.Background(), live, "cp-1", Options{Include: map[project.Kind]bool{}})

	require.ErrorIs(t, err, ErrNoOp)
	assert.True(t, report.Empty())
	requireEqualState(t, before, live)
}

func TestRestore_UpdatesMatchedEntities(t *testing.T) {
	eng, _ := newFixture(t, baseProject())
	live := baseProject()
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
	live.ReadCategory(project.KindNotes)["note-1"].(*project.Note).Content = "edited"

	report, err := eng.Restore(context.Background(), live, "cp-1", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "v1", live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content)
	assert.Equal(t, "v1", live.ReadCategory(project.KindNotes)["note-1"].(*project.Note).Content)
	assert.Equal(t, 3, report.Categories[project.KindText].Updated)
	assert.Equal(t, 0, report.Categories[project.KindText].Added)
	assert.Equal(t, 0, report.Categories[project.KindText].Removed)
	assert.NoError(t, project.Validate(live))
}

func TestRestore_ExcludedCategoryUntouched(t *testing.T) {
	eng, _ := newFixture(t, baseProject())
	live := baseProject()
	live.ReadCategory(project.KindNotes)["note-1"].(*project.Note).Content = "edited"
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"

	opts := DefaultOptions()
	opts.Include[project.KindNotes] = false
	_, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)

	assert.Equal(t, "edited", live.ReadCategory(project.KindNotes)["note-1"].(*project.Note).Content,
		"excluded category must keep live edits")
	assert.Equal(t, "v1", live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content)
}

func TestRestore_DeletedEntity_ReaddedOnlyWithFlag(t *testing.T) {
	// Scenario: live is missing note-1 which the checkpoint has.
	eng, _ := newFixture(t, baseProject())

	live := baseProject()
	live.Delete(project.KindNotes, "note-1")
	_, err := eng.Restore(context.Background(), live, "cp-1", DefaultOptions())
	require.NoError(t, err)
	_, exists := live.Get(project.KindNotes, "note-1")
	assert.False(t, exists, "without restore-deleted the entity stays absent")

	live = baseProject()
	live.Delete(project.KindNotes, "note-1")
	opts := DefaultOptions()
	opts.RestoreDeleted = true
	report, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)
	got, exists := live.Get(project.KindNotes, "note-1")
	require.True(t, exists, "with restore-deleted the entity returns")
	assert.Equal(t, "note-1", got.EntityID(), "original id preserved")
	assert.Equal(t, 1, report.Categories[project.KindNotes].Added)
}

func TestRestore_SceneRemoval_OnlyWithDeleteMissing(t *testing.T) {
	// Scenario: live has {ch-1: [sc-1, sc-2]}, checkpoint has {ch-1: [sc-1]}.
	snapState := baseProject()
	snapState.Delete(project.KindText, "sc-2")
	snapState.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs = []string{"sc-1"}
	eng, _ := newFixture(t, snapState)

	// With delete-missing: sc-2 is removed outright.
	live := baseProject()
	opts := DefaultOptions()
	opts.DeleteMissing = true
	report, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)
	_, exists := live.Get(project.KindText, "sc-2")
	assert.False(t, exists)
	assert.Equal(t, []string{"sc-1"}, live.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs)
	assert.Equal(t, 1, report.Categories[project.KindText].Removed)

	// Without delete-missing: sc-2 survives and is reattached to its
	// previous chapter after the chapter overwrite dropped it.
	live = baseProject()
	report, err = eng.Restore(context.Background(), live, "cp-1", DefaultOptions())
	require.NoError(t, err)
	_, exists = live.Get(project.KindText, "sc-2")
	assert.True(t, exists)
	assert.Equal(t, []string{"sc-1", "sc-2"}, live.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs)
	require.Len(t, report.Reattached, 1)
	assert.Equal(t, project.Reattachment{SceneID: "sc-2", ChapterID: "ch-1"}, report.Reattached[0])
	assert.NoError(t, project.Validate(live))
}

func TestRestore_ReinsertedScene_AttachedToOriginChapter(t *testing.T) {
	// The checkpoint has ch-1 holding sc-1 and sc-2; live deleted sc-2.
	eng, _ := newFixture(t, baseProject())
	live := baseProject()
	live.Delete(project.KindText, "sc-2")
	live.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs = []string{"sc-1"}

	opts := DefaultOptions()
	opts.RestoreDeleted = true
	_, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)

	// The chapter overwrite already carries sc-2 in its scene list.
	assert.Equal(t, []string{"sc-1", "sc-2"}, live.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs)
	assert.NoError(t, project.Validate(live))
}

func TestRestore_OrphanScene_GoesToFallbackChapter(t *testing.T) {
	snapState := baseProject()
	snapState.Put(project.KindText, &project.Scene{ID: "sc-9", Title: "Lost", Content: "x"})
	snapState.Put(project.KindText, &project.Chapter{ID: "ch-2", Title: "Two", SceneIDs: []string{"sc-9"}})
	eng, _ := newFixture(t, snapState)

	// Bring ch-2 and sc-9 into live via restore-deleted, then erase ch-2 so
	// sc-9 is orphaned with no surviving origin chapter anywhere.
	live := baseProject()
	opts := DefaultOptions()
	opts.RestoreDeleted = true
	_, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)
	require.NoError(t, project.Validate(live))

	// Restoring a checkpoint that never knew either entity must give sc-9 a
	// home rather than drop it.
	live.Delete(project.KindText, "ch-2")
	eng2, _ := newFixture(t, baseProject())
	report, err := eng2.Restore(context.Background(), live, "cp-1", DefaultOptions())
	require.NoError(t, err)

	fb, ok := live.ReadCategory(project.KindText)[project.FallbackChapterID].(*project.Chapter)
	require.True(t, ok, "fallback chapter created")
	assert.Equal(t, []string{"sc-9"}, fb.SceneIDs)
	require.Len(t, report.Reattached, 1)
	assert.Equal(t, project.FallbackChapterID, report.Reattached[0].ChapterID)
	assert.NoError(t, project.Validate(live))
}

func TestRestore_PrunesDanglingSceneContexts(t *testing.T) {
	// Checkpoint lacks comp-1's context partner: live has a context for
	// sc-2, whose scene the checkpoint does not contain. Deleting sc-2 via
	// delete-missing must prune the context instead of leaving it dangling.
	snapState := baseProject()
	snapState.Delete(project.KindText, "sc-2")
	snapState.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs = []string{"sc-1"}
	eng, _ := newFixture(t, snapState)

	live := baseProject()
	live.Put(project.KindSceneContext, &project.SceneContext{ID: "sc-2", SceneID: "sc-2", CompendiumIDs: []string{"comp-1"}})

	opts := DefaultOptions()
	opts.DeleteMissing = true
	// Keep scene_context itself out of the merge so only the repair pass
	// may touch it.
	opts.Include[project.KindSceneContext] = false
	report, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)

	_, exists := live.Get(project.KindSceneContext, "sc-2")
	assert.False(t, exists, "dangling context must be pruned")
	assert.Equal(t, 1, report.PrunedContexts)
	assert.NoError(t, project.Validate(live))
}

func TestRestore_FullRestore_MatchesSnapshot(t *testing.T) {
	eng, store := newFixture(t, baseProject())

	// Diverge live in every direction: edits, additions, deletions.
	live := baseProject()
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
	live.Put(project.KindNotes, &project.Note{ID: "note-2", Title: "New"})
	live.Delete(project.KindTemplates, "tpl-1")

	opts := DefaultOptions()
	opts.RestoreDeleted = true
	opts.DeleteMissing = true
	_, err := eng.Restore(context.Background(), live, "cp-1", opts)
	require.NoError(t, err)

	snap, err := store.Load(context.Background(), "cp-1")
	require.NoError(t, err)
	for _, kind := range project.Kinds() {
		require.Equal(t, project.SortedIDs(snap.Category(kind)), project.SortedIDs(live.ReadCategory(kind)), "ids in %s", kind)
		for id, want := range snap.Category(kind) {
			assert.Equal(t, want, live.ReadCategory(kind)[id], "%s/%s", kind, id)
		}
	}
}

func TestRestore_Idempotent(t *testing.T) {
	cases := []Options{
		DefaultOptions(),
		{Include: nil, RestoreDeleted: true},
		{Include: nil, DeleteMissing: true},
		{Include: nil, RestoreDeleted: true, DeleteMissing: true},
	}
	for i, opts := range cases {
		t.Run(fmt.Sprintf("opts-%d", i), func(t *testing.T) {
			eng, _ := newFixture(t, baseProject())
			live := baseProject()
			live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
			live.Put(project.KindNotes, &project.Note{ID: "note-2"})
			live.Delete(project.KindSummaries, "sum-1")

			_, err := eng.Restore(context.Background(), live, "cp-1", opts)
			require.NoError(t, err)
			after1 := live.Clone()

			_, err = eng.Restore(context.Background(), live, "cp-1", opts)
			require.NoError(t, err)

			requireEqualState(t, after1, live)
		})
	}
}

func TestRestore_NotFound_LeavesLiveUntouched(t *testing.T) {
	eng, _ := newFixture(t, baseProject())
	live := baseProject()
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
	before := live.Clone()

	_, err := eng.Restore(context.Background(), live, "cp-missing", DefaultOptions())

	require.True(t, checkpoint.IsNotFound(err), "err = %v", err)
	requireEqualState(t, before, live)
}

func TestRestore_ValidationFailure_RollsBack(t *testing.T) {
	eng, _ := newFixture(t, baseProject())
	eng.validate = func(*project.Project) error {
		return errors.New("induced invariant violation")
	}

	live := baseProject()
	live.ReadCategory(project.KindText)["sc-1"].(*project.Scene).Content = "edited"
	before := live.Clone()

	_, err := eng.Restore(context.Background(), live, "cp-1", DefaultOptions())

	require.True(t, IsFailed(err), "err = %v", err)
	var fe *FailedError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "cp-1", fe.CheckpointID)
	requireEqualState(t, before, live)
}

func TestRestore_ReportDeterministic(t *testing.T) {
	run := func() *Report {
		eng, _ := newFixture(t, baseProject())
		live := baseProject()
		live.Put(project.KindNotes, &project.Note{ID: "note-2"})
		live.Put(project.KindNotes, &project.Note{ID: "note-3"})
		live.Delete(project.KindText, "sc-2")
		live.ReadCategory(project.KindText)["ch-1"].(*project.Chapter).SceneIDs = []string{"sc-1"}
		opts := DefaultOptions()
		opts.RestoreDeleted = true
		opts.DeleteMissing = true
		report, err := eng.Restore(context.Background(), live, "cp-1", opts)
		require.NoError(t, err)
		return report
	}
	assert.Equal(t, run(), run())
}

func TestOptions_IsNoOp(t *testing.T) {
	assert.False(t, DefaultOptions().IsNoOp())
	assert.False(t, Options{}.IsNoOp(), "nil include means every category")
	assert.True(t, Options{Include: map[project.Kind]bool{}}.IsNoOp())
	assert.True(t, Options{Include: map[project.Kind]bool{project.KindText: false}}.IsNoOp())
	assert.False(t, Options{Include: map[project.Kind]bool{project.KindText: true}}.IsNoOp())
}
