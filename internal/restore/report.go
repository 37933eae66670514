package restore

import "github.com/rowanvale/inkwell/internal/project"

// Changes counts the entities a merge touched within one category.
type Changes struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

// Report describes everything a restore changed. Categories iterate
// deterministically through project.Kinds(); a category the option set
// excluded has no entry.
type Report struct {
	CheckpointID string                       `json:"checkpoint_id"`
	Categories   map[project.Kind]Changes     `json:"categories"`
	Reattached   []project.Reattachment       `json:"reattached,omitempty"`
	// PrunedContexts counts scene-context associations removed because they
	// dangled after the merge; PrunedContextRefs counts individual
	// compendium references removed from surviving associations.
	PrunedContexts    int `json:"pruned_contexts"`
	PrunedContextRefs int `json:"pruned_context_refs"`
	// DroppedSceneRefs counts chapter scene-list references scrubbed during
	// invariant repair (missing or duplicated scenes).
	DroppedSceneRefs int `json:"dropped_scene_refs"`
}

func newReport(checkpointID string) *Report {
	return &Report{
		CheckpointID: checkpointID,
		Categories:   make(map[project.Kind]Changes),
	}
}

// Total sums the per-category counts.
func (r *Report) Total() Changes {
	var t Changes
	for _, c := range r.Categories {
		t.Added += c.Added
		t.Updated += c.Updated
		t.Removed += c.Removed
	}
	return t
}

// Empty reports whether the restore modified nothing at all.
func (r *Report) Empty() bool {
	t := r.Total()
	return t.Added == 0 && t.Updated == 0 && t.Removed == 0 &&
		len(r.Reattached) == 0 && r.PrunedContexts == 0 &&
		r.PrunedContextRefs == 0 && r.DroppedSceneRefs == 0
}
