package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(sampleProject()))
}

func TestValidate_MissingScene(t *testing.T) {
	p := sampleProject()
	p.Delete(KindText, "sc-2")
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing scene sc-2")
}

func TestValidate_SceneInTwoChapters(t *testing.T) {
	p := sampleProject()
	p.Put(KindText, &Chapter{ID: "ch-2", Title: "Two", SceneIDs: []string{"sc-1"}})
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears in chapters")
}

func TestValidate_OrphanScene(t *testing.T) {
	p := sampleProject()
	p.Put(KindText, &Scene{ID: "sc-9", Title: "Stray"})
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to no chapter")
}

func TestValidate_ContextMissingCompendium(t *testing.T) {
	p := sampleProject()
	p.Put(KindSceneContext, &SceneContext{ID: "sc-2", SceneID: "sc-2", CompendiumIDs: []string{"comp-9"}})
	err := Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing compendium entry comp-9")
}

func TestRepair_DropsMissingSceneRefs(t *testing.T) {
	p := sampleProject()
	p.Delete(KindText, "sc-2")

	log := Repair(p, nil)

	assert.Equal(t, 1, log.DroppedRefs)
	ch := p.ReadCategory(KindText)["ch-1"].(*Chapter)
	assert.Equal(t, []string{"sc-1"}, ch.SceneIDs)
	assert.NoError(t, Validate(p))
}

func TestRepair_FirstChapterWinsDuplicate(t *testing.T) {
	p := sampleProject()
	p.Put(KindText, &Chapter{ID: "ch-2", Title: "Two", SceneIDs: []string{"sc-2"}})

	log := Repair(p, nil)

	assert.Equal(t, 1, log.DroppedRefs)
	assert.Equal(t, []string{"sc-1", "sc-2"}, p.ReadCategory(KindText)["ch-1"].(*Chapter).SceneIDs)
	assert.Empty(t, p.ReadCategory(KindText)["ch-2"].(*Chapter).SceneIDs)
	assert.NoError(t, Validate(p))
}

func TestRepair_ReattachesToOrigin(t *testing.T) {
	p := sampleProject()
	p.Put(KindText, &Scene{ID: "sc-3", Title: "Stray"})

	log := Repair(p, map[string]string{"sc-3": "ch-1"})

	require.Equal(t, []Reattachment{{SceneID: "sc-3", ChapterID: "ch-1"}}, log.Reattached)
	assert.Equal(t, []string{"sc-1", "sc-2", "sc-3"}, p.ReadCategory(KindText)["ch-1"].(*Chapter).SceneIDs)
	assert.NoError(t, Validate(p))
}

func TestRepair_ReattachesToFallback(t *testing.T) {
	p := sampleProject()
	p.Put(KindText, &Scene{ID: "sc-3", Title: "Stray"})

	// Origin chapter no longer exists; scene goes to the fallback chapter,
	// which is created on demand.
	log := Repair(p, map[string]string{"sc-3": "ch-gone"})

	require.Equal(t, []Reattachment{{SceneID: "sc-3", ChapterID: FallbackChapterID}}, log.Reattached)
	fb, ok := p.ReadCategory(KindText)[FallbackChapterID].(*Chapter)
	require.True(t, ok, "fallback chapter should exist")
	assert.Equal(t, FallbackChapterTitle, fb.Title)
	assert.Equal(t, []string{"sc-3"}, fb.SceneIDs)
	assert.NoError(t, Validate(p))
}

func TestRepair_PrunesDanglingContexts(t *testing.T) {
	p := sampleProject()
	// Context for a scene that no longer exists.
	p.Put(KindSceneContext, &SceneContext{ID: "sc-9", SceneID: "sc-9", CompendiumIDs: []string{"comp-1"}})
	// Context that references one live and one missing compendium entry.
	p.Put(KindSceneContext, &SceneContext{ID: "sc-2", SceneID: "sc-2", CompendiumIDs: []string{"comp-1", "comp-9"}})

	log := Repair(p, nil)

	assert.Equal(t, 1, log.PrunedContexts)
	assert.Equal(t, 1, log.PrunedContextRefs)
	_, exists := p.Get(KindSceneContext, "sc-9")
	assert.False(t, exists)
	kept := p.ReadCategory(KindSceneContext)["sc-2"].(*SceneContext)
	assert.Equal(t, []string{"comp-1"}, kept.CompendiumIDs)
	assert.NoError(t, Validate(p))
}

func TestRepair_RemovesEmptiedContext(t *testing.T) {
	p := sampleProject()
	p.Put(KindSceneContext, &SceneContext{ID: "sc-2", SceneID: "sc-2", CompendiumIDs: []string{"comp-9"}})

	log := Repair(p, nil)

	assert.Equal(t, 1, log.PrunedContexts)
	assert.Equal(t, 1, log.PrunedContextRefs)
	_, exists := p.Get(KindSceneContext, "sc-2")
	assert.False(t, exists)
}

func TestRepair_Deterministic(t *testing.T) {
	build := func() *Project {
		p := sampleProject()
		p.Put(KindText, &Scene{ID: "sc-3"})
		p.Put(KindText, &Scene{ID: "sc-4"})
		return p
	}
	a := Repair(build(), nil)
	b := Repair(build(), nil)
	assert.Equal(t, a, b)
}
