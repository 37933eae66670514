package project

import (
	"fmt"
	"sort"
)

// FallbackChapterID is the reserved chapter that adopts scenes whose own
// chapter no longer exists after a merge. It is created on demand and is an
// ordinary chapter in every other respect.
const FallbackChapterID = "chapter:recovered"

// FallbackChapterTitle is the display title of the fallback chapter.
const FallbackChapterTitle = "Recovered scenes"

// Reattachment records one scene moved into a chapter by Repair.
type Reattachment struct {
	SceneID   string
	ChapterID string
}

// RepairLog summarizes the structural fixes Repair applied.
type RepairLog struct {
	// Reattached lists scenes that were orphaned and the chapter each one
	// was attached to, in ascending scene-id order.
	Reattached []Reattachment
	// DroppedRefs counts scene-list references removed because the scene no
	// longer exists or was already claimed by an earlier chapter.
	DroppedRefs int
	// PrunedContexts counts scene-context associations removed outright
	// (their scene is gone or no compendium references survived).
	PrunedContexts int
	// PrunedContextRefs counts individual compendium references removed
	// from surviving associations.
	PrunedContextRefs int
}

// Validate checks the project's structural invariants and returns the first
// violation found, in deterministic order.
func Validate(p *Project) error {
	text := p.ReadCategory(KindText)
	seen := make(map[string]string) // scene id -> chapter id that claimed it

	for _, cid := range SortedIDs(text) {
		ch, ok := text[cid].(*Chapter)
		if !ok {
			continue
		}
		for _, sid := range ch.SceneIDs {
			if _, ok := text[sid].(*Scene); !ok {
				return fmt.Errorf("chapter %s references missing scene %s", ch.ID, sid)
			}
			if prev, dup := seen[sid]; dup {
				return fmt.Errorf("scene %s appears in chapters %s and %s", sid, prev, ch.ID)
			}
			seen[sid] = ch.ID
		}
	}

	for _, id := range SortedIDs(text) {
		if _, ok := text[id].(*Scene); !ok {
			continue
		}
		if _, attached := seen[id]; !attached {
			return fmt.Errorf("scene %s belongs to no chapter", id)
		}
	}

	compendium := p.ReadCategory(KindCompendium)
	for _, id := range SortedIDs(p.ReadCategory(KindSceneContext)) {
		sc, ok := p.ReadCategory(KindSceneContext)[id].(*SceneContext)
		if !ok {
			continue
		}
		if _, ok := text[sc.SceneID].(*Scene); !ok {
			return fmt.Errorf("scene context %s references missing scene %s", sc.ID, sc.SceneID)
		}
		for _, cid := range sc.CompendiumIDs {
			if _, ok := compendium[cid]; !ok {
				return fmt.Errorf("scene context %s references missing compendium entry %s", sc.ID, cid)
			}
		}
	}

	return nil
}

// Repair re-establishes structural invariants after a merge, mutating p in
// place and returning a log of what changed.
//
// origins maps scene id to the chapter that should adopt the scene if it
// ends up orphaned (typically the chapter that held it in the snapshot, or
// failing that in the pre-merge live project). Orphans whose origin chapter
// is absent go to the fallback chapter; nothing is ever dropped.
//
// Processing order is ascending id throughout, so identical inputs produce
// an identical log.
func Repair(p *Project, origins map[string]string) RepairLog {
	var log RepairLog
	text := p.categories[KindText]
	claimed := make(map[string]bool)

	// Pass 1: scrub chapter scene lists. Earlier chapters (ascending id)
	// win a scene claimed twice.
	for _, cid := range SortedIDs(text) {
		ch, ok := text[cid].(*Chapter)
		if !ok {
			continue
		}
		kept := ch.SceneIDs[:0]
		for _, sid := range ch.SceneIDs {
			if _, ok := text[sid].(*Scene); !ok || claimed[sid] {
				log.DroppedRefs++
				continue
			}
			claimed[sid] = true
			kept = append(kept, sid)
		}
		ch.SceneIDs = kept
	}

	// Pass 2: reattach orphaned scenes.
	for _, sid := range SortedIDs(text) {
		if _, ok := text[sid].(*Scene); !ok || claimed[sid] {
			continue
		}
		target := origins[sid]
		if _, ok := text[target].(*Chapter); !ok {
			target = FallbackChapterID
		}
		fb, ok := text[target].(*Chapter)
		if !ok {
			fb = &Chapter{ID: FallbackChapterID, Title: FallbackChapterTitle}
			text[FallbackChapterID] = fb
			target = FallbackChapterID
		}
		fb.SceneIDs = append(fb.SceneIDs, sid)
		claimed[sid] = true
		log.Reattached = append(log.Reattached, Reattachment{SceneID: sid, ChapterID: target})
	}
	sort.Slice(log.Reattached, func(i, j int) bool {
		return log.Reattached[i].SceneID < log.Reattached[j].SceneID
	})

	// Pass 3: prune dangling scene-context associations.
	contexts := p.categories[KindSceneContext]
	compendium := p.categories[KindCompendium]
	for _, id := range SortedIDs(contexts) {
		sc, ok := contexts[id].(*SceneContext)
		if !ok {
			continue
		}
		if _, ok := text[sc.SceneID].(*Scene); !ok {
			delete(contexts, id)
			log.PrunedContexts++
			continue
		}
		kept := sc.CompendiumIDs[:0]
		for _, cid := range sc.CompendiumIDs {
			if _, ok := compendium[cid]; !ok {
				log.PrunedContextRefs++
				continue
			}
			kept = append(kept, cid)
		}
		sc.CompendiumIDs = kept
		if len(sc.CompendiumIDs) == 0 {
			delete(contexts, id)
			log.PrunedContexts++
		}
	}

	return log
}
