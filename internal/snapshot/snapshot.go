package snapshot

import (
	"time"

	"github.com/rowanvale/inkwell/internal/project"
)

// Snapshot is a fully self-contained copy of project state at one instant.
// Identity is ID; a snapshot is never mutated after Capture, only deleted
// wholesale at the store layer.
type Snapshot struct {
	ID         string
	CreatedAt  time.Time
	Label      string
	Categories map[project.Kind]map[string]project.Entity
}

// Entry is the listing record for one stored snapshot. It carries everything
// a picker UI needs without loading the payload.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Label     string    `json:"label"`
}

// Capture deep-copies the live project into a new snapshot. The live project
// is read through its accessor capability and never mutated; the returned
// snapshot aliases none of its state.
func Capture(live project.Accessor, id string, createdAt time.Time, label string) *Snapshot {
	s := &Snapshot{
		ID:         id,
		CreatedAt:  createdAt.UTC().Truncate(time.Millisecond),
		Label:      label,
		Categories: make(map[project.Kind]map[string]project.Entity),
	}
	for _, kind := range project.Kinds() {
		src := live.ReadCategory(kind)
		dst := make(map[string]project.Entity, len(src))
		for eid, e := range src {
			dst[eid] = e.Clone()
		}
		s.Categories[kind] = dst
	}
	return s
}

// Category returns the entities captured for one category. Absent categories
// read as empty, so snapshots decoded from older payloads stay usable.
func (s *Snapshot) Category(kind project.Kind) map[string]project.Entity {
	if m, ok := s.Categories[kind]; ok {
		return m
	}
	return map[string]project.Entity{}
}

// Entry returns the listing record for this snapshot.
func (s *Snapshot) Entry() Entry {
	return Entry{ID: s.ID, CreatedAt: s.CreatedAt, Label: s.Label}
}
