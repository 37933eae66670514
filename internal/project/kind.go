package project

// Kind identifies a category of project state. Categories are independently
// selectable for restore.
type Kind string

const (
	// KindText holds chapters and scenes: the manuscript itself.
	KindText Kind = "text"
	// KindSummaries holds per-scene summaries.
	KindSummaries Kind = "summaries"
	// KindNotes holds freeform project notes.
	KindNotes Kind = "notes"
	// KindCompendium holds worldbuilding entries (characters, places, lore).
	KindCompendium Kind = "compendium"
	// KindTemplates holds prompt templates.
	KindTemplates Kind = "templates"
	// KindSettings holds project settings as key/value pairs.
	KindSettings Kind = "settings"
	// KindWorkshop holds workshop conversation sessions.
	KindWorkshop Kind = "workshop"
	// KindInputHistory holds per-surface input histories.
	KindInputHistory Kind = "input_history"
	// KindSceneContext holds scene to compendium-entry associations.
	KindSceneContext Kind = "scene_context"
)

// kinds lists every category in declaration order. This order NEVER changes
// after release: change reports and merge passes iterate it to stay
// deterministic.
var kinds = []Kind{
	KindText,
	KindSummaries,
	KindNotes,
	KindCompendium,
	KindTemplates,
	KindSettings,
	KindWorkshop,
	KindInputHistory,
	KindSceneContext,
}

// Kinds returns every category kind in stable declaration order.
// The returned slice is a copy; callers may modify it freely.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ValidKind reports whether k names a known category.
func ValidKind(k Kind) bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}
