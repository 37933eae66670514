package project

import "sort"

// Accessor is the capability the checkpoint core uses to read and replace
// category state. The live project implements it; the restore engine never
// touches anything else.
//
// ReadCategory returns the current mapping for a category. Callers must not
// mutate returned entities; clone before changing.
//
// WriteCategory replaces a category's mapping wholesale. The new mapping is
// adopted as-is, so callers hand over ownership of it.
type Accessor interface {
	ReadCategory(kind Kind) map[string]Entity
	WriteCategory(kind Kind, entities map[string]Entity)
}

// Project is the live, mutable working state of a writing project:
// per category, a mapping from entity id to current value.
//
// Project is NOT safe for concurrent use. All mutation is expected to go
// through a single owner (see internal/manager).
type Project struct {
	categories map[Kind]map[string]Entity
}

// New creates an empty project with every category initialized.
func New() *Project {
	p := &Project{categories: make(map[Kind]map[string]Entity, len(kinds))}
	for _, k := range kinds {
		p.categories[k] = make(map[string]Entity)
	}
	return p
}

// ReadCategory returns the live mapping for a category.
// The map is the project's own; treat it as read-only.
func (p *Project) ReadCategory(kind Kind) map[string]Entity {
	return p.categories[kind]
}

// WriteCategory replaces a category's mapping. A nil mapping installs an
// empty category.
func (p *Project) WriteCategory(kind Kind, entities map[string]Entity) {
	if entities == nil {
		entities = make(map[string]Entity)
	}
	p.categories[kind] = entities
}

// Put inserts or replaces a single entity in a category.
func (p *Project) Put(kind Kind, e Entity) {
	p.categories[kind][e.EntityID()] = e
}

// Get returns the entity with the given id, if present.
func (p *Project) Get(kind Kind, id string) (Entity, bool) {
	e, ok := p.categories[kind][id]
	return e, ok
}

// Delete removes an entity by id. Removing an absent id is a no-op.
func (p *Project) Delete(kind Kind, id string) {
	delete(p.categories[kind], id)
}

// Len returns the number of entities in a category.
func (p *Project) Len(kind Kind) int {
	return len(p.categories[kind])
}

// Clone deep-copies the entire project. The clone shares no mutable state
// with the receiver: every entity is cloned, every map is fresh.
func (p *Project) Clone() *Project {
	out := &Project{categories: make(map[Kind]map[string]Entity, len(kinds))}
	for _, k := range kinds {
		src := p.categories[k]
		dst := make(map[string]Entity, len(src))
		for id, e := range src {
			dst[id] = e.Clone()
		}
		out.categories[k] = dst
	}
	return out
}

// CloneOf deep-copies every category visible through an accessor into a
// standalone Project. Used by the restore engine to build its working copy.
func CloneOf(a Accessor) *Project {
	out := New()
	for _, k := range kinds {
		src := a.ReadCategory(k)
		dst := make(map[string]Entity, len(src))
		for id, e := range src {
			dst[id] = e.Clone()
		}
		out.categories[k] = dst
	}
	return out
}

// SortedIDs returns the ids of a mapping in ascending order. Merge passes
// and change reports iterate ids in this order for reproducibility.
func SortedIDs(m map[string]Entity) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
