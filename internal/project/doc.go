// Package project defines the live, mutable state of a writing project.
//
// A project is partitioned into categories (text, notes, compendium, ...),
// each a flat mapping from stable entity id to entity value. Categories are
// the unit of selection for checkpoint restore: each one can be merged back
// independently of the others.
//
// Structural invariants the rest of the system relies on:
//
//   - every Scene id appears in exactly one Chapter's ordered scene list
//   - a Chapter's scene list references only existing Scenes
//   - a SceneContext references an existing Scene and only existing
//     CompendiumEntry ids
//
// Validate checks the invariants; Repair (used by the restore engine)
// re-establishes them after a structural merge. Entities orphaned by a merge
// are reattached, never dropped.
package project
