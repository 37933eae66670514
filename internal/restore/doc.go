// Package restore merges a stored snapshot back into the live project.
//
// The engine computes a structural merge per category, matched by entity id:
// entities present on both sides are overwritten with the snapshot's values;
// entities only in the snapshot are reinserted when RestoreDeleted is set;
// entities only in the live project are removed when DeleteMissing is set.
// Categories excluded by the option set are untouched.
//
// The merge is atomic from the caller's point of view: it runs on a working
// copy, structural invariants are repaired and verified there, and only on
// full success is the working copy swapped into the live project. A failed
// restore leaves the live project exactly as it was.
//
// Determinism: categories are processed in declaration order and entities in
// ascending id order, so equal inputs produce equal change reports. The
// ordering never affects the merged state itself.
package restore
