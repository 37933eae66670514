// Package snapshot defines immutable point-in-time copies of project state
// and their byte encoding.
//
// A Snapshot is created by deep-copying every category of the live project
// at capture time; it shares no mutable state with the project and is never
// modified afterwards. Entry is the lightweight listing record (id, creation
// time, label) kept separate from the payload so enumeration never decodes
// snapshot bytes.
//
// Encode produces deterministic JSON: object keys sorted by UTF-16 code
// units, strings NFC-normalized, no HTML escaping, no floats. Encoding the
// same project state twice yields identical bytes.
package snapshot
