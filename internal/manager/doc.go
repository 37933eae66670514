// Package manager is the single-writer owner of the live project.
//
// Every operation that reads or mutates the live project for checkpointing
// passes through one non-blocking gate: a second checkpoint or restore
// requested while one is in flight fails immediately with ErrBusy instead of
// queueing or racing. A restore, once begun, runs to completion or fails
// atomically; it cannot interleave with concurrent edits because the edits'
// owner and the gate are the same.
//
// The manager also carries the checkpoint trigger hook: GuardDestructive
// takes an automatic safety checkpoint before running a destructive
// operation such as an import.
package manager
