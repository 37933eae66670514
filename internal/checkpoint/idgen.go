package checkpoint

import "github.com/google/uuid"

// IDGenerator produces fresh checkpoint ids.
// Implemented by UUIDv7Generator (production) and testutil.FixedIDs (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 checkpoint ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids created
// later sort later. Listing still orders by the stored creation time; the
// id only breaks ties.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
