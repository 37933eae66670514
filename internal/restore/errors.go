package restore

import (
	"errors"
	"fmt"
)

// ErrNoOp is the advisory error returned when the option set excludes every
// category. The live project is untouched and the report is all zeros.
var ErrNoOp = errors.New("no categories selected for restore")

// FailedError indicates the merge hit an internal invariant violation. The
// live project was left exactly as it was before the attempt.
type FailedError struct {
	CheckpointID string
	Reason       error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("restore of checkpoint %s failed: %v (live project unchanged)", e.CheckpointID, e.Reason)
}

func (e *FailedError) Unwrap() error { return e.Reason }

// IsFailed reports whether err is a failed-restore error.
func IsFailed(err error) bool {
	var fe *FailedError
	return errors.As(err, &fe)
}
