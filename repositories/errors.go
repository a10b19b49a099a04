package repositories

import "errors"

// Error taxonomy for the audit core. Storage failures are wrapped with %w
// and propagated; these sentinels cover the cases callers branch on.
var (
	// ErrNotFound means no entity or revision exists at the given key.
	ErrNotFound = errors.New("not found")

	// ErrRevisionConflict means a revision number collided with an existing
	// row for the same todo. The monotonic invariant is broken; the unit of
	// work must abort rather than retry blindly.
	ErrRevisionConflict = errors.New("revision conflict")
)
