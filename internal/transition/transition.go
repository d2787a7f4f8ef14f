// Package transition implements the per-entity state machines. Each
// Apply function merges a partial change set into a snapshot, validates
// status changes against the entity's edge table, and computes side
// effects (timestamp stamping, invariant repair) in the returned copy.
// Nothing here touches storage.
package transition

import "errors"

var (
	// ErrInvalidTransition is returned when a status change does not
	// follow the entity's edge table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidValue is returned when a changed field is outside its
	// allowed range.
	ErrInvalidValue = errors.New("invalid field value")
)
