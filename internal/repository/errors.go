package repository

import "errors"

// ErrVersionConflict is returned when an update matched no row because
// the row version moved under us. Callers surface it as a storage
// conflict; it is never retried here.
var ErrVersionConflict = errors.New("row version conflict")
