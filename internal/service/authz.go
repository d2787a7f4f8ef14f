package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/policy"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/transition"
)

// denialError maps a policy denial to the matching service error
func denialError(d policy.Decision) error {
	switch d.Reason {
	case policy.ReasonNotAuthenticated:
		return ErrNotAuthenticated
	case policy.ReasonInsufficientRole:
		return ErrInsufficientRole
	case policy.ReasonNotOwner:
		return ErrNotOwner
	case policy.ReasonStateConflict:
		return ErrStateConflict
	}
	return ErrInsufficientRole
}

// storageError maps repository errors to service errors, passing
// anything unrecognized through
func storageError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrStorageConflict
	}
	return err
}

// transitionError maps transition engine errors to service errors
func transitionError(err error) error {
	switch {
	case errors.Is(err, transition.ErrInvalidTransition):
		return ErrStateConflict
	case errors.Is(err, transition.ErrInvalidValue):
		return ErrValidation
	}
	return err
}
