package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrNotAuthenticated is returned when no valid actor is attached to
	// the request
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInsufficientRole is returned when the actor's role does not
	// permit the action
	ErrInsufficientRole = errors.New("insufficient role")

	// ErrNotOwner is returned when the action is limited to the record's
	// owner, assignee or submitter
	ErrNotOwner = errors.New("not the record owner")

	// ErrStateConflict is returned when the entity's current status does
	// not permit the requested change
	ErrStateConflict = errors.New("state conflict")

	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("invalid input")

	// ErrStorageConflict is returned when a version-checked save lost a
	// concurrent write race
	ErrStorageConflict = errors.New("storage conflict")

	// ErrEmailTaken is returned when creating or updating a user with an
	// email that already exists
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
)
