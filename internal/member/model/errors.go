package model

import "errors"

var (
	// ErrMemberNotFound indicates that the requested member does not exist.
	ErrMemberNotFound = errors.New("member not found")
	// ErrTeamNotFound indicates that the team referenced by a member does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidUsername indicates an empty username.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidAge indicates a negative age.
	ErrInvalidAge = errors.New("invalid age")
	// ErrInvalidSort indicates an unknown sort property.
	ErrInvalidSort = errors.New("invalid sort")
)
