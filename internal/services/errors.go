package services

import (
	"errors"
	"fmt"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserDoesNotExist   = errors.New("username does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken and ErrEmailTaken name the colliding field and match ErrUserAlreadyExists.
	ErrUsernameTaken = fmt.Errorf("%w: username taken", ErrUserAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("%w: email taken", ErrUserAlreadyExists)

	// ErrInvalidArgument marks malformed request input or out-of-range radius or coordinates.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNothingToUpdate is returned for a profile edit that names no known field.
	ErrNothingToUpdate = fmt.Errorf("%w: no profile fields to update", ErrInvalidArgument)
	// ErrLocationNotSet is returned when no origin can be resolved for a search.
	ErrLocationNotSet = errors.New("location not set")
	// ErrNotFound is returned when the requesting user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUnavailable wraps storage failures.
	ErrUnavailable = errors.New("user directory unavailable")
)
