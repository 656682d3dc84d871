package services

import "errors"

// Errors shared by the session services and mapped to HTTP in handlers.
var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrValidationFailed      = errors.New("validation failed")
	ErrTournamentNotComplete = errors.New("tournament is not complete yet")
)
