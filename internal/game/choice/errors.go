package choice

import "errors"

var (
	// ErrProtocolViolation is a caller bug: a second request for a player that
	// already has one outstanding.
	ErrProtocolViolation = errors.New("choice protocol violation")
	// ErrUnknownRequest is returned when a response names no outstanding request.
	ErrUnknownRequest = errors.New("unknown choice request")
	// ErrHandlerExists is returned when a player already has a handler.
	ErrHandlerExists = errors.New("choice handler already registered")
	// ErrNoHandler is returned when a request targets a player without a handler.
	ErrNoHandler = errors.New("no choice handler registered")
	// ErrInvalidResponse wraps every response validation failure.
	ErrInvalidResponse = errors.New("invalid choice response")
)
