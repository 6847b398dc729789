package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSubstate is returned when a substate does not belong to the closed set of a State's Kind.
var ErrInvalidSubstate = errors.New("invalid substate")

// ErrNoSubstate is returned when a substate is read before one was assigned.
var ErrNoSubstate = errors.New("no substate found")

// ErrCycle is returned when a parent assignment would make a node its own ancestor.
var ErrCycle = errors.New("state hierarchy cycle")

// ErrUnknownNode is returned when a NodeID does not exist in a Tree.
var ErrUnknownNode = errors.New("unknown state node")

// ErrUnknownKind is returned when a Kind is not one of the seven page variants.
var ErrUnknownKind = errors.New("unknown state kind")

// ErrUnknownTarget is returned when a navigation target matches no hub or method.
var ErrUnknownTarget = errors.New("unknown navigation target")

// ErrBackendConnection is matched by every BackendConnectionError.
var ErrBackendConnection = errors.New("backend connection failed")

// ErrInitialization is returned when the application cannot complete its initialization checks.
var ErrInitialization = errors.New("initialization failed")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// BackendConnectionError reports a failed health probe against the backend service.
type BackendConnectionError struct {
	Message string
	Err     error
}

func (e *BackendConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BackendConnectionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the ErrBackendConnection sentinel.
func (e *BackendConnectionError) Is(target error) bool {
	return target == ErrBackendConnection
}
