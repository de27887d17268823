package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrUnknownCollection is returned for a planner collection other than activities or study.
	ErrUnknownCollection = errors.New("persistence: unknown planner collection")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("persistence: store closed")
)
