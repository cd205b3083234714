package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the event loop should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called while running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoWindow indicates Run was called before SetWindow.
	ErrNoWindow = errors.New("no window attached")
)

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
