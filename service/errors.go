package service

import (
	"errors"
	"fmt"
)

var (
	// ErrLineTooLong indicates a protocol line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrTimeout indicates a command timed out waiting for a response.
	ErrTimeout = errors.New("command timed out")

	// ErrSocketNotFound indicates no server socket was found.
	ErrSocketNotFound = errors.New("no server socket found")

	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrUnknownCommand indicates a request the server does not handle.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnexpectedResponse indicates a line without OK: or ERR: prefix.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// RemoteError is an ERR: response turned into a Go error.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "server: " + e.Message
}

// ConnectionError represents a connection-related error.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}
