package service

import (
	"fmt"
	"strings"
)

// ResponseType represents the type of response from the server.
type ResponseType int

const (
	// ResponseOK indicates a successful response.
	ResponseOK ResponseType = iota
	// ResponseError indicates an error response.
	ResponseError
)

// Response represents a response to a request.
type Response struct {
	Type ResponseType
	Data string // the response data (for OK) or error message (for Error)
}

// NewOKResponse creates a successful response with the given data.
func NewOKResponse(data string) Response {
	return Response{Type: ResponseOK, Data: flatten(data)}
}

// NewErrorResponse creates an error response with the given message.
func NewErrorResponse(message string) Response {
	return Response{Type: ResponseError, Data: flatten(message)}
}

// NewMultiLineResponse creates a successful response from multiple lines.
func NewMultiLineResponse(lines []string) Response {
	return NewOKResponse(strings.Join(lines, MultiLineSeparator))
}

// IsOK returns true if this is a successful response.
func (r Response) IsOK() bool {
	return r.Type == ResponseOK
}

// IsError returns true if this is an error response.
func (r Response) IsError() bool {
	return r.Type == ResponseError
}

// Err returns the response as a *RemoteError, or nil when it is OK.
func (r Response) Err() error {
	if r.IsOK() {
		return nil
	}
	return &RemoteError{Message: r.Data}
}

// Format returns the response formatted for transmission, without the
// trailing newline.
func (r Response) Format() string {
	switch r.Type {
	case ResponseOK:
		return OKPrefix + r.Data
	case ResponseError:
		return ErrorPrefix + r.Data
	default:
		return ErrorPrefix + "unknown response type"
	}
}

// Lines returns the response data split by the multi-line separator.
func (r Response) Lines() []string {
	if r.Data == "" {
		return nil
	}
	return strings.Split(r.Data, MultiLineSeparator)
}

// ParseResponse parses a response line received from the server.
func ParseResponse(line string) (Response, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	switch {
	case strings.HasPrefix(trimmed, OKPrefix):
		return Response{Type: ResponseOK, Data: trimmed[len(OKPrefix):]}, nil
	case strings.HasPrefix(trimmed, ErrorPrefix):
		return Response{Type: ResponseError, Data: trimmed[len(ErrorPrefix):]}, nil
	}
	return Response{}, fmt.Errorf("%w: %q", ErrUnexpectedResponse, trimmed)
}

// flatten keeps a payload on one protocol line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", MultiLineSeparator)
	return strings.ReplaceAll(s, "\n", MultiLineSeparator)
}
