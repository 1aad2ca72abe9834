package service

import (
	"strings"
)

// Request is one command sent to the server.
type Request struct {
	Name string // lower case command word
	Args string // everything after the first space
}

// NewRequest builds a request whose payload fields are joined with the
// multi-line separator.
func NewRequest(name string, fields ...string) Request {
	return Request{Name: name, Args: flatten(strings.Join(fields, MultiLineSeparator))}
}

// Fields splits the arguments on the multi-line separator.
func (r Request) Fields() []string {
	if r.Args == "" {
		return nil
	}
	return strings.Split(r.Args, MultiLineSeparator)
}

// FormatLine returns the request formatted for transmission, including
// the prefix and the trailing newline.
func (r Request) FormatLine() string {
	if r.Args == "" {
		return CommandPrefix + r.Name + "\n"
	}
	return CommandPrefix + r.Name + " " + r.Args + "\n"
}

// ParseRequest parses a request line. The CMD: prefix is optional.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimPrefix(line, CommandPrefix)
	if len(line) > MaxLineLength {
		return Request{}, ErrLineTooLong
	}
	name, args, _ := strings.Cut(strings.TrimLeft(line, " "), " ")
	if name == "" {
		return Request{}, ErrUnknownCommand
	}
	return Request{Name: strings.ToLower(name), Args: args}, nil
}
