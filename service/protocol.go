// Package service exposes the command translator over a Unix domain
// socket, so editors and scripts can describe or build device commands
// without linking the codec.
//
// Protocol Format:
//
//	Request (client -> server):  CMD:<command> [arguments]\n
//	Success Response:            OK:<response-data>\n
//	Error Response:              ERR:<error-message>\n
//	Multi-line Separator:        \x1E (Record Separator)
//
// Example Session:
//
//	CLI: CMD:ping
//	SRV: OK:pong
//	CLI: CMD:describe !ZM -20
//	SRV: OK:Z axis move (-20);
//	CLI: CMD:generate Z axis move\x1E-20
//	SRV: OK:!ZM -20;
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	// CommandPrefix is the prefix for requests sent to the server.
	CommandPrefix = "CMD:"

	// OKPrefix is the prefix for success responses.
	OKPrefix = "OK:"

	// ErrorPrefix is the prefix for error responses.
	ErrorPrefix = "ERR:"

	// MultiLineSeparator separates the lines of a multi-line payload,
	// in requests and in responses (Record Separator, ASCII 0x1E).
	MultiLineSeparator = "\x1E"

	// SocketPathPrefix is the prefix for server socket paths.
	SocketPathPrefix = "/tmp/drl2rml-"

	// SocketPathSuffix is the suffix for server socket paths.
	SocketPathSuffix = ".sock"

	// MaxLineLength is the maximum allowed length for a protocol line in bytes.
	MaxLineLength = 1 << 20

	// CommandTimeout is the default timeout for commands.
	CommandTimeout = 30 * time.Second

	// PingTimeout is used to verify a fresh connection.
	PingTimeout = 1 * time.Second

	// ConnectionTimeout is the timeout for establishing connections.
	ConnectionTimeout = 5 * time.Second

	// ProtocolVersion is the version string of the socket protocol.
	ProtocolVersion = "1.0"
)

// SocketPath returns the socket path for a given process ID.
func SocketPath(pid int) string {
	return fmt.Sprintf("%s%d%s", SocketPathPrefix, pid, SocketPathSuffix)
}

// CurrentSocketPath returns the socket path for the current process.
func CurrentSocketPath() string {
	return SocketPath(os.Getpid())
}

// DiscoverSockets finds all server sockets in /tmp, most recent first.
func DiscoverSockets() ([]string, error) {
	return discoverIn("/tmp")
}

func discoverIn(dir string) ([]string, error) {
	pattern := filepath.Join(dir, filepath.Base(SocketPathPrefix)+"*"+SocketPathSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob sockets: %w", err)
	}

	type socketInfo struct {
		path    string
		modTime time.Time
	}
	sockets := make([]socketInfo, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sockets = append(sockets, socketInfo{path: path, modTime: info.ModTime()})
	}

	sort.Slice(sockets, func(i, j int) bool {
		return sockets[i].modTime.After(sockets[j].modTime)
	})

	result := make([]string, len(sockets))
	for i, s := range sockets {
		result[i] = s.path
	}
	return result, nil
}

// DiscoverSocket finds the most recently started server socket.
// Returns empty string if no socket is found.
func DiscoverSocket() string {
	sockets, err := DiscoverSockets()
	if err != nil || len(sockets) == 0 {
		return ""
	}
	return sockets[0]
}
