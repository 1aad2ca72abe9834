package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/maiereni/drl2rml/rmlprotocol"
)

// Server answers translator requests on a Unix domain socket. Each
// connection keeps its own locale.
type Server struct {
	// Locale is the initial description language of new connections.
	Locale string
	// Version is reported by the version command.
	Version string
	Logger  *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a server describing commands in locale.
func NewServer(locale, version string) *Server {
	return &Server{Locale: locale, Version: version, Logger: slog.Default()}
}

// ListenAndServe listens on the socket at path and serves until ctx is
// done or Close is called. A stale socket file at path is replaced.
func (s *Server) ListenAndServe(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing stale socket: %w", err)
		}
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	defer os.Remove(path)
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done or Close is called.
// It returns nil on a regular shutdown.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return net.ErrClosed
	}
	s.listener = l
	s.conns = make(map[net.Conn]struct{})
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	s.logger().Info("serving", "addr", l.Addr().String(), "locale", s.Locale)
	for {
		conn, err := l.Accept()
		if err != nil {
			s.wg.Wait()
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Close stops the listener and drops every open connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	return err
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// session is the per-connection state.
type session struct {
	translator *rmlprotocol.Translator
	quit       bool
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	sess := &session{translator: rmlprotocol.NewTranslator(s.Locale)}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	w := bufio.NewWriter(conn)
	for scanner.Scan() {
		var resp Response
		req, err := ParseRequest(scanner.Text())
		if err != nil {
			resp = NewErrorResponse(err.Error())
		} else {
			resp = s.dispatch(sess, req)
		}
		fmt.Fprintln(w, resp.Format())
		if err := w.Flush(); err != nil {
			s.logger().Debug("write failed", "err", err)
			return
		}
		if sess.quit {
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger().Warn("connection dropped", "err", err)
	}
}

// dispatch executes one request against the session state.
func (s *Server) dispatch(sess *session, req Request) Response {
	s.logger().Debug("request", "cmd", req.Name, "args", req.Args)
	switch req.Name {
	case "ping":
		return NewOKResponse("pong")
	case "version":
		return NewOKResponse(fmt.Sprintf("drl2rml %s protocol %s", s.Version, ProtocolVersion))
	case "quit":
		sess.quit = true
		return NewOKResponse("bye")
	case "locale":
		if req.Args != "" {
			sess.translator.Locale = strings.TrimSpace(req.Args)
		}
		return NewOKResponse(sess.translator.Locale)
	case "commands":
		var lines []string
		for _, c := range rmlprotocol.Commands() {
			lines = append(lines, c.Letters+"\t"+c.Name)
		}
		return NewMultiLineResponse(lines)
	case "describe":
		text, err := sess.translator.Describe(req.Args)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return NewOKResponse(text)
	case "translate":
		text := strings.ReplaceAll(req.Args, MultiLineSeparator, "\n")
		lines, err := sess.translator.Lines(text)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return NewMultiLineResponse(lines)
	case "generate":
		fields := req.Fields()
		if len(fields) == 0 {
			return NewErrorResponse("generate needs a command name")
		}
		out, err := rmlprotocol.GenerateByName(fields[0], fields[1:]...)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return NewOKResponse(out)
	}
	return NewErrorResponse(fmt.Sprintf("%v '%s'", ErrUnknownCommand, req.Name))
}
