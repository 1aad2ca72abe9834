package service

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// DisconnectHandler is called when the connection is lost.
type DisconnectHandler func(err error)

// Client is a Unix domain socket client for a translator Server.
//
// Thread Safety:
// The client uses a mutex to protect its state and is safe for concurrent
// use from multiple goroutines. Requests are answered in order, so callers
// share one pending response slot and must not pipeline.
type Client struct {
	mu sync.Mutex
	// sendMu serializes request/response pairs.
	sendMu sync.Mutex

	conn          net.Conn
	connectedPath string
	isConnected   bool

	reader *bufio.Reader

	pendingResponse chan responseResult

	disconnectHandler DisconnectHandler
	logger            *slog.Logger

	cancelReader context.CancelFunc
	readerDone   chan struct{}
}

type responseResult struct {
	response Response
	err      error
}

// NewClient creates a new socket client.
func NewClient() *Client {
	return &Client{logger: slog.Default()}
}

// SetDisconnectHandler sets the callback for disconnection events.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectHandler = handler
}

// IsConnected returns true if the client is currently connected.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// ConnectedPath returns the path of the connected socket, or "".
func (c *Client) ConnectedPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectedPath
}

// Connect connects to a server socket.
func (c *Client) Connect(path string) error {
	return c.ConnectWithContext(context.Background(), path)
}

// ConnectWithContext connects to a server socket and verifies it answers
// a ping.
func (c *Client) ConnectWithContext(ctx context.Context, path string) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	connectCtx, cancel := context.WithTimeout(ctx, ConnectionTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(connectCtx, "unix", path)
	if err != nil {
		return NewConnectionError("failed to connect", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connectedPath = path
	c.isConnected = true
	c.reader = bufio.NewReader(conn)
	c.pendingResponse = make(chan responseResult, 1)

	readerCtx, cancelReader := context.WithCancel(context.Background())
	c.cancelReader = cancelReader
	c.readerDone = make(chan struct{})
	go c.readerLoop(readerCtx)
	c.mu.Unlock()

	pingCtx, pingCancel := context.WithTimeout(ctx, PingTimeout)
	defer pingCancel()

	resp, err := c.SendWithContext(pingCtx, Request{Name: "ping"})
	if err != nil {
		c.Disconnect()
		return NewConnectionError("ping failed", err)
	}
	if !resp.IsOK() || resp.Data != "pong" {
		c.Disconnect()
		return NewConnectionError("server ping failed", nil)
	}
	return nil
}

// DiscoverAndConnect connects to the most recently started server.
func (c *Client) DiscoverAndConnect(ctx context.Context) error {
	socketPath := DiscoverSocket()
	if socketPath == "" {
		return ErrSocketNotFound
	}
	return c.ConnectWithContext(ctx, socketPath)
}

// Disconnect closes the connection. It is a no-op when not connected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	if c.cancelReader != nil {
		c.cancelReader()
	}
	done := c.readerDone
	c.mu.Unlock()

	// wait outside the lock, the reader takes it on exit
	if done != nil {
		<-done
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.pendingResponse = nil
	c.connectedPath = ""
	c.reader = nil
	c.cancelReader = nil
	c.readerDone = nil
	c.mu.Unlock()
}

// Send sends a request and waits up to CommandTimeout for the response.
func (c *Client) Send(req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()
	return c.SendWithContext(ctx, req)
}

// SendWithContext sends a request with a context for cancellation.
func (c *Client) SendWithContext(ctx context.Context, req Request) (Response, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return Response{}, ErrNotConnected
	}
	conn := c.conn
	pendingChan := c.pendingResponse
	c.mu.Unlock()

	if _, err := conn.Write([]byte(req.FormatLine())); err != nil {
		return Response{}, NewConnectionError("failed to send command", err)
	}

	select {
	case result := <-pendingChan:
		return result.response, result.err
	case <-ctx.Done():
		return Response{}, ErrTimeout
	}
}

// SendRaw sends a raw request line without the CMD: prefix.
func (c *Client) SendRaw(commandLine string) (Response, error) {
	req, err := ParseRequest(commandLine)
	if err != nil {
		return Response{}, err
	}
	return c.Send(req)
}

// Describe asks the server to describe a single command token.
func (c *Client) Describe(token string) (string, error) {
	resp, err := c.Send(Request{Name: "describe", Args: token})
	if err != nil {
		return "", err
	}
	return resp.Data, resp.Err()
}

// Translate asks the server to describe every command of text.
func (c *Client) Translate(text string) ([]string, error) {
	resp, err := c.Send(NewRequest("translate", strings.TrimRight(text, "\r\n")))
	if err != nil {
		return nil, err
	}
	return resp.Lines(), resp.Err()
}

// Generate asks the server to build a command by name.
func (c *Client) Generate(name string, args ...string) (string, error) {
	resp, err := c.Send(NewRequest("generate", append([]string{name}, args...)...))
	if err != nil {
		return "", err
	}
	return resp.Data, resp.Err()
}

// SetLocale changes the description language of this connection.
func (c *Client) SetLocale(locale string) error {
	resp, err := c.Send(Request{Name: "locale", Args: locale})
	if err != nil {
		return err
	}
	return resp.Err()
}

// readerLoop reads the socket and hands each response to the pending
// request.
func (c *Client) readerLoop(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		if c.readerDone != nil {
			close(c.readerDone)
		}
		c.mu.Unlock()
	}()

	var partial strings.Builder
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// short deadline so cancellation is noticed
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		reader := c.reader
		c.mu.Unlock()

		chunk, err := reader.ReadString('\n')
		partial.WriteString(chunk)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			c.handleDisconnect(err)
			return
		}

		c.processLine(partial.String())
		partial.Reset()
	}
}

func (c *Client) processLine(line string) {
	resp, err := ParseResponse(line)
	if err != nil {
		c.logger.Warn("failed to parse response", "err", err)
		return
	}

	c.mu.Lock()
	pendingChan := c.pendingResponse
	c.mu.Unlock()

	if pendingChan != nil {
		select {
		case pendingChan <- responseResult{response: resp}:
		default:
			c.logger.Debug("response without request", "data", resp.Data)
		}
	}
}

func (c *Client) handleDisconnect(err error) {
	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	handler := c.disconnectHandler
	pendingChan := c.pendingResponse
	c.mu.Unlock()

	if pendingChan != nil {
		select {
		case pendingChan <- responseResult{err: NewConnectionError("disconnected", err)}:
		default:
		}
	}
	if handler != nil {
		handler(err)
	}
}
