// Package mpv launches mpv to preview a trim range and talks to it over its
// JSON IPC socket.
package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSocketPath is the Unix socket mpv is told to listen on.
var DefaultSocketPath = filepath.Join(os.TempDir(), "vidtrim-mpv.sock")

// responseTimeout bounds how long a command waits for mpv to answer.
const responseTimeout = 2 * time.Second

var (
	// ErrNotConnected is returned when a command is sent before Connect.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when nothing listens on the socket.
	ErrSocketNotFound = errors.New("mpv: socket not found, is the preview running?")

	requestID uint64
)

type ipcRequest struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

type ipcResponse struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Event     string `json:"event"`
}

// Client is an mpv IPC client. It is safe for concurrent use.
type Client struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	mu         sync.Mutex
}

// NewClient creates a client for socketPath, or DefaultSocketPath when empty.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{socketPath: socketPath}
}

// Connect dials the socket. Calling it on a connected client is a no-op.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrSocketNotFound, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close drops the connection. mpv keeps running.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

// IsConnected reports whether Connect succeeded and the connection has not failed since.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// GetTimePos returns the playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	return c.getFloat("time-pos")
}

// GetDuration returns the length of the loaded file in seconds.
func (c *Client) GetDuration() (float64, error) {
	return c.getFloat("duration")
}

// Seek jumps to an absolute position in seconds.
func (c *Client) Seek(seconds float64) error {
	_, err := c.sendCommand("seek", seconds, "absolute+exact")
	return err
}

// SetABLoop loops playback between a and b seconds.
func (c *Client) SetABLoop(a, b float64) error {
	if _, err := c.sendCommand("set_property", "ab-loop-a", a); err != nil {
		return err
	}
	_, err := c.sendCommand("set_property", "ab-loop-b", b)
	return err
}

// ClearABLoop turns looping off.
func (c *Client) ClearABLoop() error {
	if _, err := c.sendCommand("set_property", "ab-loop-a", "no"); err != nil {
		return err
	}
	_, err := c.sendCommand("set_property", "ab-loop-b", "no")
	return err
}

func (c *Client) getFloat(property string) (float64, error) {
	v, err := c.sendCommand("get_property", property)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv: %s is %T, not a number", property, v)
	}
	return f, nil
}

// sendCommand writes {"command": [...], "request_id": N} and waits for the
// reply with the same request_id, skipping events in between. A write or read
// failure closes the connection.
func (c *Client) sendCommand(command string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	id := atomic.AddUint64(&requestID, 1)
	req := ipcRequest{
		Command:   append([]any{command}, args...),
		RequestID: id,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mpv: encode %s: %w", command, err)
	}

	_ = c.conn.SetDeadline(time.Now().Add(responseTimeout))
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		c.closeLocked()
		return nil, fmt.Errorf("mpv: send %s: %w", command, err)
	}

	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			c.closeLocked()
			return nil, fmt.Errorf("mpv: read reply to %s: %w", command, err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil || resp.Event != "" {
			continue
		}
		if resp.RequestID != id {
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s: %s", command, resp.Error)
		}
		return resp.Data, nil
	}
}
