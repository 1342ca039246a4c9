// Package transport implements the paired single-socket frame transport
// (spec.md §6): a startup "hello" handshake followed by a synchronous
// reward-frame / char-frame / reply-frame loop over one net.Conn.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
)

// Conn is one paired connection to the teacher process.
type Conn struct {
	id uuid.UUID
	nc net.Conn
	r  *bufio.Reader
	w  *bufio.Writer
}

// Dial opens addr, sends the startup handshake, and returns a ready Conn.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c := newConn(nc)
	if err := c.sendHello(); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

func newConn(nc net.Conn) *Conn {
	return &Conn{
		id: uuid.New(),
		nc: nc,
		r:  bufio.NewReader(nc),
		w:  bufio.NewWriter(nc),
	}
}

// ID returns the connection's identifier, used only for log correlation.
func (c *Conn) ID() uuid.UUID { return c.id }

// Close releases the underlying net.Conn.
func (c *Conn) Close() error { return c.nc.Close() }

func (c *Conn) sendHello() error {
	if _, err := c.w.WriteString("hello\n"); err != nil {
		return fmt.Errorf("send hello frame: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("send hello frame: %w", err)
	}
	return nil
}

// ReadReward reads one reward frame and maps its payload to a reward rune:
// "1" → '+', "-1" → '-', blank → ' ' (spec.md §6).
func (c *Conn) ReadReward() (rune, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, fmt.Errorf("read reward frame: %w", err)
	}
	switch line {
	case "1":
		return '+', nil
	case "-1":
		return '-', nil
	case "":
		return ' ', nil
	default:
		return 0, fmt.Errorf("read reward frame: unexpected payload %q", line)
	}
}

// ReadChar reads one teacher character frame, exactly one rune.
func (c *Conn) ReadChar() (rune, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, fmt.Errorf("read char frame: %w", err)
	}
	runes := []rune(line)
	if len(runes) != 1 {
		return 0, fmt.Errorf("read char frame: expected exactly one char, got %q", line)
	}
	return runes[0], nil
}

// SendReply writes one reply frame, exactly one rune.
func (c *Conn) SendReply(r rune) error {
	if _, err := c.w.WriteString(string(r) + "\n"); err != nil {
		return fmt.Errorf("send reply frame: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("send reply frame: %w", err)
	}
	return nil
}

func (c *Conn) readLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
