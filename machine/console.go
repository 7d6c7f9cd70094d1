package machine

import (
	"bufio"
	"io"

	tty "github.com/mattn/go-tty"
)

// A Console reads and writes one byte at a time.
type Console interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// StreamConsole is a console over a pair of streams.
type StreamConsole struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStreamConsole creates a console that reads from r and writes to w.
func NewStreamConsole(r io.Reader, w io.Writer) *StreamConsole {
	return &StreamConsole{
		in:  bufio.NewReader(r),
		out: w,
	}
}

// ReadByte blocks until one byte is available.
func (c *StreamConsole) ReadByte() (byte, error) {
	return c.in.ReadByte()
}

// WriteByte writes one byte.
func (c *StreamConsole) WriteByte(b byte) error {
	_, err := c.out.Write([]byte{b})
	return err
}

// TTYConsole is a console on the controlling terminal, in raw mode.
type TTYConsole struct {
	*StreamConsole

	tty     *tty.TTY
	restore func() error
}

// OpenTTYConsole opens the controlling terminal as a console.
func OpenTTYConsole() (*TTYConsole, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	restore, err := t.Raw()
	if err != nil {
		_ = t.Close()
		return nil, err
	}

	c := &TTYConsole{
		StreamConsole: NewStreamConsole(t.Input(), t.Output()),
		tty:           t,
		restore:       restore,
	}

	return c, nil
}

// Close restores the terminal mode and closes it.
func (c *TTYConsole) Close() error {
	if err := c.restore(); err != nil {
		_ = c.tty.Close()
		return err
	}

	return c.tty.Close()
}
