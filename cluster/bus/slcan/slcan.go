// Package slcan reads CAN frames from serial adapters speaking the Lawicel
// SLCAN ASCII protocol.
package slcan

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"m8r/cluster/bus"

	"github.com/hashicorp/go-hclog"
	"go.bug.st/serial"
)

// Port is the part of a serial port the reader needs.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// maxLine bounds a single ASCII record ("T" + 8 id + 1 dlc + 16 data + 4 timestamp).
const maxLine = 64

var bitrateCodes = map[int]byte{
	10000:   '0',
	20000:   '1',
	50000:   '2',
	100000:  '3',
	125000:  '4',
	250000:  '5',
	500000:  '6',
	800000:  '7',
	1000000: '8',
}

// Conn is an open SLCAN channel. It implements bus.Source.
type Conn struct {
	port   Port
	log    hclog.Logger
	now    func() time.Time
	buf    []byte
	tmp    [64]byte
	closed bool
}

// Open opens a serial device and starts the CAN channel at bitrate.
func Open(device string, bitrate int, logger hclog.Logger) (*Conn, error) {
	if _, ok := bitrateCodes[bitrate]; !ok {
		return nil, fmt.Errorf("slcan: unsupported bitrate %d", bitrate)
	}
	// USB CDC adapters ignore the line rate.
	port, err := serial.Open(device, &serial.Mode{BaudRate: 115200})
	if err != nil {
		return nil, fmt.Errorf("slcan: open %s: %w", device, err)
	}
	c, err := NewConn(port, bitrate, logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	return c, nil
}

// NewConn configures an already open port: close channel, set bitrate, open channel.
func NewConn(port Port, bitrate int, logger hclog.Logger) (*Conn, error) {
	code, ok := bitrateCodes[bitrate]
	if !ok {
		return nil, fmt.Errorf("slcan: unsupported bitrate %d", bitrate)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Conn{port: port, log: logger, now: time.Now}
	for _, cmd := range []string{"C\r", "S" + string(code) + "\r", "O\r"} {
		if _, err := io.WriteString(port, cmd); err != nil {
			return nil, fmt.Errorf("slcan: write %q: %w", cmd[:len(cmd)-1], err)
		}
	}
	c.log.Debug("channel open", "bitrate", bitrate)
	return c, nil
}

// ReadFrame returns the next data frame, waiting at most timeout.
func (c *Conn) ReadFrame(timeout time.Duration) (bus.Frame, error) {
	if c.closed {
		return bus.Frame{}, bus.ErrClosed
	}
	deadline := c.now().Add(timeout)
	for {
		for {
			line, ok := c.nextLine()
			if !ok {
				break
			}
			f, remote, err := ParseLine(line)
			switch {
			case err != nil:
				c.log.Trace("skipping record", "line", string(line), "error", err)
			case remote:
			default:
				return f, nil
			}
		}

		remaining := deadline.Sub(c.now())
		if remaining <= 0 {
			return bus.Frame{}, bus.ErrTimeout
		}
		if err := c.port.SetReadTimeout(remaining); err != nil {
			return bus.Frame{}, fmt.Errorf("slcan: set timeout: %w", err)
		}
		n, err := c.port.Read(c.tmp[:])
		if err != nil {
			return bus.Frame{}, fmt.Errorf("slcan: read: %w", err)
		}
		c.buf = append(c.buf, c.tmp[:n]...)
	}
}

// nextLine pops one CR-terminated record off the buffer. BEL (error reply)
// and empty acknowledgements come back as empty lines and are dropped.
func (c *Conn) nextLine() ([]byte, bool) {
	for {
		i := bytes.IndexAny(c.buf, "\r\a")
		if i < 0 {
			if len(c.buf) > maxLine {
				c.log.Warn("dropping unterminated input", "bytes", len(c.buf))
				c.buf = c.buf[:0]
			}
			return nil, false
		}
		line := c.buf[:i]
		c.buf = c.buf[i+1:]
		if len(line) > 0 {
			return line, true
		}
	}
}

// Close closes the CAN channel and the port.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	_, werr := io.WriteString(c.port, "C\r")
	return errors.Join(werr, c.port.Close())
}

var errShort = errors.New("slcan: short record")

// ParseLine decodes one record without its CR. remote reports an RTR frame,
// which carries no payload.
func ParseLine(line []byte) (f bus.Frame, remote bool, err error) {
	if len(line) == 0 {
		return f, false, errShort
	}
	idLen := 3
	switch line[0] {
	case 't':
	case 'r':
		remote = true
	case 'T':
		idLen, f.Extended = 8, true
	case 'R':
		idLen, f.Extended, remote = 8, true, true
	default:
		return f, false, fmt.Errorf("slcan: unknown record %q", line[0])
	}
	if len(line) < 1+idLen+1 {
		return f, false, errShort
	}
	id, err := strconv.ParseUint(string(line[1:1+idLen]), 16, 32)
	if err != nil {
		return f, false, fmt.Errorf("slcan: id: %w", err)
	}
	if (!f.Extended && id > 0x7FF) || id > 0x1FFFFFFF {
		return f, false, fmt.Errorf("slcan: id %X out of range", id)
	}
	f.ID = uint32(id)

	dlc := line[1+idLen]
	if dlc < '0' || dlc > '8' {
		return f, false, fmt.Errorf("slcan: bad length %q", dlc)
	}
	f.Len = dlc - '0'
	if remote {
		return f, true, nil
	}

	data := line[2+idLen:]
	n := int(f.Len) * 2
	if len(data) < n {
		return f, false, errShort
	}
	// Anything after the data is an optional timestamp.
	if _, err := hex.Decode(f.Data[:], data[:n]); err != nil {
		return f, false, fmt.Errorf("slcan: data: %w", err)
	}
	return f, false, nil
}
