// Package socketcan reads frames from a Linux SocketCAN interface.
package socketcan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"m8r/cluster/bus"

	"github.com/hashicorp/go-hclog"
	"go.einride.tech/can/pkg/socketcan"
)

// Conn is the subset of net.Conn the reader needs.
type Conn interface {
	io.ReadCloser
	SetReadDeadline(t time.Time) error
}

// Source implements bus.Source over a raw CAN socket.
type Source struct {
	conn Conn
	rx   *socketcan.Receiver
	log  hclog.Logger
	now  func() time.Time

	errorFrames uint64
}

// Open binds a raw CAN socket to the named interface, e.g. "can0".
func Open(ctx context.Context, iface string, logger hclog.Logger) (*Source, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan: open %s: %w", iface, err)
	}
	return NewSource(conn, logger), nil
}

// NewSource wraps an already open connection.
func NewSource(conn Conn, logger hclog.Logger) *Source {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Source{
		conn: conn,
		rx:   socketcan.NewReceiver(conn),
		log:  logger,
		now:  time.Now,
	}
}

// ReadFrame returns the next data frame, waiting at most timeout. Remote and
// error frames are skipped.
func (s *Source) ReadFrame(timeout time.Duration) (bus.Frame, error) {
	deadline := s.now().Add(timeout)
	for {
		if !deadline.After(s.now()) {
			return bus.Frame{}, bus.ErrTimeout
		}
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return bus.Frame{}, classify("set deadline", err)
		}
		if !s.rx.Receive() {
			err := s.rx.Err()
			if errors.Is(err, os.ErrDeadlineExceeded) {
				// Receiver errors are sticky; a fresh one resumes on the next
				// datagram.
				s.rx = socketcan.NewReceiver(s.conn)
			}
			return bus.Frame{}, classify("receive", err)
		}
		if s.rx.HasErrorFrame() {
			s.errorFrames++
			s.log.Debug("error frame", "frame", s.rx.ErrorFrame())
			continue
		}
		f := s.rx.Frame()
		if f.IsRemote {
			continue
		}
		return bus.Frame{ID: f.ID, Len: f.Length, Data: [8]byte(f.Data), Extended: f.IsExtended}, nil
	}
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		return bus.ErrTimeout
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return bus.ErrClosed
	default:
		return fmt.Errorf("socketcan: %s: %w", op, err)
	}
}

// ErrorFrames reports how many bus error frames were skipped.
func (s *Source) ErrorFrames() uint64 { return s.errorFrames }

func (s *Source) Close() error {
	return s.conn.Close()
}
