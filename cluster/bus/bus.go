// Package bus defines the frame source contract shared by the CAN transports.
package bus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxPayload is the classic CAN data length.
const MaxPayload = 8

// ErrTimeout is returned by ReadFrame when nothing arrived in time.
var ErrTimeout = errors.New("bus: read timeout")

// ErrClosed is returned by ReadFrame after Close.
var ErrClosed = errors.New("bus: source closed")

// Frame is a classic CAN data frame.
type Frame struct {
	ID       uint32
	Len      uint8
	Data     [MaxPayload]byte
	Extended bool
}

// Payload returns the valid data bytes.
func (f Frame) Payload() []byte {
	n := int(f.Len)
	if n > MaxPayload {
		n = MaxPayload
	}
	return f.Data[:n]
}

func (f Frame) String() string {
	if f.Extended {
		return fmt.Sprintf("%08X#% X", f.ID, f.Payload())
	}
	return fmt.Sprintf("%03X#% X", f.ID, f.Payload())
}

// Source yields frames. ReadFrame waits at most timeout and returns
// ErrTimeout when nothing arrived; any other error is a transport error.
// A Source is used from a single goroutine.
type Source interface {
	ReadFrame(timeout time.Duration) (Frame, error)
	Close() error
}

// Kind is the transport family named by an interface string.
type Kind uint8

const (
	KindSocketCAN Kind = iota + 1
	KindSLCAN
	KindSim
)

func (k Kind) String() string {
	switch k {
	case KindSocketCAN:
		return "socketcan"
	case KindSLCAN:
		return "slcan"
	case KindSim:
		return "sim"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// DefaultBitrate is used for serial adapters when the interface string has none.
const DefaultBitrate = 500000

// Interface is a parsed interface string.
type Interface struct {
	Kind    Kind
	Name    string // network interface or serial device path
	Bitrate int    // SLCAN only
}

// ParseInterface accepts "sim", "slcan:<device>[@bitrate]" and a SocketCAN
// network interface name such as "can0" or "vcan0".
func ParseInterface(s string) (Interface, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Interface{}, errors.New("bus: empty interface")
	case s == "sim":
		return Interface{Kind: KindSim, Name: s}, nil
	case strings.HasPrefix(s, "slcan:"):
		rest := strings.TrimPrefix(s, "slcan:")
		dev, rate, hasRate := strings.Cut(rest, "@")
		if dev == "" {
			return Interface{}, fmt.Errorf("bus: %q: missing serial device", s)
		}
		bitrate := DefaultBitrate
		if hasRate {
			n, err := strconv.Atoi(rate)
			if err != nil || n <= 0 {
				return Interface{}, fmt.Errorf("bus: %q: invalid bitrate %q", s, rate)
			}
			bitrate = n
		}
		return Interface{Kind: KindSLCAN, Name: dev, Bitrate: bitrate}, nil
	case strings.ContainsAny(s, " /:@"):
		return Interface{}, fmt.Errorf("bus: invalid interface name %q", s)
	default:
		return Interface{Kind: KindSocketCAN, Name: s}, nil
	}
}

func (i Interface) String() string {
	switch i.Kind {
	case KindSLCAN:
		return fmt.Sprintf("slcan:%s@%d", i.Name, i.Bitrate)
	default:
		return i.Name
	}
}
