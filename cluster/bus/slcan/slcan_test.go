package slcan

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"m8r/cluster/bus"
)

// fakePort replays scripted reads. An empty chunk behaves like a serial
// read timeout: it advances the clock and returns no data.
type fakePort struct {
	chunks  []string
	written bytes.Buffer
	timeout time.Duration
	now     time.Time
	closed  bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		p.now = p.now.Add(p.timeout)
		return 0, nil
	}
	c := p.chunks[0]
	p.chunks = p.chunks[1:]
	if c == "" {
		p.now = p.now.Add(p.timeout)
		return 0, nil
	}
	return copy(b, c), nil
}

func (p *fakePort) Write(b []byte) (int, error) { return p.written.Write(b) }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

func newTestConn(t *testing.T, chunks ...string) (*Conn, *fakePort) {
	t.Helper()
	p := &fakePort{chunks: chunks, now: time.Unix(100, 0)}
	c, err := NewConn(p, 500000, nil)
	if err != nil {
		t.Fatalf("NewConn: %v", err)
	}
	c.now = func() time.Time { return p.now }
	return c, p
}

func TestOpenSequence(t *testing.T) {
	_, p := newTestConn(t)
	if got := p.written.String(); got != "C\rS6\rO\r" {
		t.Fatalf("init=%q", got)
	}
	if _, err := NewConn(&fakePort{}, 33333, nil); err == nil {
		t.Fatal("expected error for unsupported bitrate")
	}
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		in     string
		want   bus.Frame
		remote bool
	}{
		{"t1002000A", bus.Frame{ID: 0x100, Len: 2, Data: [8]byte{0x00, 0x0A}}, false},
		{"t7FF0", bus.Frame{ID: 0x7FF}, false},
		{"T1ABCDEF18DEADBEEF00112233", bus.Frame{ID: 0x1ABCDEF1, Len: 8, Extended: true,
			Data: [8]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11, 0x22, 0x33}}, false},
		{"t10113C1234", bus.Frame{ID: 0x101, Len: 1, Data: [8]byte{0x3C}}, false}, // trailing timestamp
		{"r1232", bus.Frame{ID: 0x123, Len: 2}, true},
		{"R000001004", bus.Frame{ID: 0x100, Len: 4, Extended: true}, true},
	}
	for _, c := range cases {
		f, remote, err := ParseLine([]byte(c.in))
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", c.in, err)
		}
		if f != c.want || remote != c.remote {
			t.Fatalf("ParseLine(%q)=%+v,%v want %+v,%v", c.in, f, remote, c.want, c.remote)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, in := range []string{"", "z", "t10", "t1009", "t1002AB", "t800100", "tXYZ100", "t1001GG"} {
		if _, _, err := ParseLine([]byte(in)); err == nil {
			t.Fatalf("ParseLine(%q): expected error", in)
		}
	}
}

func TestReadFrameAcrossChunks(t *testing.T) {
	c, _ := newTestConn(t, "\r\rt10", "02003", "2\rt1011FF\r")
	f, err := c.ReadFrame(30 * time.Millisecond)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.ID != 0x100 || f.Len != 2 || f.Payload()[1] != 0x32 {
		t.Fatalf("frame=%+v", f)
	}
	f, err = c.ReadFrame(30 * time.Millisecond)
	if err != nil || f.ID != 0x101 || f.Payload()[0] != 0xFF {
		t.Fatalf("second frame=%+v err=%v", f, err)
	}
}

func TestReadFrameSkipsRemoteAndErrors(t *testing.T) {
	c, _ := newTestConn(t, "\ar1230\rjunk\rt2001AA\r")
	f, err := c.ReadFrame(time.Second)
	if err != nil || f.ID != 0x200 {
		t.Fatalf("frame=%+v err=%v", f, err)
	}
}

func TestReadFrameTimeout(t *testing.T) {
	c, p := newTestConn(t, "", "t10")
	start := p.now
	_, err := c.ReadFrame(20 * time.Millisecond)
	if !errors.Is(err, bus.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if p.now.Sub(start) < 20*time.Millisecond {
		t.Fatalf("returned early after %v", p.now.Sub(start))
	}
	if p.timeout <= 0 || p.timeout > 20*time.Millisecond {
		t.Fatalf("read timeout %v not bounded by the budget", p.timeout)
	}
}

func TestClose(t *testing.T) {
	c, p := newTestConn(t)
	p.written.Reset()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !p.closed || p.written.String() != "C\r" {
		t.Fatalf("closed=%v written=%q", p.closed, p.written.String())
	}
	if _, err := c.ReadFrame(time.Millisecond); !errors.Is(err, bus.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
