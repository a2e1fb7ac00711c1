// Package sim synthesises CAN frames for every configured gauge so the
// cluster can run without a bus.
package sim

import (
	"math"
	"sort"
	"time"

	"m8r/cluster/bus"
	"m8r/cluster/decode"
	"m8r/internal/config"

	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultInterval is the gap between two emitted frames.
	DefaultInterval = 5 * time.Millisecond

	basePeriod = 4 * time.Second
	periodStep = 700 * time.Millisecond

	textMin = 0
	textMax = 100
)

// Options tune the simulator. Zero values pick defaults.
type Options struct {
	Interval time.Duration
	Now      func() time.Time
	Sleep    func(time.Duration)
	Logger   hclog.Logger
}

type signal struct {
	offset int
	typ    decode.ValueType
	min    float32
	max    float32
	period time.Duration
}

type frame struct {
	id       uint32
	extended bool
	length   uint8
	signals  []signal
}

// Source implements bus.Source by sweeping every value between its gauge's
// limits with a cosine wave. Frames are emitted round robin in id order.
type Source struct {
	frames   []frame
	interval time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
	log      hclog.Logger

	start  time.Time
	next   time.Time
	cursor int
	closed bool
}

func New(cfg *config.Config, opts Options) *Source {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	slots := config.SlotMap(cfg)
	ids := make([]uint32, 0, len(slots))
	for id := range slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	s := &Source{
		interval: opts.Interval,
		now:      opts.Now,
		sleep:    opts.Sleep,
		log:      opts.Logger,
	}
	n := 0
	for _, id := range ids {
		f := frame{id: id, extended: id > 0x7FF}
		for _, sl := range slots[id] {
			if sl.End > bus.MaxPayload {
				s.log.Warn("slot beyond payload, not simulated", "frame", id, "title", sl.Title)
				continue
			}
			g := cfg.Gauges[sl.Gauge]
			lo, hi := float32(textMin), float32(textMax)
			if g.Kind == config.KindDial && g.MinValue != nil && g.MaxValue != nil {
				lo, hi = *g.MinValue, *g.MaxValue
			}
			f.signals = append(f.signals, signal{
				offset: sl.Start,
				typ:    sl.Type.ValueType(),
				min:    lo,
				max:    hi,
				period: basePeriod + time.Duration(n)*periodStep,
			})
			if sl.End > int(f.length) {
				f.length = uint8(sl.End)
			}
			n++
		}
		if len(f.signals) > 0 {
			s.frames = append(s.frames, f)
		}
	}
	s.start = s.now()
	s.next = s.start
	return s
}

// ReadFrame emits the next frame once its slot in the schedule is due.
func (s *Source) ReadFrame(timeout time.Duration) (bus.Frame, error) {
	if s.closed {
		return bus.Frame{}, bus.ErrClosed
	}
	now := s.now()
	if len(s.frames) == 0 {
		s.sleep(timeout)
		return bus.Frame{}, bus.ErrTimeout
	}
	// Do not replay a backlog after a stall.
	if now.Sub(s.next) > s.interval {
		s.next = now
	}
	wait := s.next.Sub(now)
	if wait > timeout {
		s.sleep(timeout)
		return bus.Frame{}, bus.ErrTimeout
	}
	if wait > 0 {
		s.sleep(wait)
	}

	f := s.frames[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.frames)
	out := s.build(f, s.next.Sub(s.start))
	s.next = s.next.Add(s.interval)
	return out, nil
}

func (s *Source) build(f frame, at time.Duration) bus.Frame {
	out := bus.Frame{ID: f.id, Len: f.length, Extended: f.extended}
	for _, sig := range f.signals {
		v := Value(sig.min, sig.max, sig.period, at)
		if err := decode.Encode(out.Data[:f.length], sig.offset, sig.typ, v); err != nil {
			s.log.Debug("encode failed", "frame", f.id, "error", err)
		}
	}
	return out
}

// Value is the simulated reading at elapsed time at: lo at t=0, hi at half
// a period, back to lo after a full period.
func Value(lo, hi float32, period, at time.Duration) float32 {
	if period <= 0 {
		return lo
	}
	phase := 2 * math.Pi * float64(at%period) / float64(period)
	return lo + (hi-lo)*float32((1-math.Cos(phase))/2)
}

func (s *Source) Close() error {
	s.closed = true
	return nil
}
