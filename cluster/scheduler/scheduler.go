// Package scheduler runs the cluster's draw-then-drain frame loop.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"m8r/cluster/bus"
	"m8r/cluster/gauge"
	"m8r/cluster/registry"

	"github.com/hashicorp/go-hclog"
)

// Surface is the draw target: gauge primitives plus frame control.
type Surface interface {
	gauge.Canvas
	Clear(c color.RGBA) error
	Present() error
}

// Options configure a Scheduler. FPS is required.
type Options struct {
	FPS        int
	Background color.RGBA

	// Quit is polled once per frame, after drawing.
	Quit func() bool
	Now  func() time.Time

	// MaxFrames stops the loop after that many frames; 0 runs until quit.
	MaxFrames uint64
	Logger    hclog.Logger
}

// Stats are the loop counters.
type Stats struct {
	Frames          uint64
	Messages        uint64
	Applied         uint64
	Unbound         uint64
	Timeouts        uint64
	TransportErrors uint64
	DecodeErrors    uint64
}

// Scheduler owns the gauges while it runs. Everything happens on the
// goroutine that calls Run.
type Scheduler struct {
	reg    *registry.Registry
	src    bus.Source
	surf   Surface
	period time.Duration
	bg     color.RGBA
	quit   func() bool
	now    func() time.Time
	max    uint64
	log    hclog.Logger

	stats  Stats
	warned map[*registry.Binding]bool
}

func New(reg *registry.Registry, src bus.Source, surf Surface, opts Options) (*Scheduler, error) {
	if reg == nil || src == nil || surf == nil {
		return nil, errors.New("scheduler: registry, source and surface are required")
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("scheduler: invalid fps %d", opts.FPS)
	}
	if opts.Quit == nil {
		opts.Quit = func() bool { return false }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	return &Scheduler{
		reg:    reg,
		src:    src,
		surf:   surf,
		period: time.Second / time.Duration(opts.FPS),
		bg:     opts.Background,
		quit:   opts.Quit,
		now:    opts.Now,
		max:    opts.MaxFrames,
		log:    opts.Logger,
		warned: make(map[*registry.Binding]bool),
	}, nil
}

// Period is the target frame duration.
func (s *Scheduler) Period() time.Duration { return s.period }

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Run draws every gauge, checks for quit, then drains messages until the
// next frame boundary. It returns nil on quit, ctx cancellation or after
// MaxFrames, and the error of a failed draw.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Debug("starting", "period", s.period, "bindings", s.reg.Len())
	for {
		start := s.now()
		if err := s.draw(); err != nil {
			return err
		}
		s.stats.Frames++

		if s.quit() || ctx.Err() != nil {
			s.log.Debug("quit requested", "frames", s.stats.Frames)
			return nil
		}
		if s.max > 0 && s.stats.Frames >= s.max {
			return nil
		}
		s.drain(start.Add(s.period))
	}
}

func (s *Scheduler) draw() error {
	if err := s.surf.Clear(s.bg); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	err := s.reg.Each(func(b *registry.Binding) error {
		if err := b.Gauge.Draw(s.surf); err != nil {
			return fmt.Errorf("draw %q: %w", b.Gauge.Title(), err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.surf.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// drain reads messages until deadline. Timeouts and transport errors only
// end the current read; the remaining budget is re-evaluated each time.
func (s *Scheduler) drain(deadline time.Time) {
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return
		}
		f, err := s.src.ReadFrame(remaining)
		if err != nil {
			if errors.Is(err, bus.ErrTimeout) {
				s.stats.Timeouts++
				continue
			}
			s.stats.TransportErrors++
			if s.stats.TransportErrors == 1 {
				s.log.Warn("transport error", "error", err)
			} else {
				s.log.Trace("transport error", "error", err)
			}
			continue
		}
		s.stats.Messages++
		s.dispatch(f)
	}
}

func (s *Scheduler) dispatch(f bus.Frame) {
	bindings, ok := s.reg.Lookup(f.ID)
	if !ok {
		s.stats.Unbound++
		return
	}
	payload := f.Payload()
	for _, b := range bindings {
		if err := b.Apply(payload); err != nil {
			s.stats.DecodeErrors++
			if !s.warned[b] {
				s.warned[b] = true
				s.log.Warn("cannot decode slot", "id", hclog.Fmt("0x%X", f.ID), "gauge", b.Gauge.Title(), "error", err)
			}
			continue
		}
		s.stats.Applied++
	}
}
