// Package app wires configuration, transport, gauges and the frame loop
// onto a HAL.
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"m8r/cluster/bus"
	"m8r/cluster/gauge"
	"m8r/cluster/gfx"
	"m8r/cluster/registry"
	"m8r/cluster/scheduler"
	"m8r/hal"
	"m8r/internal/config"

	"github.com/hashicorp/go-hclog"
)

// Options configure a cluster run.
type Options struct {
	Config *config.Config

	// MaxFrames stops after that many frames; 0 runs until quit.
	MaxFrames uint64

	// HoldOnFault keeps a startup failure on screen until quit.
	HoldOnFault bool

	// Open overrides how the frame source is opened.
	Open func(context.Context, *config.Config, hclog.Logger) (bus.Source, error)
}

var (
	defaultPrimary    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	defaultBackground = color.RGBA{A: 0xff}
)

func rgba(c config.RGB) color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

// Theme resolves the gauge palette and canvas colour mode for cfg.
func Theme(cfg *config.Config) (gauge.Palette, gfx.ColorMode) {
	pal := gauge.Palette{Primary: defaultPrimary, Background: defaultBackground}
	if cfg.Colors != nil {
		pal.Primary = rgba(cfg.Colors.Primary)
		pal.Background = rgba(cfg.Colors.Background)
	}
	if cfg.ColorMode == config.ColorModeBinary {
		return pal, gfx.ModeBinary
	}
	return pal, gfx.ModeRGB
}

// Run builds the cluster on h and runs it until quit, ctx cancellation or
// MaxFrames. Startup failures are returned after being shown on the display.
func Run(ctx context.Context, h hal.HAL, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		return errors.New("app: no configuration")
	}
	log := h.Logger()

	fb := displayFramebuffer(h)
	if fb == nil {
		return fmt.Errorf("app: display: %w", hal.ErrNotImplemented)
	}
	pal, mode := Theme(cfg)
	canvas, err := gfx.New(fb, mode)
	if err != nil {
		return fmt.Errorf("app: canvas: %w", err)
	}
	quit := keyQuit(h)

	sched, src, err := setup(ctx, cfg, canvas, pal, quit, opts, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		showFault(canvas, fb, err)
		if opts.HoldOnFault {
			waitQuit(ctx, quit)
		}
		return err
	}
	defer src.Close()

	err = sched.Run(ctx)
	st := sched.Stats()
	log.Info("stopped",
		"frames", st.Frames,
		"messages", st.Messages,
		"applied", st.Applied,
		"unbound", st.Unbound,
		"timeouts", st.Timeouts,
		"transport_errors", st.TransportErrors,
		"decode_errors", st.DecodeErrors,
	)
	return err
}

func setup(ctx context.Context, cfg *config.Config, canvas *gfx.Canvas, pal gauge.Palette, quit func() bool, opts Options, log hclog.Logger) (*scheduler.Scheduler, bus.Source, error) {
	for _, w := range config.Lint(cfg) {
		log.Named("config").Warn(w)
	}

	reg, err := registry.Build(cfg, pal)
	if err != nil {
		return nil, nil, fmt.Errorf("gauges: %w", err)
	}

	open := opts.Open
	if open == nil {
		open = OpenSource
	}
	src, err := open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("interface %q: %w", cfg.Interface, err)
	}

	sched, err := scheduler.New(reg, src, canvas, scheduler.Options{
		FPS:        cfg.FPS,
		Background: pal.Background,
		Quit:       quit,
		MaxFrames:  opts.MaxFrames,
		Logger:     log.Named("scheduler"),
	})
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	log.Info("cluster ready", "gauges", reg.Len(), "ids", len(reg.IDs()), "fps", cfg.FPS, "mode", canvas.Mode())
	return sched, src, nil
}

func displayFramebuffer(h hal.HAL) hal.Framebuffer {
	d := h.Display()
	if d == nil {
		return nil
	}
	return d.Framebuffer()
}

// keyQuit polls the keyboard without blocking: Escape or q quits.
func keyQuit(h hal.HAL) func() bool {
	var kbd hal.Keyboard
	if in := h.Input(); in != nil {
		kbd = in.Keyboard()
	}
	if kbd == nil {
		return func() bool { return false }
	}
	return func() bool {
		for {
			select {
			case ev := <-kbd.Events():
				if !ev.Press {
					continue
				}
				if ev.Code == hal.KeyEscape || ev.Rune == 'q' || ev.Rune == 'Q' {
					return true
				}
			default:
				return false
			}
		}
	}
}
