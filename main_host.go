//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"m8r/app"
	"m8r/hal"
	"m8r/internal/buildinfo"
	"m8r/internal/config"

	"github.com/hashicorp/go-hclog"
)

func main() {
	var (
		configPath string
		headless   bool
		frames     uint64
		snapshot   string
		iface      string
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "./config.yaml", "Path to the cluster configuration.")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.Uint64Var(&frames, "frames", 0, "Stop after N frames (0 = run until quit).")
	flag.StringVar(&snapshot, "snapshot", "", "Write the last frame to this PNG file on exit.")
	flag.StringVar(&iface, "interface", "", "Override the configured bus interface (can0, slcan:/dev/ttyACM0@500000, sim).")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error.")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "m8r",
		Level: hclog.LevelFromString(logLevel),
	})
	logger.Info("starting", "build", buildinfo.String(), "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		fail(err)
	}
	if iface != "" {
		cfg.Interface = iface
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := hal.Options{Width: cfg.Width, Height: cfg.Height, Scale: cfg.Scale, Logger: logger}
	run := func(ctx context.Context, h hal.HAL) error {
		err := app.Run(ctx, h, app.Options{
			Config:      cfg,
			MaxFrames:   frames,
			HoldOnFault: !headless,
		})
		if snapshot != "" {
			if serr := writeSnapshot(snapshot, h); serr != nil {
				logger.Error("snapshot failed", "path", snapshot, "error", serr)
			} else {
				logger.Info("snapshot written", "path", snapshot)
			}
		}
		return err
	}

	if headless {
		h, err := hal.NewHeadless(opts)
		if err != nil {
			fail(err)
		}
		err = hal.RunHeadless(ctx, h, run)
		if err != nil {
			fail(err)
		}
		return
	}

	if err := hal.RunWindow(ctx, opts, run); err != nil {
		fail(err)
	}
}

func writeSnapshot(path string, h hal.HAL) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := hal.WritePNG(f, h.Display().Framebuffer()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
