package app

import (
	"context"
	"fmt"

	"m8r/cluster/bus"
	"m8r/cluster/bus/sim"
	"m8r/cluster/bus/slcan"
	"m8r/cluster/bus/socketcan"
	"m8r/internal/config"

	"github.com/hashicorp/go-hclog"
)

// OpenSource opens the frame source named by cfg.Interface.
func OpenSource(ctx context.Context, cfg *config.Config, logger hclog.Logger) (bus.Source, error) {
	iface, err := bus.ParseInterface(cfg.Interface)
	if err != nil {
		return nil, err
	}
	logger = logger.Named("bus")
	logger.Info("opening", "kind", iface.Kind, "interface", iface)

	switch iface.Kind {
	case bus.KindSim:
		return sim.New(cfg, sim.Options{Logger: logger}), nil
	case bus.KindSLCAN:
		c, err := slcan.Open(iface.Name, iface.Bitrate, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case bus.KindSocketCAN:
		s, err := socketcan.Open(ctx, iface.Name, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported interface %q", cfg.Interface)
	}
}
