// internal/config/normalize.go
package config

const (
	DefaultFPS   = 30
	DefaultScale = 3
)

// Normalize fills defaults. It runs before Validate and never rejects anything.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}

	// Without explicit colors the cluster renders as a two-level OLED.
	if cfg.ColorMode == ColorModeDefault {
		if cfg.Colors != nil {
			cfg.ColorMode = ColorModeRGB
		} else {
			cfg.ColorMode = ColorModeBinary
		}
	}

	for i := range cfg.Gauges {
		g := &cfg.Gauges[i]
		if g.Kind == KindDial && g.Indicators == nil {
			g.Indicators = []float32{}
		}
	}
}
