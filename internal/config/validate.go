// internal/config/validate.go
package config

import (
	"fmt"
	"math"

	"m8r/cluster/bus"

	"github.com/hashicorp/go-multierror"
)

// Validate checks configuration correctness and reports every problem found.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if cfg.Interface == "" {
		fail("interface is required")
	} else if _, err := bus.ParseInterface(cfg.Interface); err != nil {
		fail("interface: %v", err)
	}
	if cfg.SlotSize <= 0 {
		fail("slot_size must be > 0 (got %d)", cfg.SlotSize)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		fail("display size must be positive (got %dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.FPS < 1 || cfg.FPS > 1000 {
		fail("fps must be within 1..1000 (got %d)", cfg.FPS)
	}
	if cfg.Scale < 1 {
		fail("scale must be >= 1 (got %d)", cfg.Scale)
	}

	switch cfg.ColorMode {
	case ColorModeRGB, ColorModeBinary:
	default:
		fail("color_mode must be %q or %q (got %q)", ColorModeRGB, ColorModeBinary, cfg.ColorMode)
	}

	if len(cfg.Gauges) == 0 {
		fail("at least one gauge is required")
	}

	for i, g := range cfg.Gauges {
		name := fmt.Sprintf("gauge %d (%q)", i, g.Title)

		if g.SlotID < 1 {
			fail("%s: slot_id is 1-based (got %d)", name, g.SlotID)
		}
		if !g.DataType.ValueType().Valid() {
			fail("%s: data_type is required", name)
		}
		if g.Digits < 0 || g.Digits > 2 {
			fail("%s: digits must be 0, 1 or 2 (got %d)", name, g.Digits)
		}
		if g.Size.Width <= 0 || g.Size.Height <= 0 {
			fail("%s: size must be positive (got %dx%d)", name, g.Size.Width, g.Size.Height)
		}

		switch g.Kind {
		case KindDial:
			if g.MinValue == nil {
				fail("%s: Dial requires min_value", name)
			}
			if g.MaxValue == nil {
				fail("%s: Dial requires max_value", name)
			}
			if g.MinValue != nil && !finite(*g.MinValue) {
				fail("%s: min_value must be finite (got %v)", name, *g.MinValue)
			}
			if g.MaxValue != nil && !finite(*g.MaxValue) {
				fail("%s: max_value must be finite (got %v)", name, *g.MaxValue)
			}
			if g.MinValue != nil && g.MaxValue != nil && *g.MinValue == *g.MaxValue {
				fail("%s: min_value and max_value must differ", name)
			}
			for _, v := range g.Indicators {
				if !finite(v) {
					fail("%s: indicators must be finite (got %v)", name, v)
				}
			}
		case KindTextGauge:
		default:
			fail("%s: gauge kind is required", name)
		}
	}

	return result.ErrorOrNil()
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
