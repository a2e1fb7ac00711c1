package config

import (
	"math"
	"strings"
	"testing"

	"m8r/cluster/decode"

	"github.com/hashicorp/go-multierror"
)

func f32(v float32) *float32 { return &v }

// helper to build a minimal valid config quickly
func validConfig() *Config {
	return &Config{
		Interface: "can0",
		SlotSize:  2,
		Width:     320,
		Height:    240,
		FPS:       30,
		Scale:     1,
		ColorMode: ColorModeBinary,
		Gauges: []Gauge{
			{
				FrameID:    100,
				SlotID:     1,
				Kind:       KindDial,
				DataType:   DataType(decode.U16),
				Title:      "Boost",
				MinValue:   f32(0),
				MaxValue:   f32(100),
				Indicators: []float32{},
				Size:       Size{Width: 120, Height: 120},
			},
		},
	}
}

// ---- tests ----

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DialRequiresRange(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges[0].MinValue = nil
	cfg.Gauges[0].MaxValue = nil

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(merr.Errors), err)
	}
	if !strings.Contains(err.Error(), "min_value") || !strings.Contains(err.Error(), "max_value") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidate_DialEqualRange(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges[0].MaxValue = f32(0)
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestValidate_DialNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	cases := map[string]func(g *Gauge){
		"min_value":  func(g *Gauge) { g.MinValue = &nan },
		"max_value":  func(g *Gauge) { g.MaxValue = &inf },
		"indicators": func(g *Gauge) { g.Indicators = []float32{50, -inf} },
	}
	for field, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg.Gauges[0])
		err := Validate(cfg)
		if err == nil || !strings.Contains(err.Error(), field+" must be finite") {
			t.Fatalf("%s: expected finiteness error, got %v", field, err)
		}
	}
}

func TestParse_DialNonFinite(t *testing.T) {
	for _, repl := range [][2]string{
		{"min_value: 0", "min_value: .nan"},
		{"max_value: 100", "max_value: .inf"},
	} {
		doc := strings.Replace(sample, repl[0], repl[1], 1)
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", repl[1])
		}
	}
}

func TestValidate_TextGaugeNeedsNoRange(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges[0].Kind = KindTextGauge
	cfg.Gauges[0].MinValue = nil
	cfg.Gauges[0].MaxValue = nil
	cfg.Gauges[0].Indicators = nil
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsEverything(t *testing.T) {
	cfg := validConfig()
	cfg.Interface = ""
	cfg.SlotSize = 0
	cfg.Gauges[0].SlotID = 0
	cfg.Gauges[0].Digits = 3

	err := Validate(cfg)
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T (%v)", err, err)
	}
	if len(merr.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(merr.Errors), err)
	}
}

func TestValidate_MissingKindAndType(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges[0].Kind = KindInvalid
	cfg.Gauges[0].DataType = 0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "data_type") || !strings.Contains(err.Error(), "gauge kind") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidate_Interface(t *testing.T) {
	for _, iface := range []string{"sim", "vcan0", "slcan:/dev/ttyACM0@250000"} {
		cfg := validConfig()
		cfg.Interface = iface
		if err := Validate(cfg); err != nil {
			t.Fatalf("%q: unexpected error: %v", iface, err)
		}
	}
	cfg := validConfig()
	cfg.Interface = "slcan:/dev/ttyACM0@fast"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "interface") {
		t.Fatalf("expected interface error, got %v", err)
	}
}

func TestValidate_NoGauges(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges = nil
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestLint_SlotBeyondPayload(t *testing.T) {
	cfg := validConfig()
	cfg.Gauges[0].SlotID = 4 // bytes 6-7: fits
	if f := Lint(cfg); len(f) != 0 {
		t.Fatalf("unexpected findings: %v", f)
	}

	cfg.Gauges[0].SlotID = 5 // bytes 8-9: past the payload
	f := Lint(cfg)
	if len(f) != 1 || !strings.Contains(f[0], "beyond") {
		t.Fatalf("expected one beyond-payload finding, got %v", f)
	}
}

func TestLint_Overlap(t *testing.T) {
	cfg := validConfig()
	cfg.SlotSize = 1
	second := cfg.Gauges[0]
	second.Title = "Shadow"
	second.SlotID = 2 // U16 at byte 1 overlaps U16 at byte 0
	cfg.Gauges = append(cfg.Gauges, second)

	f := Lint(cfg)
	if len(f) != 1 || !strings.Contains(f[0], "overlap") {
		t.Fatalf("expected one overlap finding, got %v", f)
	}

	// Same offsets in different frames do not overlap.
	cfg.Gauges[1].FrameID = 200
	if f := Lint(cfg); len(f) != 0 {
		t.Fatalf("unexpected findings: %v", f)
	}
}

func TestSlotMapOrder(t *testing.T) {
	cfg := validConfig()
	g := cfg.Gauges[0]
	g.SlotID = 3
	g.Title = "Second"
	cfg.Gauges = append(cfg.Gauges, g)

	slots := SlotMap(cfg)[100]
	if len(slots) != 2 || slots[0].Title != "Boost" || slots[1].Title != "Second" {
		t.Fatalf("unexpected slot order: %+v", slots)
	}
	if slots[1].Start != 4 || slots[1].End != 6 {
		t.Fatalf("unexpected slot range: %+v", slots[1])
	}
}
