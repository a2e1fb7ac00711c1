// internal/config/config.go
package config

import (
	"fmt"

	"m8r/cluster/decode"

	"gopkg.in/yaml.v3"
)

// MaxPayload is the data length of a classic CAN frame. Slots past it are reported by Lint.
const MaxPayload = 8

type Config struct {
	Interface string    `yaml:"interface"`
	SlotSize  int       `yaml:"slot_size"`
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	FPS       int       `yaml:"fps"`
	Scale     int       `yaml:"scale"`
	ColorMode ColorMode `yaml:"color_mode"`
	Colors    *Colors   `yaml:"colors"`
	Gauges    []Gauge   `yaml:"gauges"`
}

// ---- GAUGE ----

type Gauge struct {
	FrameID    uint32    `yaml:"frame_id"`
	SlotID     int       `yaml:"slot_id"` // 1-indexed
	Kind       GaugeKind `yaml:"gauge"`
	DataType   DataType  `yaml:"data_type"`
	Title      string    `yaml:"title"`
	Unit       string    `yaml:"unit"`
	MinValue   *float32  `yaml:"min_value"`
	MaxValue   *float32  `yaml:"max_value"`
	Indicators []float32 `yaml:"indicators"`
	Digits     int       `yaml:"digits"`
	Point      Point     `yaml:"point"`
	Size       Size      `yaml:"size"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ---- COLORS ----

type Colors struct {
	Primary    RGB `yaml:"primary"`
	Background RGB `yaml:"background"`
}

type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

type ColorMode string

const (
	ColorModeDefault ColorMode = ""
	ColorModeRGB     ColorMode = "rgb"
	ColorModeBinary  ColorMode = "binary"
)

// ---- ENUMS ----

type GaugeKind uint8

const (
	KindInvalid GaugeKind = iota
	KindDial
	KindTextGauge
)

func (k GaugeKind) String() string {
	switch k {
	case KindDial:
		return "Dial"
	case KindTextGauge:
		return "TextGauge"
	default:
		return "invalid"
	}
}

func (k *GaugeKind) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "Dial":
		*k = KindDial
	case "TextGauge":
		*k = KindTextGauge
	default:
		return fmt.Errorf("line %d: unknown gauge kind %q", n.Line, s)
	}
	return nil
}

func (k GaugeKind) MarshalYAML() (any, error) { return k.String(), nil }

// DataType is the configuration form of decode.ValueType.
type DataType decode.ValueType

func (d DataType) ValueType() decode.ValueType { return decode.ValueType(d) }
func (d DataType) String() string              { return decode.ValueType(d).String() }

func (d *DataType) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	t, err := decode.ParseValueType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = DataType(t)
	return nil
}

func (d DataType) MarshalYAML() (any, error) { return d.String(), nil }

// SlotOffset converts the gauge's 1-based slot ordinal into a byte offset.
func (c *Config) SlotOffset(g Gauge) int {
	return (g.SlotID - 1) * c.SlotSize
}
