package gauge

import (
	"fmt"
	"image"
)

const textPad = 4

// TextConfig describes a text gauge at construction time.
type TextConfig struct {
	Title   string
	Unit    string
	Digits  Digits
	Bounds  image.Rectangle
	Palette Palette
}

// TextGauge shows a left-aligned title and a right-aligned value with unit.
type TextGauge struct {
	title  string
	unit   string
	value  float32
	digits Digits

	bounds  image.Rectangle
	titleAt image.Point
	valueAt image.Point
	pal     Palette
}

func NewTextGauge(cfg TextConfig) (*TextGauge, error) {
	if cfg.Digits > DigitsTwo {
		return nil, fmt.Errorf("text gauge %q: invalid digits %d", cfg.Title, cfg.Digits)
	}
	if cfg.Bounds.Empty() {
		return nil, fmt.Errorf("text gauge %q: empty bounds", cfg.Title)
	}

	midY := cfg.Bounds.Min.Y + cfg.Bounds.Dy()/2
	return &TextGauge{
		title:   cfg.Title,
		unit:    cfg.Unit,
		digits:  cfg.Digits,
		bounds:  cfg.Bounds,
		titleAt: image.Pt(cfg.Bounds.Min.X+textPad, midY),
		valueAt: image.Pt(cfg.Bounds.Max.X-textPad, midY),
		pal:     cfg.Palette,
	}, nil
}

func (g *TextGauge) SetValue(v float32) { g.value = v }
func (g *TextGauge) Value() float32     { return g.value }
func (g *TextGauge) Title() string      { return g.title }

// Text returns the value string as drawn, unit included.
func (g *TextGauge) Text() string {
	s := FormatValue(g.value, g.digits)
	if g.unit == "" {
		return s
	}
	return s + " " + g.unit
}

func (g *TextGauge) Draw(c Canvas) error {
	fg := g.pal.Primary
	if err := c.Text(g.title, g.titleAt, TextStyle{Font: FontMedium, Align: AlignLeft}, fg); err != nil {
		return err
	}
	return c.Text(g.Text(), g.valueAt, TextStyle{Font: FontMedium, Align: AlignRight}, fg)
}
