package gauge

import (
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	// ArcStart is the screen angle of a dial's zero point (6 o'clock).
	ArcStart float32 = 90
	// ArcRange is the full sweep of a dial face in degrees.
	ArcRange float32 = 270

	arcStroke  = 5
	ringStroke = 2
	minRadius  = 8
)

// Percentage maps v linearly onto [min, max] as 0..100. It does not clamp.
func Percentage(v, min, max float32) float32 {
	return (v - min) / (max - min) * 100
}

// Sweep converts a percentage into the arc sweep in degrees.
func Sweep(pct float32) float32 {
	return pct * ArcRange / 100
}

// TickAngle converts a percentage into the screen angle of an indicator tick.
// TickAngle(0) == ArcStart and TickAngle(100) == ArcStart+ArcRange.
func TickAngle(pct float32) float32 {
	return 360 - ((100 - pct) * ArcRange / 100)
}

// Tick is a precomputed indicator line on a dial face.
type Tick struct {
	Value float32
	Angle float32
	Inner image.Point
	Outer image.Point
}

// DialConfig describes a dial at construction time.
type DialConfig struct {
	Title      string
	Min        float32
	Max        float32
	Digits     Digits
	Bounds     image.Rectangle
	Indicators []float32
	Palette    Palette
}

// Dial is a circular gauge: a swept value arc, two boundary rings, indicator
// ticks, a title and the current value as centered text.
type Dial struct {
	title  string
	min    float32
	max    float32
	value  float32
	digits Digits

	bounds  image.Rectangle
	center  image.Point
	outer   int
	inner   int
	titleAt image.Point
	ticks   []Tick
	pal     Palette
}

var errDialTooSmall = errors.New("dial bounds too small")

// NewDial builds a dial and computes its static geometry. The dial occupies the
// largest square anchored at the top-left corner of cfg.Bounds. The initial
// value is cfg.Min.
func NewDial(cfg DialConfig) (*Dial, error) {
	if cfg.Max == cfg.Min {
		return nil, fmt.Errorf("dial %q: min and max must differ", cfg.Title)
	}
	if cfg.Digits > DigitsTwo {
		return nil, fmt.Errorf("dial %q: invalid digits %d", cfg.Title, cfg.Digits)
	}

	side := cfg.Bounds.Dx()
	if cfg.Bounds.Dy() < side {
		side = cfg.Bounds.Dy()
	}
	outer := side/2 - 4
	if outer < minRadius {
		return nil, fmt.Errorf("dial %q: %w (%dx%d)", cfg.Title, errDialTooSmall, cfg.Bounds.Dx(), cfg.Bounds.Dy())
	}

	d := &Dial{
		title:  cfg.Title,
		min:    cfg.Min,
		max:    cfg.Max,
		value:  cfg.Min,
		digits: cfg.Digits,
		bounds: image.Rectangle{Min: cfg.Bounds.Min, Max: cfg.Bounds.Min.Add(image.Pt(side, side))},
		outer:  outer,
		inner:  outer * 6 / 7,
		pal:    cfg.Palette,
	}
	d.center = d.bounds.Min.Add(image.Pt(side/2, side/2))
	d.titleAt = image.Pt(d.center.X, d.center.Y-outer*5/14)

	d.ticks = make([]Tick, 0, len(cfg.Indicators)+2)
	d.addTick(cfg.Min)
	d.addTick(cfg.Max)
	for _, v := range cfg.Indicators {
		d.addTick(v)
	}
	return d, nil
}

func (d *Dial) addTick(v float32) {
	angle := TickAngle(Percentage(v, d.min, d.max))
	d.ticks = append(d.ticks, Tick{
		Value: v,
		Angle: angle,
		Inner: polar(d.center, d.inner, angle),
		Outer: polar(d.center, d.outer-1, angle),
	})
}

func polar(center image.Point, r int, deg float32) image.Point {
	rad := float64(deg) * math.Pi / 180
	return image.Pt(
		center.X+int(math.Round(float64(r)*math.Cos(rad))),
		center.Y+int(math.Round(float64(r)*math.Sin(rad))),
	)
}

func (d *Dial) SetValue(v float32) { d.value = v }
func (d *Dial) Value() float32     { return d.value }
func (d *Dial) Title() string      { return d.title }

// Percentage of the current value within [min, max].
func (d *Dial) Percentage() float32 { return Percentage(d.value, d.min, d.max) }

// Sweep of the value arc for the current value, in degrees.
func (d *Dial) Sweep() float32 { return Sweep(d.Percentage()) }

// Ticks returns the indicator ticks: min, max, then configured indicators.
func (d *Dial) Ticks() []Tick { return d.ticks }

func (d *Dial) Center() image.Point       { return d.center }
func (d *Dial) Radii() (outer, inner int) { return d.outer, d.inner }
func (d *Dial) Bounds() image.Rectangle   { return d.bounds }

func (d *Dial) Draw(c Canvas) error {
	fg := d.pal.Primary

	if err := c.StrokeArc(d.center, d.outer, arcStroke, ArcStart, d.Sweep(), fg); err != nil {
		return err
	}
	if err := c.Text(FormatValue(d.value, d.digits), d.center, TextStyle{Font: FontLarge, Align: AlignCenter}, fg); err != nil {
		return err
	}
	if err := c.Text(d.title, d.titleAt, TextStyle{Font: FontSmall, Align: AlignCenter}, fg); err != nil {
		return err
	}

	for _, r := range [...]int{d.outer, d.inner} {
		if err := c.StrokeArc(d.center, r, ringStroke, ArcStart, ArcRange, fg); err != nil {
			return err
		}
	}
	for _, t := range d.ticks {
		if err := c.Line(t.Inner, t.Outer, ringStroke, fg); err != nil {
			return err
		}
	}
	return nil
}
