package gauge

import (
	"image"
	"image/color"
)

// Gauge is the capability set shared by every widget kind.
type Gauge interface {
	Draw(c Canvas) error
	SetValue(v float32)
	Value() float32
	Title() string
}

// Canvas is the draw target a gauge renders onto.
//
// Implementations clip out-of-bounds pixels. Errors are fatal to the caller.
type Canvas interface {
	// StrokeArc draws an arc of the given stroke width lying inside radius,
	// from startDeg sweeping sweepDeg (negative sweeps run counter-clockwise).
	StrokeArc(center image.Point, radius, width int, startDeg, sweepDeg float32, c color.RGBA) error
	Line(from, to image.Point, width int, c color.RGBA) error
	Text(s string, at image.Point, style TextStyle, c color.RGBA) error
}

// Font selects one of the canvas fonts.
type Font uint8

const (
	FontSmall Font = iota
	FontMedium
	FontLarge
)

// Align is the horizontal anchor of a text run.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle positions a text run relative to its anchor point.
// The anchor's y is always the vertical middle of the run.
type TextStyle struct {
	Font  Font
	Align Align
}

// Palette holds the colors a gauge draws with.
type Palette struct {
	Primary    color.RGBA
	Background color.RGBA
}
