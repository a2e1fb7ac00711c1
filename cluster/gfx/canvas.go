// Package gfx draws gauge primitives into an RGB565 hal.Framebuffer.
package gfx

import (
	"errors"
	"fmt"
	"image/color"

	"m8r/cluster/gauge"
	"m8r/hal"

	"tinygo.org/x/drivers"
)

var ErrUnsupportedFormat = errors.New("gfx: unsupported pixel format")

// ColorMode selects how drawn colours reach the framebuffer.
type ColorMode uint8

const (
	// ModeRGB writes colours as given.
	ModeRGB ColorMode = iota
	// ModeBinary maps every colour onto a two-level on/off theme.
	ModeBinary
)

func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "rgb"
	case ModeBinary:
		return "binary"
	default:
		return fmt.Sprintf("ColorMode(%d)", uint8(m))
	}
}

// Binary theme colours, a blue OLED panel.
var (
	BinaryOn  = color.RGBA{R: 0x8c, G: 0xd8, B: 0xff, A: 0xff}
	BinaryOff = color.RGBA{R: 0x00, G: 0x14, B: 0x28, A: 0xff}
)

var (
	_ gauge.Canvas      = (*Canvas)(nil)
	_ drivers.Displayer = (*Canvas)(nil)
)

// Canvas implements gauge.Canvas and drivers.Displayer on top of a framebuffer.
type Canvas struct {
	fb   hal.Framebuffer
	mode ColorMode
	w, h int
}

func New(fb hal.Framebuffer, mode ColorMode) (*Canvas, error) {
	if fb == nil {
		return nil, hal.ErrNotImplemented
	}
	if fb.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, fb.Format())
	}
	if mode != ModeRGB && mode != ModeBinary {
		return nil, fmt.Errorf("gfx: unknown colour mode %d", mode)
	}
	return &Canvas{fb: fb, mode: mode, w: fb.Width(), h: fb.Height()}, nil
}

func (c *Canvas) Mode() ColorMode { return c.mode }

// Map returns the colour that actually lands in the framebuffer for col.
func (c *Canvas) Map(col color.RGBA) color.RGBA {
	if c.mode != ModeBinary {
		return col
	}
	// Rec. 601 luma, integer form.
	y := (299*int(col.R) + 587*int(col.G) + 114*int(col.B)) / 1000
	if y >= 0x80 {
		return BinaryOn
	}
	return BinaryOff
}

// Clear fills the back buffer.
func (c *Canvas) Clear(col color.RGBA) error {
	col = c.Map(col)
	c.fb.ClearRGB(col.R, col.G, col.B)
	return nil
}

// Present publishes the back buffer.
func (c *Canvas) Present() error {
	if err := c.fb.Present(); err != nil {
		return fmt.Errorf("gfx: present: %w", err)
	}
	return nil
}

func (c *Canvas) Size() (x, y int16) { return int16(c.w), int16(c.h) }

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.set(int(x), int(y), c.pixel(col))
}

func (c *Canvas) Display() error { return c.Present() }

func (c *Canvas) set(x, y int, pixel uint16) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	buf := c.fb.Buffer()
	off := y*c.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (c *Canvas) pixel(col color.RGBA) uint16 {
	return hal.RGB565FromColor(c.Map(col))
}
