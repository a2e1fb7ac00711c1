package gfx

import (
	"image"
	"image/color"

	"m8r/internal/mathx"
)

// Line draws a straight segment with a square brush of the given width.
func (c *Canvas) Line(from, to image.Point, width int, col color.RGBA) error {
	if width <= 0 {
		return nil
	}
	px := c.pixel(col)
	lo := -(width - 1) / 2
	hi := width / 2

	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y
	dx := mathx.Abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -mathx.Abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		for by := lo; by <= hi; by++ {
			for bx := lo; bx <= hi; bx++ {
				c.set(x0+bx, y0+by, px)
			}
		}
		if x0 == x1 && y0 == y1 {
			return nil
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
