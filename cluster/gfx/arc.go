package gfx

import (
	"image"
	"image/color"
	"math"

	"m8r/internal/mathx"
)

// angleEps absorbs float noise at the arc end points.
const angleEps = 1e-3

// StrokeArc draws a ring segment of the given stroke width whose outer edge
// lies on radius. Angles are in degrees, clockwise from +x with y down. A
// negative sweep runs counter-clockwise; |sweep| >= 360 draws the full ring.
func (c *Canvas) StrokeArc(center image.Point, radius, width int, startDeg, sweepDeg float32, col color.RGBA) error {
	if radius <= 0 || width <= 0 || !finite(startDeg) || !finite(sweepDeg) || sweepDeg == 0 {
		return nil
	}
	full := math.Abs(float64(sweepDeg)) >= 360
	start := mathx.Wrap(float64(startDeg), 360)
	sweep := float64(sweepDeg)

	inner := radius - width
	outer2 := radius*radius + radius
	inner2 := -1
	if inner > 0 {
		inner2 = inner*inner + inner
	}

	x0 := mathx.Max(center.X-radius, 0)
	x1 := mathx.Min(center.X+radius, c.w-1)
	y0 := mathx.Max(center.Y-radius, 0)
	y1 := mathx.Min(center.Y+radius, c.h-1)
	px := c.pixel(col)

	for y := y0; y <= y1; y++ {
		dy := y - center.Y
		for x := x0; x <= x1; x++ {
			dx := x - center.X
			d2 := dx*dx + dy*dy
			if d2 > outer2 || d2 <= inner2 {
				continue
			}
			if !full && !inSweep(dx, dy, start, sweep) {
				continue
			}
			c.set(x, y, px)
		}
	}
	return nil
}

func inSweep(dx, dy int, start, sweep float64) bool {
	a := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
	if sweep > 0 {
		return mathx.Wrap(a-start+angleEps, 360) <= sweep+2*angleEps
	}
	return mathx.Wrap(start-a+angleEps, 360) <= -sweep+2*angleEps
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
