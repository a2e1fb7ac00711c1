package gauge

import (
	"errors"
	"image"
	"image/color"
)

type primitive struct {
	kind   string // arc, line, text
	center image.Point
	radius int
	width  int
	start  float32
	sweep  float32
	from   image.Point
	to     image.Point
	text   string
	style  TextStyle
}

// recorder is a Canvas that remembers every primitive drawn onto it.
type recorder struct {
	ops    []primitive
	failAt int // fail on the n-th primitive (1-based); 0 never fails
}

var errCanvas = errors.New("canvas failure")

func (r *recorder) record(p primitive) error {
	r.ops = append(r.ops, p)
	if r.failAt > 0 && len(r.ops) == r.failAt {
		return errCanvas
	}
	return nil
}

func (r *recorder) StrokeArc(center image.Point, radius, width int, startDeg, sweepDeg float32, _ color.RGBA) error {
	return r.record(primitive{kind: "arc", center: center, radius: radius, width: width, start: startDeg, sweep: sweepDeg})
}

func (r *recorder) Line(from, to image.Point, width int, _ color.RGBA) error {
	return r.record(primitive{kind: "line", from: from, to: to, width: width})
}

func (r *recorder) Text(s string, at image.Point, style TextStyle, _ color.RGBA) error {
	return r.record(primitive{kind: "text", text: s, center: at, style: style})
}

func (r *recorder) of(kind string) []primitive {
	var out []primitive
	for _, p := range r.ops {
		if p.kind == kind {
			out = append(out, p)
		}
	}
	return out
}
