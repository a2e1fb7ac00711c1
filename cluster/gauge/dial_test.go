package gauge

import (
	"errors"
	"image"
	"math"
	"testing"
)

func newTestDial(t *testing.T, min, max float32, indicators ...float32) *Dial {
	t.Helper()
	d, err := NewDial(DialConfig{
		Title:      "Boost",
		Min:        min,
		Max:        max,
		Digits:     DigitsOne,
		Bounds:     image.Rect(0, 0, 120, 120),
		Indicators: indicators,
	})
	if err != nil {
		t.Fatalf("NewDial: %v", err)
	}
	return d
}

func TestSweepEndpoints(t *testing.T) {
	d := newTestDial(t, 0, 100)
	d.SetValue(0)
	if got := d.Sweep(); got != 0 {
		t.Fatalf("sweep(min)=%v want 0", got)
	}
	d.SetValue(100)
	if got := d.Sweep(); got != ArcRange {
		t.Fatalf("sweep(max)=%v want %v", got, ArcRange)
	}
	d.SetValue(50)
	if got := d.Sweep(); got != 135 {
		t.Fatalf("sweep(50)=%v want 135", got)
	}
}

func TestSweepMonotonic(t *testing.T) {
	for _, r := range [][2]float32{{0, 100}, {-40, 150}, {0.5, 8}} {
		d := newTestDial(t, r[0], r[1])
		prev := float32(-1)
		for i := 0; i <= 200; i++ {
			v := r[0] + (r[1]-r[0])*float32(i)/200
			d.SetValue(v)
			s := d.Sweep()
			if s < prev {
				t.Fatalf("range %v: sweep decreased at v=%v (%v < %v)", r, v, s, prev)
			}
			prev = s
		}
		if math.Abs(float64(prev-ArcRange)) > 1e-3 {
			t.Fatalf("range %v: sweep(max)=%v", r, prev)
		}
	}
}

func TestSweepNotClamped(t *testing.T) {
	d := newTestDial(t, 0, 100)
	d.SetValue(-10)
	if got := d.Sweep(); got >= 0 {
		t.Fatalf("expected negative sweep below min, got %v", got)
	}
	d.SetValue(110)
	if got := d.Sweep(); got <= ArcRange {
		t.Fatalf("expected sweep past range above max, got %v", got)
	}
}

func TestTickAnglesMatchArcEnds(t *testing.T) {
	d := newTestDial(t, 20, 120, 70)
	ticks := d.Ticks()
	if len(ticks) != 3 {
		t.Fatalf("expected min, max and one indicator tick, got %d", len(ticks))
	}
	if ticks[0].Value != 20 || ticks[0].Angle != ArcStart {
		t.Fatalf("min tick %+v, want angle %v", ticks[0], ArcStart)
	}
	if ticks[1].Value != 120 || ticks[1].Angle != ArcStart+ArcRange {
		t.Fatalf("max tick %+v, want angle %v", ticks[1], ArcStart+ArcRange)
	}
	if ticks[2].Angle != ArcStart+ArcRange/2 {
		t.Fatalf("mid tick angle %v", ticks[2].Angle)
	}

	// The tick for any value lands where the arc for that value ends.
	for _, v := range []float32{20, 45, 70, 120} {
		pct := Percentage(v, 20, 120)
		if diff := TickAngle(pct) - (ArcStart + Sweep(pct)); math.Abs(float64(diff)) > 1e-3 {
			t.Fatalf("v=%v: tick and arc end differ by %v", v, diff)
		}
	}
}

func TestTickGeometry(t *testing.T) {
	d := newTestDial(t, 0, 100)
	outer, inner := d.Radii()
	if outer != 56 || inner != 48 {
		t.Fatalf("radii=%d/%d want 56/48", outer, inner)
	}
	if c := d.Center(); c != image.Pt(60, 60) {
		t.Fatalf("center=%v", c)
	}

	ticks := d.Ticks()
	// min tick points straight down (90°), max tick straight right (360°).
	if ticks[0].Inner != image.Pt(60, 108) || ticks[0].Outer != image.Pt(60, 115) {
		t.Fatalf("min tick %+v", ticks[0])
	}
	if ticks[1].Inner != image.Pt(108, 60) || ticks[1].Outer != image.Pt(115, 60) {
		t.Fatalf("max tick %+v", ticks[1])
	}
}

func TestDialUsesSquareBounds(t *testing.T) {
	d, err := NewDial(DialConfig{Title: "x", Min: 0, Max: 1, Bounds: image.Rect(100, 10, 300, 130)})
	if err != nil {
		t.Fatalf("NewDial: %v", err)
	}
	if b := d.Bounds(); b != image.Rect(100, 10, 220, 130) {
		t.Fatalf("bounds=%v", b)
	}
	if c := d.Center(); c != image.Pt(160, 70) {
		t.Fatalf("center=%v", c)
	}
}

func TestNewDialErrors(t *testing.T) {
	if _, err := NewDial(DialConfig{Min: 5, Max: 5, Bounds: image.Rect(0, 0, 120, 120)}); err == nil {
		t.Fatal("expected error for empty range")
	}
	_, err := NewDial(DialConfig{Min: 0, Max: 1, Bounds: image.Rect(0, 0, 10, 10)})
	if !errors.Is(err, errDialTooSmall) {
		t.Fatalf("expected errDialTooSmall, got %v", err)
	}
	if _, err := NewDial(DialConfig{Min: 0, Max: 1, Digits: 3, Bounds: image.Rect(0, 0, 120, 120)}); err == nil {
		t.Fatal("expected error for invalid digits")
	}
}

func TestDialInitialValueIsMin(t *testing.T) {
	d := newTestDial(t, 40, 150)
	if d.Value() != 40 || d.Sweep() != 0 {
		t.Fatalf("initial value=%v sweep=%v", d.Value(), d.Sweep())
	}
}

func TestDialDraw(t *testing.T) {
	d := newTestDial(t, 0, 100, 25, 75)
	d.SetValue(50)

	var rec recorder
	if err := d.Draw(&rec); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	arcs := rec.of("arc")
	if len(arcs) != 3 {
		t.Fatalf("expected value arc and two rings, got %d arcs", len(arcs))
	}
	if arcs[0].start != ArcStart || arcs[0].sweep != 135 || arcs[0].radius != 56 || arcs[0].width != arcStroke {
		t.Fatalf("value arc %+v", arcs[0])
	}
	if arcs[1].sweep != ArcRange || arcs[1].radius != 56 || arcs[2].radius != 48 {
		t.Fatalf("rings %+v %+v", arcs[1], arcs[2])
	}

	texts := rec.of("text")
	if len(texts) != 2 {
		t.Fatalf("expected value and title text, got %d", len(texts))
	}
	if texts[0].text != "50.0" || texts[0].center != d.Center() || texts[0].style.Align != AlignCenter {
		t.Fatalf("value text %+v", texts[0])
	}
	if texts[1].text != "Boost" || texts[1].center != image.Pt(60, 40) {
		t.Fatalf("title text %+v", texts[1])
	}

	if lines := rec.of("line"); len(lines) != 4 {
		t.Fatalf("expected 4 ticks, got %d", len(lines))
	}
}

func TestDialDrawPropagatesErrors(t *testing.T) {
	d := newTestDial(t, 0, 100, 50)
	for n := 1; n <= 8; n++ {
		rec := recorder{failAt: n}
		if err := d.Draw(&rec); !errors.Is(err, errCanvas) {
			t.Fatalf("failAt=%d: expected canvas error, got %v", n, err)
		}
		if len(rec.ops) != n {
			t.Fatalf("failAt=%d: drawing continued after error (%d ops)", n, len(rec.ops))
		}
	}
}

func TestSetValueKeepsGeometry(t *testing.T) {
	d := newTestDial(t, 0, 100, 10)
	before := append([]Tick(nil), d.Ticks()...)
	d.SetValue(99)
	after := d.Ticks()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("tick %d changed after SetValue", i)
		}
	}
}
