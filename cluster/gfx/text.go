package gfx

import (
	"fmt"
	"image"
	"image/color"

	"m8r/cluster/gauge"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

func fontFor(f gauge.Font) (tinyfont.Fonter, error) {
	switch f {
	case gauge.FontSmall:
		return &proggy.TinySZ8pt7b, nil
	case gauge.FontMedium:
		return &freemono.Regular9pt7b, nil
	case gauge.FontLarge:
		return &freemono.Bold12pt7b, nil
	default:
		return nil, fmt.Errorf("gfx: unknown font %d", f)
	}
}

// TextBox returns the pixel width of s and the baseline offset that puts the
// vertical middle of a digit at the anchor.
func TextBox(f gauge.Font, s string) (width, baseline int, err error) {
	font, err := fontFor(f)
	if err != nil {
		return 0, 0, err
	}
	width, baseline = measure(font, s)
	return width, baseline, nil
}

func measure(font tinyfont.Fonter, s string) (width, baseline int) {
	_, outbox := tinyfont.LineWidth(font, s)
	info := font.GetGlyph('0').Info()
	return int(outbox), -int(info.YOffset) - int(info.Height)/2
}

// Text draws s anchored at at. The anchor's x is the left edge, centre or
// right edge depending on the alignment; its y is the vertical middle.
func (c *Canvas) Text(s string, at image.Point, style gauge.TextStyle, col color.RGBA) error {
	font, err := fontFor(style.Font)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	width, baseline := measure(font, s)

	x := at.X
	switch style.Align {
	case gauge.AlignLeft:
	case gauge.AlignCenter:
		x -= width / 2
	case gauge.AlignRight:
		x -= width
	default:
		return fmt.Errorf("gfx: unknown alignment %d", style.Align)
	}
	tinyfont.WriteLine(c, font, int16(x), int16(at.Y+baseline), s, col)
	return nil
}
