package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"m8r/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	faultBG = color.RGBA{R: 0x60, G: 0x00, B: 0x00, A: 0xff}
	faultFG = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// showFault paints a startup failure onto the display so a windowed cluster
// does not just vanish.
func showFault(d drivers.Displayer, fb hal.Framebuffer, err error) {
	if d == nil || fb == nil || err == nil {
		return
	}
	fb.ClearRGB(faultBG.R, faultBG.G, faultBG.B)

	font := &proggy.TinySZ8pt7b
	_, outbox := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outbox)
	fontHeight := int16(font.GetYAdvance())
	if fontWidth <= 0 || fontHeight <= 0 {
		_ = fb.Present()
		return
	}
	ascent := -int16(font.GetGlyph('0').Info().YOffset)

	lines := []string{"m8r: startup failed"}
	for _, part := range strings.Split(err.Error(), "\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			lines = append(lines, part)
		}
	}

	cols := int16(fb.Width()-4) / fontWidth
	if cols <= 0 {
		cols = 1
	}
	y := int16(2)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > int16(fb.Height()) {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, font, fontWidth, 2, y+ascent, chunk, faultFG)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func drawTextLine(d drivers.Displayer, font tinyfont.Fonter, fontWidth, x0, baseline int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, x, baseline, r, fg)
		x += fontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
