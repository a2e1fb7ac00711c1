package hal

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

type frontReader interface {
	snapshotRGB565(dst []byte)
}

// expandRGB565 converts little-endian RGB565 pixels into RGBA.
func expandRGB565(dst, src []byte) {
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := RGB888(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
}

// Snapshot returns the last presented frame as an RGBA image. Framebuffers
// that are not double buffered are read directly.
func Snapshot(fb Framebuffer) (*image.RGBA, error) {
	if fb == nil {
		return nil, ErrNotImplemented
	}
	if fb.Format() != PixelFormatRGB565 {
		return nil, fmt.Errorf("hal: unsupported pixel format %d", fb.Format())
	}
	w, h := fb.Width(), fb.Height()
	raw := make([]byte, w*h*2)
	if fr, ok := fb.(frontReader); ok {
		fr.snapshotRGB565(raw)
	} else {
		buf := fb.Buffer()
		for y := 0; y < h; y++ {
			copy(raw[y*w*2:(y+1)*w*2], buf[y*fb.StrideBytes():])
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	expandRGB565(img.Pix, raw)
	return img, nil
}

// WritePNG encodes the last presented frame as PNG.
func WritePNG(w io.Writer, fb Framebuffer) error {
	img, err := Snapshot(fb)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
