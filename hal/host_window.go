//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"

	"m8r/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window that shows the presented framebuffer and
// forwards keyboard input. run is started on its own goroutine with a context
// that is cancelled when the window closes. RunWindow blocks until both the
// window and run have finished.
func RunWindow(ctx context.Context, opts Options, run func(context.Context, HAL) error) error {
	h, err := newHost(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle("m8r (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*h.scale, h.fb.height*h.scale)
	ebiten.SetTPS(60)
	werr := ebiten.RunGame(g)
	if errors.Is(werr, ebiten.Termination) {
		werr = nil
	}

	cancel()
	if !g.finished {
		g.runErr = <-done
	}
	if werr != nil {
		return werr
	}
	if errors.Is(g.runErr, context.Canceled) {
		return nil
	}
	return g.runErr
}

type hostGame struct {
	h        *hostHAL
	img      *image.RGBA
	fbImg    *ebiten.Image
	scratch  []byte
	done     <-chan error
	finished bool
	runErr   error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	select {
	case err := <-g.done:
		g.finished = true
		g.runErr = err
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.front))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)
	expandRGB565(g.img.Pix, g.scratch)

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
