//go:build !tinygo

package hal

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Options describes the host surface.
type Options struct {
	Width  int
	Height int

	// Scale is the window zoom factor; headless runs ignore it.
	Scale  int
	Logger hclog.Logger
}

type hostHAL struct {
	logger hclog.Logger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	scale  int
}

// New returns a host HAL implementation.
func New(opts Options) (HAL, error) {
	h, err := newHost(opts)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func newHost(opts Options) (*hostHAL, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("hal: invalid display size %dx%d", opts.Width, opts.Height)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &hostHAL{
		logger: logger,
		fb:     newHostFramebuffer(opts.Width, opts.Height),
		kbd:    newHostKeyboard(),
		scale:  opts.Scale,
	}, nil
}

func (h *hostHAL) Logger() hclog.Logger { return h.logger }
func (h *hostHAL) Display() Display     { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input         { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
