//go:build !tinygo

package hal

import (
	"context"
	"errors"
)

// Headless is a host HAL without a window. The framebuffer is kept in memory
// and can be written out with WritePNG.
type Headless struct {
	*hostHAL
}

// NewHeadless returns a windowless host HAL.
func NewHeadless(opts Options) (*Headless, error) {
	h, err := newHost(opts)
	if err != nil {
		return nil, err
	}
	return &Headless{hostHAL: h}, nil
}

// Presented reports how many frames have been published.
func (h *Headless) Presented() uint64 { return h.fb.Presented() }

// RunHeadless runs the cluster without opening a window. A cancelled ctx
// is a normal shutdown.
func RunHeadless(ctx context.Context, h *Headless, run func(context.Context, HAL) error) error {
	err := run(ctx, h)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
