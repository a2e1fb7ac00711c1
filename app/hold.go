package app

import (
	"context"
	"time"
)

const holdPoll = 50 * time.Millisecond

// waitQuit blocks until quit reports true or ctx is done.
func waitQuit(ctx context.Context, quit func() bool) {
	t := time.NewTicker(holdPoll)
	defer t.Stop()
	for !quit() {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
