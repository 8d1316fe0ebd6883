// Package pace holds the cancellable sleeps the loop and its adapters share.
package pace

import (
	"context"
	"time"
)

// Wait sleeps for d or until ctx is done, returning ctx.Err() in the latter case.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
