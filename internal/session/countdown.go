package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Countdown is the expiry timer for one session: a one-second
// resolution countdown from a fixed total. It never goes negative and
// fires its expiry callback exactly once, when the remaining time
// reaches zero.
type Countdown struct {
	remaining atomic.Int64
	clock     Clock
}

// NewCountdown creates a countdown holding totalSeconds.
func NewCountdown(totalSeconds int, clock Clock) *Countdown {
	c := &Countdown{clock: clock}
	c.remaining.Store(int64(totalSeconds))
	return c
}

// Remaining returns the seconds left. Safe to call concurrently with
// Run.
func (c *Countdown) Remaining() int {
	return int(c.remaining.Load())
}

// Run decrements once per second until zero, then calls onExpire and
// returns. Cancelling ctx stops the countdown without firing.
func (c *Countdown) Run(ctx context.Context, onExpire func()) {
	t := c.clock.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			left := c.remaining.Add(-1)
			if left < 0 {
				// Only reachable if a tick raced teardown; clamp.
				c.remaining.Store(0)
				return
			}
			if left == 0 {
				log.Info().Msg("countdown reached zero, session expired")
				onExpire()
				return
			}
		}
	}
}
