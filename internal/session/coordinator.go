package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pixflow/internal/domain/payment"
)

// Gateway is the slice of the gateway client the coordinator needs.
type Gateway interface {
	Create(ctx context.Context, req payment.Request) (*payment.Instrument, error)
	StatusQuerier
}

// Coordinator owns one payment session: the instrument, the current
// status, the countdown and the poller. All state transitions happen
// here, in response to poller results and the expiry signal.
//
//	pending -> confirmed (processor reports paid/approved)
//	pending -> expired   (countdown reaches zero)
//
// Both target states are terminal; late poll results and ticks after a
// terminal transition are ignored.
type Coordinator struct {
	mu         sync.Mutex
	status     payment.Status
	instrument *payment.Instrument

	countdown *Countdown
	cancel    context.CancelFunc

	onConfirmed func()
	confirmOnce sync.Once
	closeOnce   sync.Once
}

// Options carries the scheduler knobs for a session.
type Options struct {
	PollInterval  time.Duration
	ExpirySeconds int
	Clock         Clock
}

// Start asks the gateway to create the payment and, on success, begins
// tracking it: the countdown and the poller run until a terminal state
// or Close. A failed creation returns the gateway error and no session
// exists; neither scheduler is started. onConfirmed fires at most once,
// when the processor reports the payment went through.
func Start(ctx context.Context, gw Gateway, req payment.Request, opts Options, onConfirmed func()) (*Coordinator, error) {
	inst, err := gw.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if opts.Clock == nil {
		opts.Clock = RealClock()
	}

	// Schedulers outlive the creating request; their lifetime is owned
	// by the coordinator and ends at Close or a terminal transition.
	runCtx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		status:      payment.StatusPending,
		instrument:  inst,
		countdown:   NewCountdown(opts.ExpirySeconds, opts.Clock),
		cancel:      cancel,
		onConfirmed: onConfirmed,
	}

	poller := NewPoller(gw, opts.PollInterval, opts.Clock)

	go c.countdown.Run(runCtx, c.expire)
	go poller.Run(runCtx, inst.ID, c.handleStatus)

	log.Info().
		Str("transaction_id", inst.ID).
		Int("expiry_seconds", opts.ExpirySeconds).
		Msg("payment session started")

	return c, nil
}

// handleStatus applies one observed processor status to the state
// machine. Anything other than a confirmation, including "error" and
// unrecognized values, leaves the session untouched.
func (c *Coordinator) handleStatus(status string) {
	c.mu.Lock()
	if c.status.IsTerminal() {
		if c.status == payment.StatusExpired && payment.IsConfirmation(status) {
			// Dropped today; kept visible in logs until product decides
			// how a paid-after-deadline session should surface.
			log.Warn().
				Str("transaction_id", c.instrument.ID).
				Str("status", status).
				Msg("confirmation arrived after expiry, ignoring")
		}
		c.mu.Unlock()
		return
	}

	if !payment.IsConfirmation(status) {
		c.mu.Unlock()
		return
	}

	c.status = payment.StatusConfirmed
	c.mu.Unlock()

	log.Info().Str("transaction_id", c.instrument.ID).Msg("payment confirmed")
	c.cancel()
	c.confirmOnce.Do(func() {
		if c.onConfirmed != nil {
			c.onConfirmed()
		}
	})
}

// expire is the countdown's zero signal.
func (c *Coordinator) expire() {
	c.mu.Lock()
	if c.status != payment.StatusPending {
		c.mu.Unlock()
		return
	}
	c.status = payment.StatusExpired
	c.mu.Unlock()

	log.Info().Str("transaction_id", c.instrument.ID).Msg("payment session expired")
	c.cancel()
}

// Snapshot returns what the presentation layer is allowed to see.
func (c *Coordinator) Snapshot() payment.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return payment.Snapshot{
		Status:           c.status,
		RemainingSeconds: c.countdown.Remaining(),
		Instrument:       c.instrument,
	}
}

// Close tears the session down, stopping both schedulers. It is
// idempotent and safe after a natural terminal transition.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		log.Debug().Str("transaction_id", c.instrument.ID).Msg("payment session closed")
	})
}
