package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatusQuerier is the slice of the gateway client the poller needs.
type StatusQuerier interface {
	QueryStatus(ctx context.Context, id string) string
}

// Poller checks the processor for the transaction status on a fixed
// cadence, starting with an immediate first check. At most one query
// is in flight at any time: a tick that fires while the previous
// query is still unresolved is skipped outright, never queued. Every
// completed query is delivered exactly once, in completion order.
type Poller struct {
	querier  StatusQuerier
	interval time.Duration
	clock    Clock
	inflight chan struct{} // single-slot token
}

// NewPoller creates a poller with the given cadence.
func NewPoller(querier StatusQuerier, interval time.Duration, clock Clock) *Poller {
	return &Poller{
		querier:  querier,
		interval: interval,
		clock:    clock,
		inflight: make(chan struct{}, 1),
	}
}

// Run polls until ctx is cancelled, delivering each observed status to
// deliver.
func (p *Poller) Run(ctx context.Context, id string, deliver func(status string)) {
	log.Info().Str("transaction_id", id).Dur("interval", p.interval).Msg("status poller: started")

	t := p.clock.NewTicker(p.interval)
	defer t.Stop()

	// Check immediately, not only after the first interval.
	p.check(ctx, id, deliver)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("transaction_id", id).Msg("status poller: stopping")
			return
		case <-t.C():
			p.check(ctx, id, deliver)
		}
	}
}

func (p *Poller) check(ctx context.Context, id string, deliver func(status string)) {
	select {
	case p.inflight <- struct{}{}:
	default:
		// Previous query still unresolved; skip this tick.
		log.Debug().Str("transaction_id", id).Msg("status poller: query in flight, skipping tick")
		return
	}

	go func() {
		defer func() { <-p.inflight }()
		status := p.querier.QueryStatus(ctx, id)
		if ctx.Err() != nil {
			return
		}
		deliver(status)
	}()
}
