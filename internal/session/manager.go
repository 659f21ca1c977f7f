package session

import (
	"context"
	"sync"

	"pixflow/internal/config"
	"pixflow/internal/domain/payment"
)

// Manager holds at most one live session. Starting a new payment
// request fully supersedes the previous session: the old coordinator
// is closed, and only then is the next one created, so no two sessions
// ever share schedulers or gateway calls.
type Manager struct {
	mu      sync.Mutex
	gw      Gateway
	cfg     config.SessionCfg
	clock   Clock
	current *Coordinator
}

// NewManager creates a session manager around the gateway client.
func NewManager(gw Gateway, cfg config.SessionCfg, clock Clock) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	return &Manager{gw: gw, cfg: cfg, clock: clock}
}

// StartSession creates the instrument and begins tracking it,
// replacing any prior session. onConfirmed fires at most once for the
// new session. On a failed creation no session exists afterward, not
// even the superseded one.
func (m *Manager) StartSession(ctx context.Context, req payment.Request, onConfirmed func()) (payment.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
		m.current = nil
	}

	coord, err := Start(ctx, m.gw, req, Options{
		PollInterval:  m.cfg.PollInterval,
		ExpirySeconds: m.cfg.ExpirySeconds,
		Clock:         m.clock,
	}, onConfirmed)
	if err != nil {
		return payment.Snapshot{}, err
	}

	m.current = coord
	return coord.Snapshot(), nil
}

// Snapshot returns the live session's view, if one exists.
func (m *Manager) Snapshot() (payment.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return payment.Snapshot{}, false
	}
	return m.current.Snapshot(), true
}

// Close tears down the live session, if any. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}
