package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixflow/internal/config"
	"pixflow/internal/domain/payment"
	"pixflow/internal/gateway"
)

func testSessionCfg() config.SessionCfg {
	return config.SessionCfg{PollInterval: testInterval, ExpirySeconds: 1800}
}

func TestManagerStartAndSnapshot(t *testing.T) {
	gw := &fakeGateway{inst: testInstrument()}
	mgr := NewManager(gw, testSessionCfg(), newFakeClock())
	defer mgr.Close()

	_, ok := mgr.Snapshot()
	assert.False(t, ok, "no session before the first request")

	snap, err := mgr.StartSession(context.Background(), payment.Request{Amount: 2990}, nil)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, snap.Status)
	assert.Equal(t, 1800, snap.RemainingSeconds)

	got, ok := mgr.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "tx_1", got.Instrument.ID)
}

func TestManagerNewRequestSupersedesPrior(t *testing.T) {
	clock := newFakeClock()
	gw := &fakeGateway{inst: testInstrument()}
	mgr := NewManager(gw, testSessionCfg(), clock)
	defer mgr.Close()

	_, err := mgr.StartSession(context.Background(), payment.Request{}, nil)
	require.NoError(t, err)

	_, err = mgr.StartSession(context.Background(), payment.Request{}, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), gw.createCalls.Load())
	// One countdown ticker per session; the first one is cancelled,
	// only the second keeps consuming.
	assert.Equal(t, 2, clock.tickerCount(time.Second))
}

func TestManagerFailedCreateLeavesNoSession(t *testing.T) {
	gw := &fakeGateway{createErr: &gateway.Error{Code: gateway.ErrConnectivity, Message: "offline"}}
	mgr := NewManager(gw, testSessionCfg(), newFakeClock())

	_, err := mgr.StartSession(context.Background(), payment.Request{}, nil)
	require.Error(t, err)

	_, ok := mgr.Snapshot()
	assert.False(t, ok)
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	gw := &fakeGateway{inst: testInstrument()}
	mgr := NewManager(gw, testSessionCfg(), newFakeClock())

	_, err := mgr.StartSession(context.Background(), payment.Request{}, nil)
	require.NoError(t, err)

	mgr.Close()
	mgr.Close()

	_, ok := mgr.Snapshot()
	assert.False(t, ok)
}
