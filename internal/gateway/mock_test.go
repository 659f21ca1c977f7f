package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixflow/internal/config"
	"pixflow/internal/domain/payment"
)

func TestOfflineModeReturnsMockInstrument(t *testing.T) {
	// No base URL, no key: offline mode must never touch the network.
	c := New(config.PixCfg{Mode: config.ModeOffline})

	inst, err := c.Create(context.Background(), payment.Request{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		CPF:      "12345678901",
		Phone:    "11999990000",
		Amount:   2990,
		ItemName: "VIP access",
	})
	require.NoError(t, err)

	assert.True(t, IsMockID(inst.ID))
	assert.NotEmpty(t, inst.QRCode)
	assert.NotEmpty(t, inst.PixCode)
	assert.Contains(t, inst.PixCode, "000201")
	assert.Equal(t, payment.StatusPending, inst.Status)
}

func TestMockInstrumentsAreDistinct(t *testing.T) {
	req := payment.Request{
		Name: "a", Email: "b", CPF: "c", Phone: "d", Amount: 100, ItemName: "e",
	}
	a := newMockInstrument(req)
	b := newMockInstrument(req)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestIsMockID(t *testing.T) {
	assert.True(t, IsMockID("mock_123"))
	assert.False(t, IsMockID("tx_1"))
	assert.False(t, IsMockID(""))
}
