package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixflow/internal/config"
	"pixflow/internal/domain/payment"
	"pixflow/internal/gateway"
	"pixflow/internal/session"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Cfg{
		App: config.AppCfg{Env: "test", Port: "8080"},
		Pix: config.PixCfg{Mode: config.ModeOffline},
		Session: config.SessionCfg{
			PollInterval:  10 * time.Second,
			ExpirySeconds: 1800,
		},
	}
	gw := gateway.New(cfg.Pix)
	mgr := session.NewManager(gw, cfg.Session, nil)
	t.Cleanup(mgr.Close)

	srv := httptest.NewServer(NewRouter(cfg, mgr))
	t.Cleanup(srv.Close)
	return srv
}

const checkoutBody = `{
	"name": "Maria Silva",
	"email": "maria@example.com",
	"cpf": "12345678901",
	"phone": "11999990000",
	"amount": 2990,
	"itemName": "VIP access"
}`

func TestCheckoutFlow(t *testing.T) {
	srv := testServer(t)

	// No session yet
	resp, err := http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Create
	resp, err = http.Post(srv.URL+"/api/v1/checkout", "application/json", strings.NewReader(checkoutBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var snap payment.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, payment.StatusPending, snap.Status)
	assert.Equal(t, 1800, snap.RemainingSeconds)
	require.NotNil(t, snap.Instrument)
	assert.NotEmpty(t, snap.Instrument.ID)
	assert.NotEmpty(t, snap.Instrument.QRCode)
	assert.NotEmpty(t, snap.Instrument.PixCode)

	// Read back
	resp, err = http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Close, twice: idempotent
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/session", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	// Session is gone after close
	resp, err = http.Get(srv.URL + "/api/v1/session")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/checkout", "application/json", strings.NewReader(`{"amount":0}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Post(srv.URL+"/api/v1/checkout", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
