package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pixflow/internal/config"
	"pixflow/internal/http/handlers"
	"pixflow/internal/session"
)

// NewRouter creates the HTTP surface consumed by the checkout
// presentation layer.
func NewRouter(cfg config.Cfg, mgr *session.Manager) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"mode":   string(cfg.Pix.Mode),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", handlers.CreateCheckout(mgr))
		r.Get("/session", handlers.GetSession(mgr))
		r.Delete("/session", handlers.CloseSession(mgr))
	})

	return r
}
