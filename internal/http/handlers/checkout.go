// internal/http/handlers/checkout.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pixflow/internal/domain/payment"
	"pixflow/internal/gateway"
	"pixflow/internal/session"
)

type checkoutReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Phone    string `json:"phone"`
	Amount   int64  `json:"amount"`
	ItemName string `json:"itemName"`
	UTMQuery string `json:"utmQuery,omitempty"`
}

// CreateCheckout generates the PIX instrument and starts the
// confirmation session, superseding any prior one.
func CreateCheckout(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in checkoutReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		req := payment.Request{
			Name:     in.Name,
			Email:    in.Email,
			CPF:      in.CPF,
			Phone:    in.Phone,
			Amount:   payment.Money(in.Amount),
			ItemName: in.ItemName,
			UTMQuery: in.UTMQuery,
		}

		// Short, bounded context for the processor call
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		snap, err := mgr.StartSession(ctx, req, func() {
			log.Info().Str("cpf", payment.MaskCPF(in.CPF)).Msg("payment confirmed notification")
		})
		if err != nil {
			writeCreateError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// GetSession exposes {status, remainingSeconds, instrument} to the
// presentation layer.
func GetSession(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := mgr.Snapshot()
		if !ok {
			http.Error(w, "no active session", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// CloseSession is the presentation layer's close signal. Idempotent:
// closing an already-closed or absent session still returns 204.
func CloseSession(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr.Close()
		w.WriteHeader(http.StatusNoContent)
	}
}

type errResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeCreateError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		status := http.StatusBadGateway
		switch gwErr.Code {
		case gateway.ErrMalformedRequest:
			status = http.StatusBadRequest
		case gateway.ErrConnectivity:
			status = http.StatusServiceUnavailable
		}
		writeJSONError(w, status, errResp{Code: gwErr.Code, Message: gwErr.Message})
		return
	}

	var domErr payment.DomainError
	if errors.As(err, &domErr) {
		writeJSONError(w, http.StatusBadRequest, errResp{Code: domErr.Code, Message: domErr.Message})
		return
	}

	log.Error().Err(err).Msg("checkout failed")
	writeJSONError(w, http.StatusInternalServerError, errResp{Code: "internal", Message: "internal error"})
}

func writeJSONError(w http.ResponseWriter, status int, body errResp) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
