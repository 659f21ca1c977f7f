package gateway

import (
	"context"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"pixflow/internal/config"
	"pixflow/internal/domain/payment"
)

const (
	purchaseEndpoint = "/transaction.purchase"
	statusEndpoint   = "/transaction.status/"

	paymentMethod = "PIX"
)

// Client talks to the PIX processor. It owns credential injection and
// response classification; callers only ever see a fully populated
// instrument or a classified *Error. In offline mode no network call
// is made and deterministic mock instruments are returned instead.
type Client struct {
	http      *HTTPClient
	secretKey string
	mode      config.Mode
}

// New creates a gateway client from config.
func New(cfg config.PixCfg) *Client {
	return &Client{
		http:      NewHTTPClient(cfg.BaseURL, cfg.Timeout),
		secretKey: cfg.SecretKey,
		mode:      cfg.Mode,
	}
}

type purchaseItem struct {
	UnitPrice int64  `json:"unitPrice"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Tangible  bool   `json:"tangible"`
}

type purchaseReq struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	CPF           string         `json:"cpf"`
	Phone         string         `json:"phone"`
	PaymentMethod string         `json:"paymentMethod"`
	Amount        int64          `json:"amount"`
	Traceable     bool           `json:"traceable"`
	UTMQuery      string         `json:"utmQuery"`
	Items         []purchaseItem `json:"items"`
}

type purchaseResp struct {
	PixQRCode string `json:"pixQrCode"`
	PixCode   string `json:"pixCode"`
	Status    string `json:"status"`
	ID        string `json:"id"`
}

// processor error bodies use either "message" or "error"
type errorResp struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Create issues the purchase request and returns the generated
// instrument. The returned instrument always has a non-empty ID, QR
// payload and pix code; any response missing one of them is an
// invalid-response failure.
func (c *Client) Create(ctx context.Context, req payment.Request) (*payment.Instrument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if c.mode == config.ModeOffline {
		inst := newMockInstrument(req)
		log.Info().
			Str("transaction_id", inst.ID).
			Int64("amount", int64(req.Amount)).
			Msg("offline mode: generated mock instrument")
		return inst, nil
	}

	body := purchaseReq{
		Name:          req.Name,
		Email:         req.Email,
		CPF:           req.CPF,
		Phone:         req.Phone,
		PaymentMethod: paymentMethod,
		Amount:        int64(req.Amount),
		Traceable:     true,
		UTMQuery:      req.UTMQuery,
		Items: []purchaseItem{{
			UnitPrice: int64(req.Amount),
			Title:     req.ItemName,
			Quantity:  1,
			Tangible:  false,
		}},
	}

	log.Info().
		Str("cpf", payment.MaskCPF(req.CPF)).
		Str("phone", payment.MaskPhone(req.Phone)).
		Int64("amount", int64(req.Amount)).
		Str("item", req.ItemName).
		Msg("sending purchase request")

	// Transport-level failures are retried briefly before the whole
	// call is classified as a connectivity error. Responses, even
	// error responses, end the retry loop.
	var resp *HTTPResponse
	op := func() error {
		r, err := c.http.PostJSON(ctx, purchaseEndpoint, body, c.authHeaders())
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		log.Error().Err(err).Msg("purchase request failed at transport level")
		return nil, &Error{
			Code:    ErrConnectivity,
			Message: "could not reach the payment processor, check your connection and try again",
		}
	}

	if !resp.IsSuccess() {
		return nil, classifyCreateFailure(resp)
	}

	var out purchaseResp
	if err := resp.UnmarshalJSON(&out); err != nil {
		log.Error().Err(err).Msg("purchase response is not valid JSON")
		return nil, &Error{
			Code:    ErrUnparsableResponse,
			Message: "could not process the processor response, please try again",
		}
	}

	if out.PixQRCode == "" || out.PixCode == "" || out.ID == "" {
		log.Error().
			Bool("has_qr_code", out.PixQRCode != "").
			Bool("has_pix_code", out.PixCode != "").
			Bool("has_id", out.ID != "").
			Msg("purchase response missing required fields")
		return nil, &Error{
			Code:    ErrInvalidResponse,
			Message: "the payment processor returned an incomplete transaction",
		}
	}

	status := payment.StatusPending
	if out.Status != "" {
		status = payment.Status(out.Status)
	}

	log.Info().
		Str("transaction_id", out.ID).
		Str("status", string(status)).
		Msg("pix instrument generated")

	return &payment.Instrument{
		ID:      out.ID,
		QRCode:  out.PixQRCode,
		PixCode: out.PixCode,
		Status:  status,
	}, nil
}

// QueryStatus returns the processor-reported status for a transaction.
// Polling is best-effort: any transport failure, non-2xx response or
// unparseable body degrades to "pending" instead of surfacing an
// error. Mock IDs short-circuit without a network call.
func (c *Client) QueryStatus(ctx context.Context, id string) string {
	if IsMockID(id) {
		return string(payment.StatusPending)
	}

	resp, err := c.http.Get(ctx, statusEndpoint+id, c.authHeaders())
	if err != nil {
		log.Warn().Err(err).Str("transaction_id", id).Msg("status query failed, degrading to pending")
		return string(payment.StatusPending)
	}

	if !resp.IsSuccess() {
		log.Warn().
			Int("status_code", resp.StatusCode).
			Str("transaction_id", id).
			Msg("status query returned non-2xx, degrading to pending")
		return string(payment.StatusPending)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := resp.UnmarshalJSON(&out); err != nil || out.Status == "" {
		return string(payment.StatusPending)
	}
	return out.Status
}

func (c *Client) authHeaders() map[string]string {
	// Raw key scheme: the processor expects the credential directly in
	// the Authorization header, no Bearer prefix.
	return map[string]string{"Authorization": c.secretKey}
}

func classifyCreateFailure(resp *HTTPResponse) *Error {
	var body errorResp
	providerMsg := ""
	if err := resp.UnmarshalJSON(&body); err == nil {
		if body.Message != "" {
			providerMsg = body.Message
		} else if body.Error != "" {
			providerMsg = body.Error
		}
	}

	log.Error().
		Int("status_code", resp.StatusCode).
		Str("provider_message", providerMsg).
		Msg("purchase request rejected")

	switch {
	case resp.StatusCode == 400:
		msg := "invalid payment data, check the information and try again"
		return &Error{Code: ErrMalformedRequest, Message: msg, ProviderErr: providerMsg}
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return &Error{Code: ErrAuthFailed, Message: "payment processor rejected the API credential"}
	case resp.StatusCode >= 500:
		return &Error{Code: ErrProviderDown, Message: "payment processor is unavailable, wait a few minutes and try again"}
	default:
		msg := "unexpected processor response (" + strconv.Itoa(resp.StatusCode) + ")"
		return &Error{Code: ErrUnknownError, Message: msg, ProviderErr: providerMsg}
	}
}
