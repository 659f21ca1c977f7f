package payment

import (
	"fmt"
	"strings"
)

// Money represents a monetary amount in smallest currency unit (centavos)
type Money int64

// Request carries the payer and charge data for one PIX purchase.
// It is immutable once submitted to the gateway.
type Request struct {
	Name     string
	Email    string
	CPF      string
	Phone    string
	Amount   Money
	ItemName string
	UTMQuery string
}

// Validate checks the request before it is sent to the processor.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return DomainError{Code: ErrMissingField, Message: "name is required"}
	}
	if strings.TrimSpace(r.Email) == "" {
		return DomainError{Code: ErrMissingField, Message: "email is required"}
	}
	if strings.TrimSpace(r.CPF) == "" {
		return DomainError{Code: ErrMissingField, Message: "cpf is required"}
	}
	if strings.TrimSpace(r.Phone) == "" {
		return DomainError{Code: ErrMissingField, Message: "phone is required"}
	}
	if r.Amount <= 0 {
		return DomainError{Code: ErrInvalidAmount, Message: fmt.Sprintf("amount must be positive: %d", r.Amount)}
	}
	if strings.TrimSpace(r.ItemName) == "" {
		return DomainError{Code: ErrMissingField, Message: "item name is required"}
	}
	return nil
}

// Instrument is the generated payment artifact: the scannable QR
// payload, the copy-and-paste code and the processor-assigned
// transaction ID. All three fields are non-empty on any Instrument the
// gateway returns; a response missing one is a generation failure, not
// a partial instrument.
type Instrument struct {
	ID      string `json:"id"`
	QRCode  string `json:"pixQrCode"`
	PixCode string `json:"pixCode"`
	Status  Status `json:"status"`
}

// Status represents the state of a payment session
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusExpired   Status = "expired"
	StatusError     Status = "error"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusExpired
}

// Confirmed statuses as reported by the processor.
const (
	ProcessorPaid     = "paid"
	ProcessorApproved = "approved"
)

// IsConfirmation reports whether a processor-reported status means the
// transaction went through.
func IsConfirmation(processorStatus string) bool {
	return processorStatus == ProcessorPaid || processorStatus == ProcessorApproved
}

// Snapshot is what the presentation layer sees of a session.
type Snapshot struct {
	Status           Status      `json:"status"`
	RemainingSeconds int         `json:"remainingSeconds"`
	Instrument       *Instrument `json:"instrument,omitempty"`
}

// MaskCPF replaces a CPF with its masked form for diagnostic output.
// The payer's national ID never appears in cleartext in logs.
func MaskCPF(string) string { return "***.***.***-**" }

// MaskPhone replaces a phone number with its masked form for
// diagnostic output.
func MaskPhone(string) string { return "(**) *****-****" }

// DomainError represents a domain-level error
type DomainError struct {
	Message string
	Code    string
}

func (e DomainError) Error() string {
	return fmt.Sprintf("domain error [%s]: %s", e.Code, e.Message)
}

// Domain error codes
const (
	ErrInvalidAmount = "INVALID_AMOUNT"
	ErrMissingField  = "MISSING_FIELD"
)
