package gateway

// Error is a classified gateway failure. Message is safe to show to
// the end user; ProviderErr carries the processor's own text when one
// could be parsed out of the response body.
type Error struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	ProviderErr string `json:"provider_error,omitempty"`
}

func (e *Error) Error() string {
	if e.ProviderErr != "" {
		return e.Message + ": " + e.ProviderErr
	}
	return e.Message
}

// Error codes
const (
	ErrConnectivity       = "connectivity_unavailable"
	ErrMalformedRequest   = "malformed_request"
	ErrAuthFailed         = "authentication_failed"
	ErrProviderDown       = "processor_unavailable"
	ErrInvalidResponse    = "invalid_response"
	ErrUnparsableResponse = "unparseable_response"
	ErrUnknownError       = "unknown_error"
)
