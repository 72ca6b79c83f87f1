package paypal

import "fmt"

// TokenError means the client_credentials exchange failed. Every billing
// call fails with it when no token could be obtained.
type TokenError struct {
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *TokenError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("paypal: no se pudo obtener token (status=%d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("paypal: no se pudo obtener token: %v", e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// APIError carries a non-success PayPal response verbatim so handlers can
// pass it through to the caller.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal %s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}
