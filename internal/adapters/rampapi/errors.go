package rampapi

import (
	"errors"
	"fmt"
)

// Wire error codes the card-product services attach to rejection envelopes.
const (
	wireCodeUserRejectSign        = "user_reject_sign"
	wireCodeUserRejectTransaction = "user_reject_transaction"
)

// ErrorResponse is the service error envelope.
type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *ErrorResponse) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ramp API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("ramp API error (status %d): %s", e.StatusCode, e.Message)
}

// IsUserRejectedSignature reports whether the service relayed a wallet-side
// signature rejection.
func IsUserRejectedSignature(err error) bool {
	var apiErr *ErrorResponse
	return errors.As(err, &apiErr) && apiErr.Code == wireCodeUserRejectSign
}

// IsUserRejectedTransaction reports whether the service relayed a wallet-side
// transaction rejection.
func IsUserRejectedTransaction(err error) bool {
	var apiErr *ErrorResponse
	return errors.As(err, &apiErr) && apiErr.Code == wireCodeUserRejectTransaction
}

// RejectionReason extracts the server-supplied reason from an error
// envelope, if any.
func RejectionReason(err error) string {
	var apiErr *ErrorResponse
	if errors.As(err, &apiErr) {
		if apiErr.Reason != "" {
			return apiErr.Reason
		}
		return apiErr.Message
	}
	return ""
}
