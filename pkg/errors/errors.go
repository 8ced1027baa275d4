package errors

import (
	"errors"
	"fmt"
)

// Code identifies a classified failure of a public SDK operation.
type Code string

const (
	CodeNotInitialized          Code = "RAMP_NOT_INITIALIZED"
	CodeFailedInitialization    Code = "RAMP_FAILED_INIT"
	CodeUnsupportedNetwork      Code = "RAMP_UNSUPPORTED_NETWORK"
	CodeUnexpectedWalletNetwork Code = "RAMP_UNEXPECTED_WALLET_NETWORK"
	CodeInvalidTopUpAmount      Code = "RAMP_INVALID_TOPUP_AMOUNT"
	CodeInvalidOnRampAmount     Code = "RAMP_INVALID_ONRAMP_AMOUNT"
	CodeUserRejectedSignature   Code = "RAMP_USER_REJECTED_SIGNATURE"
	CodeUserRejectedTransaction Code = "RAMP_USER_REJECTED_TRANSACTION"

	CodeFailedSettings       Code = "RAMP_FAILED_SETTINGS"
	CodeFailedTagInfo        Code = "RAMP_FAILED_TAG_INFO"
	CodeFailedAddressInfo    Code = "RAMP_FAILED_ADDRESS_INFO"
	CodeFailedWalletBalances Code = "RAMP_FAILED_WALLET_BALANCES"
	CodeFailedEstimation     Code = "RAMP_FAILED_ESTIMATION"
	CodeFailedConversion     Code = "RAMP_FAILED_CONVERSION"
	CodeFailedTopUp          Code = "RAMP_FAILED_TOPUP"

	CodeFailedCreateOnRampRequest       Code = "RAMP_FAILED_CREATE_ONRAMP_REQUEST"
	CodeFailedOnRampRequest             Code = "RAMP_FAILED_ONRAMP_REQUEST"
	CodeFailedWatchOnRampRequest        Code = "RAMP_FAILED_WATCH_ONRAMP_REQUEST"
	CodeFailedWatchOnRampRequestTimeout Code = "RAMP_FAILED_WATCH_ONRAMP_TIMEOUT"
	CodeFailedConvertOnRampAmount       Code = "RAMP_FAILED_CONVERT_ONRAMP_AMOUNT"
	CodeFailedOnRampEstimation          Code = "RAMP_FAILED_ONRAMP_ESTIMATION"
)

// Error is the classified error returned by every public SDK operation.
// It wraps the original cause so callers can still unwrap transport errors.
type Error struct {
	Code    Code
	Message string
	Payload map[string]interface{}
	Err     error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under code. A cause that is already a classified
// *Error passes through unchanged so earlier classification wins.
func Wrap(code Code, message string, cause error) *Error {
	var appErr *Error
	if errors.As(cause, &appErr) {
		return appErr
	}
	return &Error{Code: code, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithPayload attaches structured context (e.g. a server-supplied decline
// reason) and returns the same error for chaining.
func (e *Error) WithPayload(payload map[string]interface{}) *Error {
	e.Payload = payload
	return e
}

// CodeOf extracts the classification code, or empty-string false when err is
// not a classified error.
func CodeOf(err error) (Code, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// HasCode reports whether err is classified under code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsClassified reports whether err already carries one of the taxonomy codes.
func IsClassified(err error) bool {
	_, ok := CodeOf(err)
	return ok
}

// ShouldRetry reports whether an operation that failed with err is worth
// retrying. Classified domain errors are final decisions; only unclassified
// transport-level failures qualify.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	return !IsClassified(err)
}
