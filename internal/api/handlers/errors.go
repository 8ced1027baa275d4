package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
)

// statusFor maps domain error codes onto HTTP statuses. Unclassified errors
// surface as 500.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeNotInitialized:
		return http.StatusServiceUnavailable
	case apperrors.CodeUnsupportedNetwork,
		apperrors.CodeUnexpectedWalletNetwork,
		apperrors.CodeInvalidTopUpAmount,
		apperrors.CodeInvalidOnRampAmount:
		return http.StatusUnprocessableEntity
	case apperrors.CodeUserRejectedSignature,
		apperrors.CodeUserRejectedTransaction:
		return http.StatusConflict
	case apperrors.CodeFailedWatchOnRampRequestTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// writeError renders one classified error as the API error envelope.
func writeError(c *gin.Context, err error) {
	code, ok := apperrors.CodeOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "internal server error",
			},
		})
		return
	}

	var appErr *apperrors.Error
	message := err.Error()
	var payload map[string]interface{}
	if e, isApp := err.(*apperrors.Error); isApp {
		appErr = e
		message = appErr.Message
		payload = appErr.Payload
	}

	body := gin.H{"code": code, "message": message}
	if payload != nil {
		body["payload"] = payload
	}
	c.JSON(statusFor(code), gin.H{"error": body})
}

// writeBadRequest renders a request binding/validation failure. Field-level
// validation errors are broken out so clients see which input was wrong.
func writeBadRequest(c *gin.Context, err error) {
	body := gin.H{
		"code":    "INVALID_REQUEST",
		"message": err.Error(),
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		body["fields"] = fields
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": body})
}
