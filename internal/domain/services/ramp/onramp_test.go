package ramp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
)

func onRampParams(fiat string) RequestOnRampParams {
	return RequestOnRampParams{
		WalletAddress: sender,
		TokenAddress:  usdcMainnet,
		Network:       entities.NetworkEthereum,
		FiatAmount:    decimal.RequireFromString(fiat),
	}
}

func sampleRequest() *entities.OnRampRequest {
	return &entities.OnRampRequest{
		RequestUID:         "req-42",
		ChainID:            1,
		Token:              *usdcToken(),
		AmountEUR:          decimal.NewFromInt(50),
		BeneficiaryAddress: sender,
	}
}

func TestRequestOnRampHappyPath(t *testing.T) {
	api := new(mockAPI)
	auditor := new(recordingAuditor)
	sdk := newTestSDK(api, auditor, new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)
	api.On("GetFullTokenData", mock.Anything, usdcMainnet, entities.NetworkEthereum).Return(usdcToken(), nil)
	api.On("RequestExecute", mock.Anything, mock.Anything).Return(sampleRequest(), nil)

	request, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("50"))
	require.NoError(t, err)
	assert.Equal(t, "req-42", request.RequestUID)
	assert.Equal(t, 1, auditor.count())
}

func TestRequestOnRampBelowMinimum(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)

	// Fiat input gets exact bounds: 4.99 fails even though the top-up
	// tolerance band would admit it.
	_, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("4.99"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOnRampAmount))
	assert.Contains(t, err.Error(), "Minimum allowed amount is 5 EUR")
	api.AssertNotCalled(t, "RequestExecute", mock.Anything, mock.Anything)
}

func TestRequestOnRampAboveMaximum(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)

	_, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("1000.01"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOnRampAmount))
	assert.Contains(t, err.Error(), "Maximum allowed amount is 1000 EUR")
}

func TestRequestOnRampUserRejectedSignature(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)
	api.On("GetFullTokenData", mock.Anything, mock.Anything, mock.Anything).Return(usdcToken(), nil)
	api.On("RequestExecute", mock.Anything, mock.Anything).
		Return(nil, &rampapi.ErrorResponse{Code: "user_reject_sign", Message: "signature rejected"})

	_, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("50"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserRejectedSignature))
}

func TestRequestOnRampInnerCodePayload(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)
	api.On("GetFullTokenData", mock.Anything, mock.Anything, mock.Anything).Return(usdcToken(), nil)
	api.On("RequestExecute", mock.Anything, mock.Anything).
		Return(nil, &rampapi.ErrorResponse{Code: "kyc_required", Message: "verification needed", StatusCode: 403})

	_, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("50"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeFailedCreateOnRampRequest))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "kyc_required", appErr.Payload["innerCode"])
}

func TestRequestOnRampSettingsFailure(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("GetServerSettings", mock.Anything).Return(nil, errors.New("gateway timeout"))

	_, err := sdk.OnRamp().RequestOnRamp(context.Background(), onRampParams("50"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedSettings))
}

func statusResp(status entities.OnRampStatus, hash, reason string) *rampapi.RequestStatusResponse {
	return &rampapi.RequestStatusResponse{Status: status, Hash: hash, Reason: reason}
}

func TestWatchRequestIDResolvesAfterApproval(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusNotApproved, "", ""), nil).Twice()
	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusSuccess, "0xabc", ""), nil).Once()

	result, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0xabc", result.Hash)
	api.AssertExpectations(t)
}

func TestWatchRequestIDDeclined(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusDeclined, "", ""), nil)

	result, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Hash)
}

func TestWatchRequestIDFailedCarriesReason(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusFailed, "", "card_declined"), nil)

	_, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{})
	require.True(t, apperrors.HasCode(err, apperrors.CodeFailedOnRampRequest))

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "card_declined", appErr.Payload["reason"])
}

func TestWatchRequestIDWaitsForHash(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	// Success without a hash keeps the watch alive when the caller asked to
	// wait for one.
	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusSuccess, "", ""), nil).Twice()
	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusSuccess, "0xdef", ""), nil).Once()

	result, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{WaitForTransactionHash: true})
	require.NoError(t, err)
	assert.Equal(t, "0xdef", result.Hash)
	api.AssertExpectations(t)
}

func TestWatchRequestIDTickErrorTerminates(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(nil, errors.New("connection refused"))

	_, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedWatchOnRampRequest))
}

func TestWatchRequestIDUnknownStatus(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatus("limbo"), "", ""), nil)

	_, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedWatchOnRampRequest))
}

func TestWatchRequestIDTimeout(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("RequestStatus", mock.Anything, "req-42").Return(statusResp(entities.OnRampStatusNotApproved, "", ""), nil)

	_, err := sdk.OnRamp().WatchRequestID(context.Background(), "req-42", WatchOptions{Timeout: 30 * time.Millisecond})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedWatchOnRampRequestTimeout))
}

func TestEstimateOnRamp(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("Estimate", mock.Anything, mock.Anything).
		Return(&entities.EstimateOnRampResult{
			ExpectedAmount: decimal.RequireFromString("49.5"),
			FeeAmount:      decimal.RequireFromString("0.5"),
		}, nil)

	estimate, err := sdk.OnRamp().EstimateOnRamp(context.Background(), onRampParams("50"))
	require.NoError(t, err)
	assert.Equal(t, "49.5", estimate.ExpectedAmount.String())
}

func TestEstimateOnRampFailure(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("Estimate", mock.Anything, mock.Anything).Return(nil, errors.New("estimator down"))

	_, err := sdk.OnRamp().EstimateOnRamp(context.Background(), onRampParams("50"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedOnRampEstimation))
}

func TestConvertOnRampAmount(t *testing.T) {
	api := new(mockAPI)
	sdk := newTestSDK(api, new(recordingAuditor), new(mockExecutor))

	api.On("ConvertOnRampEURToToken", mock.Anything, mock.Anything).
		Return(&entities.ConvertResult{TokenAmount: "49.8", EURAmount: "50"}, nil)

	result, err := sdk.OnRamp().ConvertOnRampAmount(context.Background(), usdcMainnet, entities.NetworkEthereum, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "49.8", result.TokenAmount)
}
