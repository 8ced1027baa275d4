package ramp

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"github.com/cardramp/ramp_sdk/pkg/logger"
)

const (
	usdcMainnet = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wethMainnet = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	sender      = "0x1111111111111111111111111111111111111111"
)

func defaultSettings() *entities.ServerSettings {
	return &entities.ServerSettings{
		IsTopupEnabled:       true,
		MinTopUpAmountInEUR:  decimal.NewFromInt(5),
		MaxTopUpAmountInEUR:  decimal.NewFromInt(1000),
		IsOnRampEnabled:      true,
		MinOnRampAmountInEUR: decimal.NewFromInt(5),
		MaxOnRampAmountInEUR: decimal.NewFromInt(1000),
	}
}

func usdcToken() *entities.Token {
	return &entities.Token{
		Address:  usdcMainnet,
		Decimals: 6,
		Network:  entities.NetworkEthereum,
		Symbol:   "USDC",
		PriceUSD: decimal.NewFromInt(1),
	}
}

func topUpParams(amount string) TopUpParams {
	return TopUpParams{
		Sender:       sender,
		TokenAddress: usdcMainnet,
		Network:      entities.NetworkEthereum,
		Amount:       decimal.RequireFromString(amount),
		Holytag:      "alice",
	}
}

// expectHappyPathUpTo wires mocks for the steps preceding validation.
func expectHappyPathUpTo(api *mockAPI, executor *mockExecutor, eurAmount string) {
	executor.On("ChainID", mock.Anything).Return(int64(1), nil)
	api.On("GetTagTopUpCode", mock.Anything, mock.Anything).Return("code-123", nil)
	api.On("GetFullTokenData", mock.Anything, usdcMainnet, entities.NetworkEthereum).Return(usdcToken(), nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).
		Return(&entities.ConvertResult{TokenAmount: "10", EURAmount: eurAmount}, nil)
	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)
}

func TestTopUpHappyPath(t *testing.T) {
	api := new(mockAPI)
	auditor := new(recordingAuditor)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, auditor, executor)

	expectHappyPathUpTo(api, executor, "10")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).Return(nil)

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	require.NoError(t, err)
	executor.AssertExpectations(t)
	assert.Equal(t, 1, auditor.count())
}

func TestTopUpRequiresInit(t *testing.T) {
	sdk := New(Deps{Logger: logger.NewNop()})

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotInitialized))
}

func TestTopUpAuditPrecedesNetworkCheck(t *testing.T) {
	api := new(mockAPI)
	auditor := new(recordingAuditor)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, auditor, executor)

	// Wallet is on Polygon, token on Ethereum.
	executor.On("ChainID", mock.Anything).Return(int64(137), nil)

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnexpectedWalletNetwork))

	// The attempt was audited even though validation failed immediately,
	// and nothing remote was called after the check.
	assert.Equal(t, 1, auditor.count())
	api.AssertNotCalled(t, "GetTagTopUpCode", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "ConvertTokenToEUR", mock.Anything, mock.Anything)
}

func TestTopUpUnknownChainID(t *testing.T) {
	api := new(mockAPI)
	auditor := new(recordingAuditor)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, auditor, executor)

	executor.On("ChainID", mock.Anything).Return(int64(424242), nil)

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedNetwork))
}

func TestTopUpUnsupportedNetwork(t *testing.T) {
	sdk := newTestSDK(new(mockAPI), new(recordingAuditor), new(mockExecutor))

	params := topUpParams("10")
	params.Network = entities.Network("dogechain")

	err := sdk.OffRamp().TopUp(context.Background(), params, TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnsupportedNetwork))
}

func TestTopUpBelowMinimum(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "4.9")

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("4.9"), TopUpEvents{})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTopUpAmount))
	assert.Contains(t, err.Error(), "Minimum allowed amount is 5 EUR")
	executor.AssertNotCalled(t, "ExecuteTopUp", mock.Anything, mock.Anything)
}

func TestTopUpAboveMaximum(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "1010.01")

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("1010.01"), TopUpEvents{})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTopUpAmount))
	assert.Contains(t, err.Error(), "Maximum allowed amount is 1000 EUR")
}

func TestTopUpTestHolytagSkipsMinimum(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	// 0.99 EUR is far below the server minimum of 5, but under the test
	// ceiling of 1, so it passes.
	expectHappyPathUpTo(api, executor, "0.99")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).Return(nil)

	params := topUpParams("0.99")
	params.Holytag = "sdktest" // matching is case-insensitive

	err := sdk.OffRamp().TopUp(context.Background(), params, TopUpEvents{})
	assert.NoError(t, err)
}

func TestTopUpTestHolytagCeiling(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "1.5")

	params := topUpParams("1.5")
	params.Holytag = "SDKTEST"

	err := sdk.OffRamp().TopUp(context.Background(), params, TopUpEvents{})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTopUpAmount))
	assert.Contains(t, err.Error(), "Maximum allowed amount is 1 EUR")
}

func TestTopUpSwapTargetForcesNilTransferData(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "10")

	var executed onchain.ExecuteParams
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { executed = args.Get(1).(onchain.ExecuteParams) }).
		Return(nil)

	// Caller supplies transfer data for a swap-target token: it must be
	// discarded, never forwarded.
	params := topUpParams("10")
	params.TransferData = entities.TransferData(`{"route":"stale"}`)

	err := sdk.OffRamp().TopUp(context.Background(), params, TopUpEvents{})
	require.NoError(t, err)
	assert.Nil(t, executed.TransferData)
	assert.Equal(t, "code-123", executed.ReceiverHash)
	api.AssertNotCalled(t, "GetTokenPrices", mock.Anything, mock.Anything)
}

func TestTopUpGenericTokenAdoptsConversionTransferData(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	weth := &entities.Token{
		Address:  wethMainnet,
		Decimals: 18,
		Network:  entities.NetworkEthereum,
		Symbol:   "WETH",
		PriceUSD: decimal.NewFromInt(3000),
	}

	executor.On("ChainID", mock.Anything).Return(int64(1), nil)
	api.On("GetTagTopUpCode", mock.Anything, mock.Anything).Return("code-123", nil)
	api.On("GetFullTokenData", mock.Anything, wethMainnet, entities.NetworkEthereum).Return(weth, nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).
		Return(&entities.ConvertResult{
			TransferData: entities.TransferData(`{"route":"weth-usdc"}`),
			TokenAmount:  "0.005",
			EURAmount:    "14",
		}, nil)
	api.On("GetServerSettings", mock.Anything).Return(defaultSettings(), nil)
	api.On("GetTokenPrices", mock.Anything, mock.Anything).
		Return([]entities.TokenPrice{{Address: usdcMainnet, Network: entities.NetworkEthereum, Price: decimal.RequireFromString("0.9998")}}, nil)

	var executed onchain.ExecuteParams
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { executed = args.Get(1).(onchain.ExecuteParams) }).
		Return(nil)

	params := topUpParams("0.005")
	params.TokenAddress = wethMainnet

	err := sdk.OffRamp().TopUp(context.Background(), params, TopUpEvents{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"route":"weth-usdc"}`, string(executed.TransferData))
	assert.Equal(t, "0.9998", executed.SwapTargetPrice.String())
}

func TestTopUpStepEventsForwardedOnlyWhenPending(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "10")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			events := args.Get(1).(onchain.ExecuteParams).Events
			events.OnStep(onchain.StepConfirm, onchain.StatePending)
			events.OnStep(onchain.StepConfirm, onchain.StateSucceeded)
			events.OnStep(onchain.StepApprove, onchain.StatePending)
			events.OnStep(onchain.StepApprove, onchain.StateSucceeded)
			events.OnStep(onchain.StepSend, onchain.StatePending)
			events.OnTransactionHash("0xhash1")
		}).
		Return(nil)

	var steps []entities.TopUpStep
	var hashes []string
	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{
		OnHashGenerate: func(hash string) { hashes = append(hashes, hash) },
		OnStepChange:   func(step entities.TopUpStep) { steps = append(steps, step) },
	})

	require.NoError(t, err)
	assert.Equal(t, []entities.TopUpStep{
		entities.TopUpStepConfirming,
		entities.TopUpStepApproving,
		entities.TopUpStepSending,
	}, steps)
	assert.Equal(t, []string{"0xhash1"}, hashes)
}

func TestTopUpCallDataIsAudited(t *testing.T) {
	api := new(mockAPI)
	auditor := new(recordingAuditor)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, auditor, executor)

	expectHappyPathUpTo(api, executor, "10")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(onchain.ExecuteParams).Events.OnCallData("0xdeadbeef")
		}).
		Return(nil)

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	require.NoError(t, err)
	// Input audit plus call-data audit.
	assert.Equal(t, 2, auditor.count())
}

func TestTopUpUserRejectionPassesThrough(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "10")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).
		Return(apperrors.New(apperrors.CodeUserRejectedTransaction, "user rejected the transaction"))

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserRejectedTransaction))
}

func TestTopUpUnclassifiedExecutionFailureWrapped(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	expectHappyPathUpTo(api, executor, "10")
	cause := errors.New("rpc: broken pipe")
	executor.On("ExecuteTopUp", mock.Anything, mock.Anything).Return(cause)

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedTopUp))
	assert.ErrorIs(t, err, cause)
}

func TestTopUpConversionFailure(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	executor.On("ChainID", mock.Anything).Return(int64(1), nil)
	api.On("GetTagTopUpCode", mock.Anything, mock.Anything).Return("code-123", nil)
	api.On("GetFullTokenData", mock.Anything, mock.Anything, mock.Anything).Return(usdcToken(), nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).Return(nil, errors.New("pricing down"))

	err := sdk.OffRamp().TopUp(context.Background(), topUpParams("10"), TopUpEvents{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedConversion))
}

func TestGetTopUpEstimation(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	api.On("GetFullTokenData", mock.Anything, usdcMainnet, entities.NetworkEthereum).Return(usdcToken(), nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).
		Return(&entities.ConvertResult{TokenAmount: "10", EURAmount: "10"}, nil)
	api.On("GetTokenPrices", mock.Anything, mock.Anything).
		Return([]entities.TokenPrice{{Address: usdcMainnet, Price: decimal.NewFromInt(1)}}, nil)
	executor.On("EstimateTopUp", mock.Anything, mock.Anything).
		Return(&onchain.Estimation{Flow: onchain.FlowExecuteWithPermit, TotalFee: decimal.RequireFromString("0.0042")}, nil)

	fee, err := sdk.OffRamp().GetTopUpEstimation(context.Background(), EstimationParams{
		Sender:       sender,
		TokenAddress: usdcMainnet,
		Network:      entities.NetworkEthereum,
		Amount:       decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0042", fee)
}

func TestGetTopUpEstimationRejectsWrongFlow(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	api.On("GetFullTokenData", mock.Anything, mock.Anything, mock.Anything).Return(usdcToken(), nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).
		Return(&entities.ConvertResult{TokenAmount: "10", EURAmount: "10"}, nil)
	api.On("GetTokenPrices", mock.Anything, mock.Anything).
		Return([]entities.TokenPrice{{Address: usdcMainnet, Price: decimal.NewFromInt(1)}}, nil)
	executor.On("EstimateTopUp", mock.Anything, mock.Anything).
		Return(&onchain.Estimation{Flow: onchain.FlowDirectTransfer, TotalFee: decimal.Zero}, nil)

	_, err := sdk.OffRamp().GetTopUpEstimation(context.Background(), EstimationParams{
		Sender:       sender,
		TokenAddress: usdcMainnet,
		Network:      entities.NetworkEthereum,
		Amount:       decimal.NewFromInt(10),
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedEstimation))
}

func TestGetTopUpEstimationFanOutFailure(t *testing.T) {
	api := new(mockAPI)
	executor := new(mockExecutor)
	sdk := newTestSDK(api, new(recordingAuditor), executor)

	api.On("GetFullTokenData", mock.Anything, mock.Anything, mock.Anything).Return(usdcToken(), nil)
	api.On("ConvertTokenToEUR", mock.Anything, mock.Anything).Return(nil, errors.New("pricing down"))
	api.On("GetTokenPrices", mock.Anything, mock.Anything).
		Return([]entities.TokenPrice{{Address: usdcMainnet, Price: decimal.NewFromInt(1)}}, nil)

	_, err := sdk.OffRamp().GetTopUpEstimation(context.Background(), EstimationParams{
		Sender:       sender,
		TokenAddress: usdcMainnet,
		Network:      entities.NetworkEthereum,
		Amount:       decimal.NewFromInt(10),
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFailedEstimation))
	executor.AssertNotCalled(t, "EstimateTopUp", mock.Anything, mock.Anything)
}
