package ramp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/limits"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/registry"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"github.com/cardramp/ramp_sdk/pkg/metrics"
)

// TestHolytag is the reserved recipient tag integrators use to rehearse the
// full top-up flow without moving real settlement value. Matching is
// case-insensitive; the minimum bound is skipped and the maximum bound is
// replaced by TestTopUpCeiling.
const TestHolytag = "SDKTEST"

// TestTopUpCeiling is the fixed EUR ceiling applied under TestHolytag.
var TestTopUpCeiling = decimal.NewFromInt(1)

// OffRamp orchestrates top-ups: wallet token in, EUR card balance out.
type OffRamp struct {
	sdk *SDK
}

// TopUpParams describes one top-up request.
type TopUpParams struct {
	Sender       string
	TokenAddress string
	Network      entities.Network
	Amount       decimal.Decimal
	TransferData entities.TransferData // optional caller-supplied swap authorization
	Holytag      string
}

// TopUpEvents carries the caller's optional progress hooks.
type TopUpEvents struct {
	OnHashGenerate func(hash string)
	OnStepChange   func(step entities.TopUpStep)
}

// TopUp executes the full top-up state machine. Steps run strictly in
// sequence and no step is retried; the first failure terminates the call.
func (o *OffRamp) TopUp(ctx context.Context, params TopUpParams, events TopUpEvents) error {
	if err := o.sdk.ensureInitialized(); err != nil {
		return err
	}

	start := time.Now()
	err := o.topUp(ctx, params, events)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.TopUpTotal.WithLabelValues(outcome).Inc()
	metrics.TopUpDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}

func (o *OffRamp) topUp(ctx context.Context, params TopUpParams, events TopUpEvents) error {
	operationID := uuid.NewString()

	// Audit before any validation: telemetry must capture attempts even
	// when the wallet is on the wrong network.
	o.sdk.audit.Emit(map[string]interface{}{
		"operation":    "topup",
		"tokenAddress": params.TokenAddress,
		"network":      params.Network,
		"amount":       params.Amount.String(),
		"holytag":      params.Holytag,
	}, params.Sender, operationID)

	info, ok := o.sdk.registry.Network(params.Network)
	if !ok {
		return apperrors.New(apperrors.CodeUnsupportedNetwork, fmt.Sprintf("network %q is not supported", params.Network))
	}

	executor, err := o.sdk.executors.For(info.Kind)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnsupportedNetwork, "no executor for network", err)
	}

	chainID, err := executor.ChainID(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedTopUp, "failed to read wallet chain id", err)
	}
	walletNetwork, ok := o.sdk.registry.ByChainID(chainID)
	if !ok {
		return apperrors.New(apperrors.CodeUnsupportedNetwork, fmt.Sprintf("wallet chain id %d maps to no supported network", chainID))
	}
	if walletNetwork.Network != params.Network {
		return apperrors.New(apperrors.CodeUnexpectedWalletNetwork,
			fmt.Sprintf("wallet is on %q but the token is on %q", walletNetwork.Network, params.Network))
	}

	receiverHash, err := o.sdk.api.GetTagTopUpCode(ctx, params.Holytag)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedTagInfo, "failed to resolve holytag top-up code", err)
	}

	token, err := o.sdk.api.GetFullTokenData(ctx, params.TokenAddress, params.Network)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedTopUp, "failed to fetch token data", err)
	}

	conversion, err := o.sdk.api.ConvertTokenToEUR(ctx, rampapi.ConvertTopUpParams{
		Network:                   params.Network,
		TokenAddress:              token.Address,
		TokenDecimals:             token.Decimals,
		Amount:                    params.Amount,
		TopUpProxyAddress:         info.TopUpProxyAddress,
		TopUpExchangeProxyAddress: info.TopUpExchangeProxyAddress,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedConversion, "failed to convert token amount to EUR", err)
	}
	amountEUR, err := decimal.NewFromString(conversion.EURAmount)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedConversion, "conversion returned a malformed EUR amount", err)
	}

	// Settings are re-fetched on every call: limits move with the market.
	settings, err := o.sdk.api.GetServerSettings(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFailedSettings, "failed to fetch server settings", err)
	}

	if err := validateTopUpAmount(amountEUR, settings, params.Holytag); err != nil {
		return err
	}
	metrics.TopUpAmountEUR.Observe(amountEUR.InexactFloat64())

	transferData, swapTargetPrice, err := o.resolveSwapPath(ctx, token, info, params, conversion)
	if err != nil {
		return err
	}

	execErr := executor.ExecuteTopUp(ctx, onchain.ExecuteParams{
		Sender:          params.Sender,
		Token:           *token,
		Amount:          params.Amount,
		SwapTargetPrice: swapTargetPrice,
		TransferData:    transferData,
		ReceiverHash:    receiverHash,
		Events: onchain.Events{
			OnTransactionHash: events.OnHashGenerate,
			OnStep: func(step onchain.StepKind, state onchain.StepState) {
				if state != onchain.StatePending || events.OnStepChange == nil {
					return
				}
				events.OnStepChange(callerStep(step))
			},
			OnCallData: func(callData string) {
				o.sdk.audit.Emit(map[string]interface{}{
					"operation": "topup_call_data",
					"callData":  callData,
				}, params.Sender, operationID)
			},
		},
	})
	if execErr != nil {
		// Classified errors (user rejections, domain failures) pass through.
		return apperrors.Wrap(apperrors.CodeFailedTopUp, "top-up execution failed", execErr)
	}

	o.sdk.logger.Info("Top-up completed",
		"sender", params.Sender,
		"network", params.Network,
		"amount_eur", amountEUR,
		"operation_id", operationID)
	return nil
}

// validateTopUpAmount applies the tolerance-banded bounds check, honoring
// the test-holytag override.
func validateTopUpAmount(amountEUR decimal.Decimal, settings *entities.ServerSettings, holytag string) error {
	min := settings.MinTopUpAmountInEUR
	max := settings.MaxTopUpAmountInEUR

	if strings.EqualFold(holytag, TestHolytag) {
		// Test tag: no minimum, fixed low ceiling regardless of settings.
		max = TestTopUpCeiling
		if amountEUR.GreaterThan(max.Mul(limits.ToleranceTopUp.Upper)) {
			return apperrors.New(apperrors.CodeInvalidTopUpAmount,
				fmt.Sprintf("Maximum allowed amount is %s EUR", max))
		}
		return nil
	}

	switch limits.Validate(amountEUR, min, max, limits.ToleranceTopUp) {
	case limits.OutcomeBelowMinimum:
		return apperrors.New(apperrors.CodeInvalidTopUpAmount,
			fmt.Sprintf("Minimum allowed amount is %s EUR", min))
	case limits.OutcomeAboveMaximum:
		return apperrors.New(apperrors.CodeInvalidTopUpAmount,
			fmt.Sprintf("Maximum allowed amount is %s EUR", max))
	}
	return nil
}

// resolveSwapPath classifies the input token and decides which transfer data
// and swap-target price the execution gets. Swap-target and EUR-settlement
// tokens settle directly: any transfer data, caller-supplied or
// conversion-produced, is discarded so an already-settled asset is never
// re-swapped.
func (o *OffRamp) resolveSwapPath(ctx context.Context, token *entities.Token, info *registry.NetworkInfo, params TopUpParams, conversion *entities.ConvertResult) (entities.TransferData, decimal.Decimal, error) {
	reg := o.sdk.registry

	if reg.IsSwapTarget(token.Address, params.Network) {
		return nil, token.PriceUSD, nil
	}
	if reg.IsSettlementToken(token.Address, params.Network) && reg.IsEURStablecoin(token.Address, params.Network) {
		return nil, token.PriceUSD, nil
	}

	prices, err := o.sdk.api.GetTokenPrices(ctx, []rampapi.PricePair{{Address: info.SwapTarget.Address, Network: params.Network}})
	if err != nil || len(prices) == 0 {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.CodeFailedTopUp, "failed to fetch swap target price", err)
	}

	// A caller-supplied authorization wins; otherwise adopt the one the
	// conversion produced.
	transferData := params.TransferData
	if len(transferData) == 0 {
		transferData = conversion.TransferData
	}

	return transferData, prices[0].Price, nil
}

// callerStep maps internal step kinds to the caller-facing vocabulary.
func callerStep(step onchain.StepKind) entities.TopUpStep {
	switch step {
	case onchain.StepConfirm:
		return entities.TopUpStepConfirming
	case onchain.StepApprove:
		return entities.TopUpStepApproving
	default:
		return entities.TopUpStepSending
	}
}

// EstimationParams describes a top-up to be estimated.
type EstimationParams struct {
	Sender       string
	TokenAddress string
	Network      entities.Network
	Amount       decimal.Decimal
}

// GetTopUpEstimation fans out the independent remote reads, then asks the
// on-chain executor for the total fee. The estimation must resolve to the
// execute-with-permit flow; anything else means the wallet cannot run the
// compound transaction and the estimate fails.
func (o *OffRamp) GetTopUpEstimation(ctx context.Context, params EstimationParams) (string, error) {
	if err := o.sdk.ensureInitialized(); err != nil {
		return "", err
	}

	info, ok := o.sdk.registry.Network(params.Network)
	if !ok {
		return "", apperrors.New(apperrors.CodeUnsupportedNetwork, fmt.Sprintf("network %q is not supported", params.Network))
	}

	var (
		token      *entities.Token
		conversion *entities.ConvertResult
		prices     []entities.TokenPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		token, err = o.sdk.api.GetFullTokenData(gctx, params.TokenAddress, params.Network)
		return err
	})
	g.Go(func() error {
		var err error
		conversion, err = o.sdk.api.ConvertTokenToEUR(gctx, rampapi.ConvertTopUpParams{
			Network:                   params.Network,
			TokenAddress:              params.TokenAddress,
			Amount:                    params.Amount,
			TopUpProxyAddress:         info.TopUpProxyAddress,
			TopUpExchangeProxyAddress: info.TopUpExchangeProxyAddress,
		})
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = o.sdk.api.GetTokenPrices(gctx, []rampapi.PricePair{{Address: info.SwapTarget.Address, Network: params.Network}})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", apperrors.Wrap(apperrors.CodeFailedEstimation, "failed to gather estimation inputs", err)
	}
	if len(prices) == 0 {
		return "", apperrors.New(apperrors.CodeFailedEstimation, "no swap target price returned")
	}

	executor, err := o.sdk.executors.For(info.Kind)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFailedEstimation, "no executor for network", err)
	}

	estimation, err := executor.EstimateTopUp(ctx, onchain.EstimateParams{
		Sender:          params.Sender,
		Token:           *token,
		Amount:          params.Amount,
		SwapTargetPrice: prices[0].Price,
		TransferData:    conversion.TransferData,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFailedEstimation, "on-chain estimation failed", err)
	}
	if estimation.Flow != onchain.FlowExecuteWithPermit {
		return "", apperrors.New(apperrors.CodeFailedEstimation,
			fmt.Sprintf("unexpected allowance flow %q", estimation.Flow))
	}

	return estimation.TotalFee.String(), nil
}
