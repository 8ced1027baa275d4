package ramp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/limits"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"github.com/cardramp/ramp_sdk/pkg/metrics"
	"github.com/cardramp/ramp_sdk/pkg/watch"
)

// OnRamp orchestrates fiat purchases: EUR card balance in, on-chain token
// out, delivered asynchronously by the remote service.
type OnRamp struct {
	sdk *SDK
}

// RequestOnRampParams describes one on-ramp request.
type RequestOnRampParams struct {
	WalletAddress string
	TokenAddress  string
	Network       entities.Network
	FiatAmount    decimal.Decimal
}

// WatchOptions tunes one watch. A zero Timeout means no overall deadline.
type WatchOptions struct {
	Timeout                time.Duration
	WaitForTransactionHash bool
}

// RequestOnRamp validates and submits a fiat-purchase request. The returned
// request carries the UID to watch.
func (o *OnRamp) RequestOnRamp(ctx context.Context, params RequestOnRampParams) (*entities.OnRampRequest, error) {
	if err := o.sdk.ensureInitialized(); err != nil {
		return nil, err
	}

	operationID := uuid.NewString()
	o.sdk.audit.Emit(map[string]interface{}{
		"operation":    "onramp_request",
		"tokenAddress": params.TokenAddress,
		"network":      params.Network,
		"fiatAmount":   params.FiatAmount.String(),
	}, params.WalletAddress, operationID)

	settings, err := o.sdk.api.GetServerSettings(ctx)
	if err != nil {
		metrics.OnRampRequestTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.Wrap(apperrors.CodeFailedSettings, "failed to fetch server settings", err)
	}

	// Direct fiat input: exact bounds, no tolerance band.
	switch limits.Validate(params.FiatAmount, settings.MinOnRampAmountInEUR, settings.MaxOnRampAmountInEUR, limits.ToleranceNone) {
	case limits.OutcomeBelowMinimum:
		metrics.OnRampRequestTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.New(apperrors.CodeInvalidOnRampAmount,
			fmt.Sprintf("Minimum allowed amount is %s EUR", settings.MinOnRampAmountInEUR))
	case limits.OutcomeAboveMaximum:
		metrics.OnRampRequestTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.New(apperrors.CodeInvalidOnRampAmount,
			fmt.Sprintf("Maximum allowed amount is %s EUR", settings.MaxOnRampAmountInEUR))
	}

	token, err := o.sdk.api.GetFullTokenData(ctx, params.TokenAddress, params.Network)
	if err != nil {
		metrics.OnRampRequestTotal.WithLabelValues("failure").Inc()
		return nil, apperrors.Wrap(apperrors.CodeFailedCreateOnRampRequest, "failed to fetch token data", err)
	}

	request, err := o.sdk.api.RequestExecute(ctx, rampapi.RequestExecuteParams{
		BeneficiaryAddress: params.WalletAddress,
		TokenAddress:       token.Address,
		Network:            params.Network,
		AmountEUR:          params.FiatAmount,
	})
	if err != nil {
		metrics.OnRampRequestTotal.WithLabelValues("failure").Inc()
		if rampapi.IsUserRejectedSignature(err) {
			return nil, apperrors.New(apperrors.CodeUserRejectedSignature, "user rejected the signature request")
		}
		created := apperrors.Wrap(apperrors.CodeFailedCreateOnRampRequest, "failed to create on-ramp request", err)
		var apiErr *rampapi.ErrorResponse
		if errors.As(err, &apiErr) && apiErr.Code != "" {
			created.WithPayload(map[string]interface{}{"innerCode": apiErr.Code})
		}
		return nil, created
	}

	metrics.OnRampRequestTotal.WithLabelValues("success").Inc()
	o.sdk.logger.Info("On-ramp request created",
		"request_uid", request.RequestUID,
		"network", params.Network,
		"amount_eur", params.FiatAmount)
	return request, nil
}

// WatchRequestID polls a request until it reaches a terminal status.
// Declines resolve with Success=false rather than an error so callers can
// tell "the money did not move" from "we failed to observe it".
func (o *OnRamp) WatchRequestID(ctx context.Context, requestUID string, opts WatchOptions) (*entities.WatchResult, error) {
	if err := o.sdk.ensureInitialized(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := watch.Poll(ctx, watch.Options{
		Interval: o.sdk.watchInterval,
		Timeout:  opts.Timeout,
	}, func(tickCtx context.Context) (*entities.WatchResult, bool, error) {
		status, err := o.sdk.api.RequestStatus(tickCtx, requestUID)
		if err != nil {
			// One broken tick terminates the whole watch.
			return nil, false, apperrors.Wrap(apperrors.CodeFailedWatchOnRampRequest, "failed to fetch on-ramp request status", err)
		}

		switch status.Status {
		case entities.OnRampStatusNotApproved:
			return nil, false, nil
		case entities.OnRampStatusSuccess:
			if opts.WaitForTransactionHash && status.Hash == "" {
				return nil, false, nil
			}
			return &entities.WatchResult{Success: true, Hash: status.Hash}, true, nil
		case entities.OnRampStatusDeclined:
			return &entities.WatchResult{Success: false}, true, nil
		case entities.OnRampStatusFailed:
			failure := apperrors.New(apperrors.CodeFailedOnRampRequest, "on-ramp request failed")
			failure.WithPayload(map[string]interface{}{"reason": status.Reason})
			return nil, false, failure
		default:
			return nil, false, apperrors.New(apperrors.CodeFailedWatchOnRampRequest,
				fmt.Sprintf("unknown on-ramp status %q", status.Status))
		}
	})

	label := watchLabel(result, err)
	metrics.OnRampWatchDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, watch.ErrTimeout) {
			return nil, apperrors.New(apperrors.CodeFailedWatchOnRampRequestTimeout,
				fmt.Sprintf("on-ramp request %s did not settle within %s", requestUID, opts.Timeout))
		}
		return nil, apperrors.Wrap(apperrors.CodeFailedWatchOnRampRequest, "on-ramp watch failed", err)
	}
	return result, nil
}

func watchLabel(result *entities.WatchResult, err error) string {
	switch {
	case err == nil && result != nil && result.Success:
		return "success"
	case err == nil:
		return "declined"
	case errors.Is(err, watch.ErrTimeout):
		return "timeout"
	default:
		return "failed"
	}
}

// EstimateOnRamp fetches an advisory estimate of the delivered amount and
// fee for a prospective request.
func (o *OnRamp) EstimateOnRamp(ctx context.Context, params RequestOnRampParams) (*entities.EstimateOnRampResult, error) {
	if err := o.sdk.ensureInitialized(); err != nil {
		return nil, err
	}

	estimate, err := o.sdk.api.Estimate(ctx, rampapi.EstimateParams{
		TokenAddress: params.TokenAddress,
		Network:      params.Network,
		AmountEUR:    params.FiatAmount,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedOnRampEstimation, "on-ramp estimation failed", err)
	}
	return estimate, nil
}

// ConvertOnRampAmount quotes how much token a given EUR amount delivers.
func (o *OnRamp) ConvertOnRampAmount(ctx context.Context, tokenAddress string, network entities.Network, amountEUR decimal.Decimal) (*entities.ConvertResult, error) {
	if err := o.sdk.ensureInitialized(); err != nil {
		return nil, err
	}

	result, err := o.sdk.api.ConvertOnRampEURToToken(ctx, rampapi.ConvertOnRampParams{
		Network:      network,
		TokenAddress: tokenAddress,
		Amount:       amountEUR,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedConvertOnRampAmount, "failed to convert on-ramp amount", err)
	}
	return result, nil
}
