package rampapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// RequestExecuteParams creates a fiat-purchase request against the card
// balance, delivering tokens to the beneficiary address.
type RequestExecuteParams struct {
	BeneficiaryAddress string           `json:"beneficiaryAddress"`
	TokenAddress       string           `json:"tokenAddress"`
	Network            entities.Network `json:"network"`
	AmountEUR          decimal.Decimal  `json:"amountEUR"`
}

// RequestStatusResponse is one observation of an on-ramp request.
type RequestStatusResponse struct {
	Status entities.OnRampStatus `json:"status"`
	Hash   string                `json:"hash,omitempty"`
	Reason string                `json:"reason,omitempty"`
}

// EstimateParams asks for an advisory on-ramp fee/amount estimate.
type EstimateParams struct {
	TokenAddress string           `json:"tokenAddress"`
	Network      entities.Network `json:"network"`
	AmountEUR    decimal.Decimal  `json:"amountEUR"`
}

// RequestExecute submits a new on-ramp request. Wallet-side rejections come
// back as user_reject_sign error envelopes.
func (c *Client) RequestExecute(ctx context.Context, params RequestExecuteParams) (*entities.OnRampRequest, error) {
	c.logger.Info("Creating on-ramp request",
		"beneficiary", params.BeneficiaryAddress,
		"network", params.Network,
		"amount_eur", params.AmountEUR)

	var response entities.OnRampRequest
	if err := c.doCore(ctx, "POST", "onramp/requests", params, &response); err != nil {
		return nil, fmt.Errorf("request on-ramp execute failed: %w", err)
	}

	c.logger.Info("Created on-ramp request", "request_uid", response.RequestUID)
	return &response, nil
}

// RequestStatus fetches the current lifecycle status of a request. Watch
// ticks call this directly, never through the retrier: the watcher supplies
// the cadence and must see transport errors immediately.
func (c *Client) RequestStatus(ctx context.Context, requestUID string) (*RequestStatusResponse, error) {
	endpoint := fmt.Sprintf("onramp/requests/%s", url.PathEscape(requestUID))
	var response RequestStatusResponse
	if err := c.doCore(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("get on-ramp request status failed: %w", err)
	}
	return &response, nil
}

// Estimate fetches an advisory estimate of the delivered amount and fee.
func (c *Client) Estimate(ctx context.Context, params EstimateParams) (*entities.EstimateOnRampResult, error) {
	var response entities.EstimateOnRampResult
	if err := c.doCore(ctx, "POST", "onramp/estimate", params, &response); err != nil {
		return nil, fmt.Errorf("estimate on-ramp failed: %w", err)
	}
	return &response, nil
}
