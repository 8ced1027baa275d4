package rampapi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// ConvertTopUpParams describes one top-up conversion: the wallet asset, the
// proxies the eventual on-chain call settles through, and the amount on the
// side being converted from.
type ConvertTopUpParams struct {
	Network                   entities.Network `json:"network"`
	TokenAddress              string           `json:"tokenAddress"`
	TokenDecimals             int              `json:"tokenDecimals"`
	Amount                    decimal.Decimal  `json:"amount"`
	TopUpProxyAddress         string           `json:"topUpProxyAddress"`
	TopUpExchangeProxyAddress string           `json:"topUpExchangeProxyAddress"`
}

// ConvertOnRampParams describes an on-ramp conversion: token-only amounts,
// no proxies and no transfer data involved.
type ConvertOnRampParams struct {
	Network      entities.Network `json:"network"`
	TokenAddress string           `json:"tokenAddress"`
	Amount       decimal.Decimal  `json:"amount"`
}

// ConvertTokenToEUR quotes a wallet token amount in EUR for a top-up. The
// returned TransferData, when present, authorizes the swap leg and must be
// passed through to execution unmodified.
func (c *Client) ConvertTokenToEUR(ctx context.Context, params ConvertTopUpParams) (*entities.ConvertResult, error) {
	var response entities.ConvertResult
	if err := c.doAssets(ctx, "POST", "swap/token-to-eur", params, &response); err != nil {
		return nil, fmt.Errorf("convert token to EUR failed: %w", err)
	}
	return &response, nil
}

// ConvertEURToToken quotes the token amount needed to top up a given EUR
// value.
func (c *Client) ConvertEURToToken(ctx context.Context, params ConvertTopUpParams) (*entities.ConvertResult, error) {
	var response entities.ConvertResult
	if err := c.doAssets(ctx, "POST", "swap/eur-to-token", params, &response); err != nil {
		return nil, fmt.Errorf("convert EUR to token failed: %w", err)
	}
	return &response, nil
}

// ConvertOnRampTokenToEUR quotes an on-ramp delivery amount in EUR.
func (c *Client) ConvertOnRampTokenToEUR(ctx context.Context, params ConvertOnRampParams) (*entities.ConvertResult, error) {
	var response entities.ConvertResult
	if err := c.doAssets(ctx, "POST", "onramp/token-to-eur", params, &response); err != nil {
		return nil, fmt.Errorf("convert on-ramp token to EUR failed: %w", err)
	}
	return &response, nil
}

// ConvertOnRampEURToToken quotes the token amount an on-ramp of a given EUR
// value would deliver.
func (c *Client) ConvertOnRampEURToToken(ctx context.Context, params ConvertOnRampParams) (*entities.ConvertResult, error) {
	var response entities.ConvertResult
	if err := c.doAssets(ctx, "POST", "onramp/eur-to-token", params, &response); err != nil {
		return nil, fmt.Errorf("convert on-ramp EUR to token failed: %w", err)
	}
	return &response, nil
}
