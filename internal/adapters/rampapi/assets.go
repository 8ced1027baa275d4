package rampapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// PricePair identifies one asset whose price is requested.
type PricePair struct {
	Address string           `json:"address"`
	Network entities.Network `json:"network"`
}

type tokenPricesResponse struct {
	Prices []entities.TokenPrice `json:"prices"`
}

type walletTokensResponse struct {
	Tokens []entities.WalletToken `json:"tokens"`
}

// GetFullTokenData resolves the full price-annotated snapshot of one asset
// on one network.
func (c *Client) GetFullTokenData(ctx context.Context, address string, network entities.Network) (*entities.Token, error) {
	endpoint := fmt.Sprintf("assets/%s/%s", url.PathEscape(string(network)), url.PathEscape(address))
	var response entities.Token
	if err := c.getAssetsWithRetry(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("get full token data failed: %w", err)
	}
	return &response, nil
}

// GetTokenPrices fetches USD price quotes for a batch of assets.
func (c *Client) GetTokenPrices(ctx context.Context, pairs []PricePair) ([]entities.TokenPrice, error) {
	var response tokenPricesResponse
	if err := c.doAssets(ctx, "POST", "prices", struct {
		Pairs []PricePair `json:"pairs"`
	}{Pairs: pairs}, &response); err != nil {
		return nil, fmt.Errorf("get token prices failed: %w", err)
	}
	return response.Prices, nil
}

// GetMultiChainWalletTokens lists a wallet's priced balances across every
// network of the given family.
func (c *Client) GetMultiChainWalletTokens(ctx context.Context, address string, kind entities.NetworkKind) ([]entities.WalletToken, error) {
	endpoint := fmt.Sprintf("wallets/%s/tokens?kind=%s", url.PathEscape(address), url.QueryEscape(string(kind)))
	var response walletTokensResponse
	if err := c.getAssetsWithRetry(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("get wallet tokens failed: %w", err)
	}
	return response.Tokens, nil
}
