package rampapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

type tagTopUpCodeResponse struct {
	Code string `json:"code"`
}

// GetTagInfo resolves the public profile of a holytag. An unknown tag is a
// successful lookup with Found=false, not an error.
func (c *Client) GetTagInfo(ctx context.Context, tag string) (*entities.TagInfo, error) {
	endpoint := fmt.Sprintf("tags/%s", url.PathEscape(tag))
	var response entities.TagInfo
	if err := c.getCoreWithRetry(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("get tag info failed: %w", err)
	}
	return &response, nil
}

// GetTagTopUpCode exchanges a holytag for the opaque top-up recipient code
// the on-chain proxies settle against.
func (c *Client) GetTagTopUpCode(ctx context.Context, tag string) (string, error) {
	endpoint := fmt.Sprintf("tags/%s/topup-code", url.PathEscape(tag))
	var response tagTopUpCodeResponse
	if err := c.getCoreWithRetry(ctx, endpoint, &response); err != nil {
		return "", fmt.Errorf("get tag top-up code failed: %w", err)
	}
	return response.Code, nil
}

// ValidateAddress reports which ramp operations a beneficiary address may
// participate in.
func (c *Client) ValidateAddress(ctx context.Context, address string) (*entities.ValidateAddressResult, error) {
	endpoint := fmt.Sprintf("addresses/%s/validate", url.PathEscape(address))
	var response entities.ValidateAddressResult
	if err := c.getCoreWithRetry(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("validate address failed: %w", err)
	}
	return &response, nil
}
