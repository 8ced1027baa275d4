// Package walletd implements the on-chain execution capability against an
// external wallet daemon. The daemon owns keys, gas and permit mechanics;
// this client relays parameters in and progress events out.
package walletd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"github.com/cardramp/ramp_sdk/pkg/logger"
)

// Config holds the wallet daemon endpoint.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to one wallet daemon instance. It implements
// onchain.Executor.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

var _ onchain.Executor = (*Client)(nil)

// NewClient creates a wallet daemon client. The timeout covers a full
// compound execution, so it should be generous.
func NewClient(config Config, log *logger.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     log,
	}
}

type chainIDResponse struct {
	ChainID int64 `json:"chainId"`
}

// ChainID reports the chain the daemon's wallet is connected to.
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	var response chainIDResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/chain-id", nil, &response); err != nil {
		return 0, fmt.Errorf("get chain id failed: %w", err)
	}
	return response.ChainID, nil
}

type estimateRequest struct {
	Sender          string                `json:"sender"`
	Token           entities.Token        `json:"token"`
	Amount          decimal.Decimal       `json:"amount"`
	SwapTargetPrice decimal.Decimal       `json:"swapTargetPrice"`
	TransferData    entities.TransferData `json:"transferData,omitempty"`
}

type estimateResponse struct {
	Flow     onchain.AllowanceFlow `json:"flow"`
	TotalFee decimal.Decimal       `json:"totalFee"`
}

// EstimateTopUp resolves the allowance flow and the total fee for a top-up.
func (c *Client) EstimateTopUp(ctx context.Context, params onchain.EstimateParams) (*onchain.Estimation, error) {
	req := estimateRequest{
		Sender:          params.Sender,
		Token:           params.Token,
		Amount:          params.Amount,
		SwapTargetPrice: params.SwapTargetPrice,
		TransferData:    params.TransferData,
	}
	var response estimateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/topup/estimate", req, &response); err != nil {
		return nil, fmt.Errorf("estimate top-up failed: %w", err)
	}
	return &onchain.Estimation{Flow: response.Flow, TotalFee: response.TotalFee}, nil
}

type executeRequest struct {
	Sender          string                `json:"sender"`
	Token           entities.Token        `json:"token"`
	Amount          decimal.Decimal       `json:"amount"`
	SwapTargetPrice decimal.Decimal       `json:"swapTargetPrice"`
	TransferData    entities.TransferData `json:"transferData,omitempty"`
	ReceiverHash    string                `json:"receiverHash"`
}

// executeEvent is one line of the daemon's NDJSON execution stream.
type executeEvent struct {
	Type     string `json:"type"` // call_data | step | tx_hash | done | error
	CallData string `json:"callData,omitempty"`
	Step     string `json:"step,omitempty"`
	State    string `json:"state,omitempty"`
	Hash     string `json:"hash,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ExecuteTopUp drives the compound top-up to completion, relaying each
// streamed event to the caller's hooks as it arrives.
func (c *Client) ExecuteTopUp(ctx context.Context, params onchain.ExecuteParams) error {
	req := executeRequest{
		Sender:          params.Sender,
		Token:           params.Token,
		Amount:          params.Amount,
		SwapTargetPrice: params.SwapTargetPrice,
		TransferData:    params.TransferData,
		ReceiverHash:    params.ReceiverHash,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal execute request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/topup/execute", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return c.decodeError(resp.StatusCode, respBody)
	}

	return c.consumeStream(resp.Body, params.Events)
}

// consumeStream reads the NDJSON event stream until a done or error event.
// A stream ending without either means the daemon died mid-execution.
func (c *Client) consumeStream(r io.Reader, events onchain.Events) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var event executeEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return fmt.Errorf("malformed execution event: %w", err)
		}

		switch event.Type {
		case "call_data":
			if events.OnCallData != nil {
				events.OnCallData(event.CallData)
			}
		case "step":
			if events.OnStep != nil {
				events.OnStep(onchain.StepKind(event.Step), onchain.StepState(event.State))
			}
		case "tx_hash":
			if events.OnTransactionHash != nil {
				events.OnTransactionHash(event.Hash)
			}
		case "done":
			return nil
		case "error":
			return c.rejectionError(event.Code, event.Message)
		default:
			c.logger.Warn("Unknown execution event type", "type", event.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("execution stream broken: %w", err)
	}
	return fmt.Errorf("execution stream ended without terminal event")
}

func (c *Client) decodeError(status int, body []byte) error {
	var event executeEvent
	if err := json.Unmarshal(body, &event); err == nil && event.Code != "" {
		return c.rejectionError(event.Code, event.Message)
	}
	return fmt.Errorf("walletd error: status %d, body: %s", status, string(body))
}

// rejectionError maps daemon reason codes onto classified domain errors so
// the orchestrators can pass them through untouched.
func (c *Client) rejectionError(code, message string) error {
	switch code {
	case "user_reject_sign":
		return apperrors.New(apperrors.CodeUserRejectedSignature, "user rejected the signature request")
	case "user_reject_transaction":
		return apperrors.New(apperrors.CodeUserRejectedTransaction, "user rejected the transaction")
	}
	if message == "" {
		message = code
	}
	return fmt.Errorf("on-chain execution failed: %s", message)
}

// doJSON performs one non-streaming round trip.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, response interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.decodeError(resp.StatusCode, respBody)
	}

	if response != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, response); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
