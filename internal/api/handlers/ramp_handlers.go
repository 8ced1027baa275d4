package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/ramp"
	"github.com/cardramp/ramp_sdk/pkg/logger"
)

// RampHandlers serves the ramp operation surface over HTTP.
type RampHandlers struct {
	sdk    *ramp.SDK
	logger *logger.Logger
}

func NewRampHandlers(sdk *ramp.SDK, log *logger.Logger) *RampHandlers {
	return &RampHandlers{sdk: sdk, logger: log}
}

// GetSettings returns the current server-side ramp limits.
func (h *RampHandlers) GetSettings(c *gin.Context) {
	settings, err := h.sdk.GetServerSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetNetworks lists the supported networks.
func (h *RampHandlers) GetNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": h.sdk.AvailableNetworks()})
}

// GetTagInfo resolves a holytag's public profile.
func (h *RampHandlers) GetTagInfo(c *gin.Context) {
	info, err := h.sdk.GetTagInfo(c.Request.Context(), c.Param("tag"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ValidateAddress reports which ramp operations an address may join.
func (h *RampHandlers) ValidateAddress(c *gin.Context) {
	result, err := h.sdk.ValidateAddress(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetWalletBalances lists a wallet's priced balances.
func (h *RampHandlers) GetWalletBalances(c *gin.Context) {
	kind := entities.NetworkKind(c.DefaultQuery("kind", string(entities.NetworkKindEVM)))
	tokens, err := h.sdk.GetWalletBalances(c.Request.Context(), c.Param("address"), kind)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

type estimateTopUpRequest struct {
	Sender       string `json:"sender" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Network      string `json:"network" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}

// EstimateTopUp returns the total estimated on-chain fee for a top-up.
func (h *RampHandlers) EstimateTopUp(c *gin.Context) {
	var req estimateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeBadRequest(c, err)
		return
	}

	fee, err := h.sdk.OffRamp().GetTopUpEstimation(c.Request.Context(), ramp.EstimationParams{
		Sender:       req.Sender,
		TokenAddress: req.TokenAddress,
		Network:      entities.Network(req.Network),
		Amount:       amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalFee": fee})
}

type topUpRequest struct {
	Sender       string `json:"sender" binding:"required"`
	TokenAddress string `json:"tokenAddress" binding:"required"`
	Network      string `json:"network" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	Holytag      string `json:"holytag" binding:"required"`
	TransferData []byte `json:"transferData,omitempty"`
}

// TopUp runs the full top-up flow with the operator wallet. Step
// transitions and transaction hashes are collected and returned to the
// caller once the flow completes.
func (h *RampHandlers) TopUp(c *gin.Context) {
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeBadRequest(c, err)
		return
	}

	var steps []entities.TopUpStep
	var hashes []string

	err = h.sdk.OffRamp().TopUp(c.Request.Context(), ramp.TopUpParams{
		Sender:       req.Sender,
		TokenAddress: req.TokenAddress,
		Network:      entities.Network(req.Network),
		Amount:       amount,
		TransferData: entities.TransferData(req.TransferData),
		Holytag:      req.Holytag,
	}, ramp.TopUpEvents{
		OnHashGenerate: func(hash string) { hashes = append(hashes, hash) },
		OnStepChange:   func(step entities.TopUpStep) { steps = append(steps, step) },
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"steps": steps, "hashes": hashes})
}

type onRampRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	TokenAddress  string `json:"tokenAddress" binding:"required"`
	Network       string `json:"network" binding:"required"`
	FiatAmount    string `json:"fiatAmount" binding:"required"`
}

func (r onRampRequest) toParams() (ramp.RequestOnRampParams, error) {
	amount, err := decimal.NewFromString(r.FiatAmount)
	if err != nil {
		return ramp.RequestOnRampParams{}, err
	}
	return ramp.RequestOnRampParams{
		WalletAddress: r.WalletAddress,
		TokenAddress:  r.TokenAddress,
		Network:       entities.Network(r.Network),
		FiatAmount:    amount,
	}, nil
}

// CreateOnRampRequest submits a new on-ramp request.
func (h *RampHandlers) CreateOnRampRequest(c *gin.Context) {
	var req onRampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		writeBadRequest(c, err)
		return
	}

	request, err := h.sdk.OnRamp().RequestOnRamp(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// EstimateOnRamp returns an advisory delivery estimate.
func (h *RampHandlers) EstimateOnRamp(c *gin.Context) {
	var req onRampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		writeBadRequest(c, err)
		return
	}

	estimate, err := h.sdk.OnRamp().EstimateOnRamp(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// WatchOnRampRequest blocks until the request reaches a terminal status or
// the watch times out. The response write timeout bounds how long a client
// can reasonably wait; longer watches belong in the caller's own loop.
func (h *RampHandlers) WatchOnRampRequest(c *gin.Context) {
	opts := ramp.WatchOptions{
		WaitForTransactionHash: c.Query("waitForHash") == "true",
	}
	if raw := c.Query("timeoutMs"); raw != "" {
		d, err := time.ParseDuration(raw + "ms")
		if err != nil {
			writeBadRequest(c, err)
			return
		}
		opts.Timeout = d
	}

	result, err := h.sdk.OnRamp().WatchRequestID(c.Request.Context(), c.Param("uid"), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
