// Package ramp hosts the off-ramp and on-ramp orchestrators behind a single
// SDK facade. The facade owns readiness: Init must succeed before any public
// operation runs.
package ramp

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/audit"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/registry"
	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"github.com/cardramp/ramp_sdk/pkg/logger"
)

// API is the remote card-product surface the orchestrators compose.
// Implemented by rampapi.Client; narrowed here so tests can mock it.
type API interface {
	GetServerSettings(ctx context.Context) (*entities.ServerSettings, error)
	GetTagInfo(ctx context.Context, tag string) (*entities.TagInfo, error)
	GetTagTopUpCode(ctx context.Context, tag string) (string, error)
	ValidateAddress(ctx context.Context, address string) (*entities.ValidateAddressResult, error)
	GetFullTokenData(ctx context.Context, address string, network entities.Network) (*entities.Token, error)
	GetTokenPrices(ctx context.Context, pairs []rampapi.PricePair) ([]entities.TokenPrice, error)
	GetMultiChainWalletTokens(ctx context.Context, address string, kind entities.NetworkKind) ([]entities.WalletToken, error)
	ConvertTokenToEUR(ctx context.Context, params rampapi.ConvertTopUpParams) (*entities.ConvertResult, error)
	ConvertEURToToken(ctx context.Context, params rampapi.ConvertTopUpParams) (*entities.ConvertResult, error)
	ConvertOnRampTokenToEUR(ctx context.Context, params rampapi.ConvertOnRampParams) (*entities.ConvertResult, error)
	ConvertOnRampEURToToken(ctx context.Context, params rampapi.ConvertOnRampParams) (*entities.ConvertResult, error)
	RequestExecute(ctx context.Context, params rampapi.RequestExecuteParams) (*entities.OnRampRequest, error)
	RequestStatus(ctx context.Context, requestUID string) (*rampapi.RequestStatusResponse, error)
	Estimate(ctx context.Context, params rampapi.EstimateParams) (*entities.EstimateOnRampResult, error)
}

var _ API = (*rampapi.Client)(nil)

// Auditor is the fire-and-forget telemetry sink.
type Auditor interface {
	Emit(data map[string]interface{}, address, operationID string)
}

var _ Auditor = (*audit.Service)(nil)

// ExecutorProvider resolves the on-chain executor for a network family.
type ExecutorProvider interface {
	For(kind entities.NetworkKind) (onchain.Executor, error)
}

var _ ExecutorProvider = (*onchain.Dispatcher)(nil)

// Deps wires the SDK's collaborators.
type Deps struct {
	API           API
	Audit         Auditor
	Executors     ExecutorProvider
	Registry      *registry.Registry
	WatchInterval time.Duration
	Logger        *logger.Logger
}

// SDK is the caller-facing facade over both ramp directions.
type SDK struct {
	api           API
	audit         Auditor
	executors     ExecutorProvider
	registry      *registry.Registry
	watchInterval time.Duration
	logger        *logger.Logger

	initialized atomic.Bool

	offRamp *OffRamp
	onRamp  *OnRamp
}

// New creates an uninitialized SDK. Call Init before using any operation.
func New(deps Deps) *SDK {
	if deps.WatchInterval <= 0 {
		deps.WatchInterval = 2 * time.Second
	}

	s := &SDK{
		api:           deps.API,
		audit:         deps.Audit,
		executors:     deps.Executors,
		registry:      deps.Registry,
		watchInterval: deps.WatchInterval,
		logger:        deps.Logger,
	}
	s.offRamp = &OffRamp{sdk: s}
	s.onRamp = &OnRamp{sdk: s}
	return s
}

// Init verifies the remote settings service is reachable and flips the SDK
// ready. Safe to call once; every public operation fails with NotInitialized
// until it succeeds.
func (s *SDK) Init(ctx context.Context) error {
	if _, err := s.api.GetServerSettings(ctx); err != nil {
		return apperrors.Wrap(apperrors.CodeFailedInitialization, "initialization failed", err)
	}
	s.initialized.Store(true)
	s.logger.Info("Ramp SDK initialized")
	return nil
}

func (s *SDK) ensureInitialized() error {
	if !s.initialized.Load() {
		return apperrors.New(apperrors.CodeNotInitialized, "SDK is not initialized, call Init first")
	}
	return nil
}

// OffRamp exposes the top-up orchestrator.
func (s *SDK) OffRamp() *OffRamp { return s.offRamp }

// OnRamp exposes the on-ramp orchestrator.
func (s *SDK) OnRamp() *OnRamp { return s.onRamp }

// GetServerSettings fetches the current limits and feature switches. Always
// fresh, never cached.
func (s *SDK) GetServerSettings(ctx context.Context) (*entities.ServerSettings, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	settings, err := s.api.GetServerSettings(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedSettings, "failed to fetch server settings", err)
	}
	return settings, nil
}

// GetTagInfo resolves the public profile of a holytag.
func (s *SDK) GetTagInfo(ctx context.Context, tag string) (*entities.TagInfo, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	info, err := s.api.GetTagInfo(ctx, tag)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedTagInfo, "failed to fetch tag info", err)
	}
	return info, nil
}

// ValidateAddress reports which ramp operations an address may join.
func (s *SDK) ValidateAddress(ctx context.Context, address string) (*entities.ValidateAddressResult, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	result, err := s.api.ValidateAddress(ctx, address)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedAddressInfo, "failed to validate address", err)
	}
	return result, nil
}

// GetWalletBalances lists a wallet's priced balances across a network family.
func (s *SDK) GetWalletBalances(ctx context.Context, address string, kind entities.NetworkKind) ([]entities.WalletToken, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	tokens, err := s.api.GetMultiChainWalletTokens(ctx, address, kind)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFailedWalletBalances, "failed to fetch wallet balances", err)
	}
	return tokens, nil
}

// AvailableNetworks lists every network the SDK knows about.
func (s *SDK) AvailableNetworks() []entities.Network {
	return s.registry.AvailableNetworks()
}
