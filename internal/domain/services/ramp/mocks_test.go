package ramp

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cardramp/ramp_sdk/internal/adapters/rampapi"
	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/domain/services/onchain"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/registry"
	"github.com/cardramp/ramp_sdk/pkg/logger"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetServerSettings(ctx context.Context) (*entities.ServerSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServerSettings), args.Error(1)
}

func (m *mockAPI) GetTagInfo(ctx context.Context, tag string) (*entities.TagInfo, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TagInfo), args.Error(1)
}

func (m *mockAPI) GetTagTopUpCode(ctx context.Context, tag string) (string, error) {
	args := m.Called(ctx, tag)
	return args.String(0), args.Error(1)
}

func (m *mockAPI) ValidateAddress(ctx context.Context, address string) (*entities.ValidateAddressResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ValidateAddressResult), args.Error(1)
}

func (m *mockAPI) GetFullTokenData(ctx context.Context, address string, network entities.Network) (*entities.Token, error) {
	args := m.Called(ctx, address, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Token), args.Error(1)
}

func (m *mockAPI) GetTokenPrices(ctx context.Context, pairs []rampapi.PricePair) ([]entities.TokenPrice, error) {
	args := m.Called(ctx, pairs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TokenPrice), args.Error(1)
}

func (m *mockAPI) GetMultiChainWalletTokens(ctx context.Context, address string, kind entities.NetworkKind) ([]entities.WalletToken, error) {
	args := m.Called(ctx, address, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.WalletToken), args.Error(1)
}

func (m *mockAPI) ConvertTokenToEUR(ctx context.Context, params rampapi.ConvertTopUpParams) (*entities.ConvertResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConvertResult), args.Error(1)
}

func (m *mockAPI) ConvertEURToToken(ctx context.Context, params rampapi.ConvertTopUpParams) (*entities.ConvertResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConvertResult), args.Error(1)
}

func (m *mockAPI) ConvertOnRampTokenToEUR(ctx context.Context, params rampapi.ConvertOnRampParams) (*entities.ConvertResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConvertResult), args.Error(1)
}

func (m *mockAPI) ConvertOnRampEURToToken(ctx context.Context, params rampapi.ConvertOnRampParams) (*entities.ConvertResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ConvertResult), args.Error(1)
}

func (m *mockAPI) RequestExecute(ctx context.Context, params rampapi.RequestExecuteParams) (*entities.OnRampRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OnRampRequest), args.Error(1)
}

func (m *mockAPI) RequestStatus(ctx context.Context, requestUID string) (*rampapi.RequestStatusResponse, error) {
	args := m.Called(ctx, requestUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rampapi.RequestStatusResponse), args.Error(1)
}

func (m *mockAPI) Estimate(ctx context.Context, params rampapi.EstimateParams) (*entities.EstimateOnRampResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EstimateOnRampResult), args.Error(1)
}

// recordingAuditor captures emitted events synchronously.
type recordingAuditor struct {
	mu     sync.Mutex
	events []entities.AuditEvent
}

func (r *recordingAuditor) Emit(data map[string]interface{}, address, operationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, entities.AuditEvent{Data: data, Address: address, OperationID: operationID})
}

func (r *recordingAuditor) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) ChainID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExecutor) EstimateTopUp(ctx context.Context, params onchain.EstimateParams) (*onchain.Estimation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*onchain.Estimation), args.Error(1)
}

func (m *mockExecutor) ExecuteTopUp(ctx context.Context, params onchain.ExecuteParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func newTestSDK(api *mockAPI, auditor *recordingAuditor, executor *mockExecutor) *SDK {
	sdk := New(Deps{
		API:   api,
		Audit: auditor,
		Executors: onchain.NewDispatcher(map[entities.NetworkKind]onchain.Executor{
			entities.NetworkKindEVM:    executor,
			entities.NetworkKindSolana: executor,
		}),
		Registry:      registry.Default(),
		WatchInterval: 5 * time.Millisecond,
		Logger:        logger.NewNop(),
	})
	sdk.initialized.Store(true)
	return sdk
}
