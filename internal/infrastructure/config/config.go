package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
	"github.com/cardramp/ramp_sdk/internal/infrastructure/registry"
)

// Config holds all configuration for the ramp service.
type Config struct {
	Environment string                   `mapstructure:"environment"`
	LogLevel    string                   `mapstructure:"log_level"`
	Server      ServerConfig             `mapstructure:"server"`
	Redis       RedisConfig              `mapstructure:"redis"`
	RampAPI     RampAPIConfig            `mapstructure:"ramp_api"`
	Walletd     WalletdConfig            `mapstructure:"walletd"`
	Audit       AuditConfig              `mapstructure:"audit"`
	Watcher     WatcherConfig            `mapstructure:"watcher"`
	Tracing     TracingConfig            `mapstructure:"tracing"`
	Networks    map[string]NetworkConfig `mapstructure:"networks"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

type RedisConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MaxRetries int    `mapstructure:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size"`
}

// RampAPIConfig points at the remote card-product services.
type RampAPIConfig struct {
	CoreBaseURL   string `mapstructure:"core_base_url"`   // settings, tags, audit, on-ramp
	AssetsBaseURL string `mapstructure:"assets_base_url"` // assets, prices, conversions
	APIKey        string `mapstructure:"api_key"`
	Timeout       int    `mapstructure:"timeout"`     // seconds
	MaxRetries    int    `mapstructure:"max_retries"` // applied to idempotent reads only
}

// WalletdConfig points at the wallet daemon that signs and submits
// on-chain operations on our behalf.
type WalletdConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	OperatorAddress string `mapstructure:"operator_address"`
	Timeout         int    `mapstructure:"timeout"` // seconds; on-chain waits run long
}

type AuditConfig struct {
	QueueSize    int `mapstructure:"queue_size"`
	DrainTimeout int `mapstructure:"drain_timeout"` // seconds
}

type WatcherConfig struct {
	IntervalMS       int `mapstructure:"interval_ms"`
	DefaultTimeoutMS int `mapstructure:"default_timeout_ms"` // 0 disables the timeout
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	CollectorURL string  `mapstructure:"collector_url"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Insecure     bool    `mapstructure:"insecure"`
}

// NetworkConfig overlays or extends the compiled-in network registry.
type NetworkConfig struct {
	Kind                      string        `mapstructure:"kind"`
	ChainID                   int64         `mapstructure:"chain_id"`
	BaseAsset                 AssetConfig   `mapstructure:"base_asset"`
	TopUpProxyAddress         string        `mapstructure:"topup_proxy_address"`
	TopUpExchangeProxyAddress string        `mapstructure:"topup_exchange_proxy_address"`
	SwapTarget                AssetConfig   `mapstructure:"swap_target"`
	SettlementTokens          []AssetConfig `mapstructure:"settlement_tokens"`
	OnRampSwapSource          string        `mapstructure:"onramp_swap_source"`
}

type AssetConfig struct {
	Address         string `mapstructure:"address"`
	Decimals        int    `mapstructure:"decimals"`
	Symbol          string `mapstructure:"symbol"`
	IsEURStablecoin bool   `mapstructure:"is_eur_stablecoin"`
}

// Load reads configuration from config.yaml (./configs or .) with environment
// variable overrides, after sourcing a .env file when present.
func Load() (*Config, error) {
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 120) // watch endpoints hold the response open
	viper.SetDefault("server.rate_limit_per_min", 120)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("ramp_api.core_base_url", "https://apicore.cardramp.io")
	viper.SetDefault("ramp_api.assets_base_url", "https://apiassets.cardramp.io")
	viper.SetDefault("ramp_api.timeout", 30)
	viper.SetDefault("ramp_api.max_retries", 3)

	viper.SetDefault("walletd.base_url", "http://localhost:9380")
	viper.SetDefault("walletd.timeout", 600)

	viper.SetDefault("audit.queue_size", 256)
	viper.SetDefault("audit.drain_timeout", 5)

	viper.SetDefault("watcher.interval_ms", 2000)
	viper.SetDefault("watcher.default_timeout_ms", 0)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.collector_url", "localhost:4317")
	viper.SetDefault("tracing.sample_rate", 1.0)
	viper.SetDefault("tracing.insecure", true)
}

func validate(config *Config) error {
	if config.RampAPI.APIKey == "" {
		return fmt.Errorf("ramp_api.api_key is required")
	}
	if config.RampAPI.CoreBaseURL == "" || config.RampAPI.AssetsBaseURL == "" {
		return fmt.Errorf("ramp_api base URLs are required")
	}
	if config.Watcher.IntervalMS <= 0 {
		return fmt.Errorf("watcher.interval_ms must be positive")
	}
	if config.Audit.QueueSize <= 0 {
		return fmt.Errorf("audit.queue_size must be positive")
	}
	return nil
}

// WatchInterval returns the watcher poll interval as a duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watcher.IntervalMS) * time.Millisecond
}

// WatchTimeout returns the default watch timeout; zero means none.
func (c *Config) WatchTimeout() time.Duration {
	return time.Duration(c.Watcher.DefaultTimeoutMS) * time.Millisecond
}

// RedisAddr renders the redis host:port pair.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// BuildRegistry overlays config-declared networks onto the compiled-in
// defaults and returns the resulting registry.
func (c *Config) BuildRegistry() *registry.Registry {
	infos := registry.DefaultNetworks()

	for name, nc := range c.Networks {
		kind := entities.NetworkKindEVM
		if strings.EqualFold(nc.Kind, string(entities.NetworkKindSolana)) {
			kind = entities.NetworkKindSolana
		}

		info := registry.NetworkInfo{
			Network:                   entities.Network(name),
			Kind:                      kind,
			ChainID:                   nc.ChainID,
			BaseAsset:                 toAsset(nc.BaseAsset),
			TopUpProxyAddress:         nc.TopUpProxyAddress,
			TopUpExchangeProxyAddress: nc.TopUpExchangeProxyAddress,
			SwapTarget:                toAsset(nc.SwapTarget),
			OnRampSwapSource:          nc.OnRampSwapSource,
		}
		for _, st := range nc.SettlementTokens {
			info.SettlementTokens = append(info.SettlementTokens, toAsset(st))
		}

		infos = append(infos, info)
	}

	return registry.New(infos)
}

func toAsset(a AssetConfig) registry.Asset {
	return registry.Asset{
		Address:         a.Address,
		Decimals:        a.Decimals,
		Symbol:          a.Symbol,
		IsEURStablecoin: a.IsEURStablecoin,
	}
}
