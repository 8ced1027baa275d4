package registry

import "github.com/cardramp/ramp_sdk/internal/domain/entities"

// Default returns the built-in mainnet registry. Config-declared networks
// overlay these records (see config.BuildRegistry).
func Default() *Registry {
	return New(DefaultNetworks())
}

// DefaultNetworks lists the compiled-in mainnet reference data.
func DefaultNetworks() []NetworkInfo {
	return []NetworkInfo{
		{
			Network:                   entities.NetworkEthereum,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   1,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "ETH"},
			TopUpProxyAddress:         "0x1F6237acCDeD15A2c95F0Bd0c33214Dbbd6e4a39",
			TopUpExchangeProxyAddress: "0x3B1CAf428bA20e4E19A387Eb7e4aAc0f4d6ebC24",
			SwapTarget:                Asset{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6, Symbol: "USDC"},
				{Address: "0x1aBaEA1f7C830bD89Acc67eC4af516284b1bC33c", Decimals: 6, Symbol: "EURC", IsEURStablecoin: true},
			},
			OnRampSwapSource: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		},
		{
			Network:                   entities.NetworkPolygon,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   137,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "POL"},
			TopUpProxyAddress:         "0x5d20d14C5eFa7e1f20c2cC6fD3a6cC1B5e06a4B8",
			TopUpExchangeProxyAddress: "0x8b6b1bE42d3E2B3f1cD07C6a4cEefC04aC9Ff831",
			SwapTarget:                Asset{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Decimals: 6, Symbol: "USDC"},
			},
			OnRampSwapSource: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
		},
		{
			Network:                   entities.NetworkOptimism,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   10,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "ETH"},
			TopUpProxyAddress:         "0x2a7D6e0bE9E4d0Cb60e4A9bC8D53e5c8bEd1a942",
			TopUpExchangeProxyAddress: "0x9Fc5a3dA61c15E0cA4f5A1a34bE74cFb6E4e2d17",
			SwapTarget:                Asset{Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6, Symbol: "USDC"},
			},
			OnRampSwapSource: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
		},
		{
			Network:                   entities.NetworkArbitrum,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   42161,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "ETH"},
			TopUpProxyAddress:         "0x4E7a5cF4F1fA3c2D9bDd1a6bD0d7E9C3Ba2F8E61",
			TopUpExchangeProxyAddress: "0xC3d4F1e9Ab07d25D6e2B8C9F4A51cE830Ba9D174",
			SwapTarget:                Asset{Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6, Symbol: "USDC"},
			},
			OnRampSwapSource: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
		},
		{
			Network:                   entities.NetworkBase,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   8453,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "ETH"},
			TopUpProxyAddress:         "0x7D14e5C8b9A3F14D9c14E5b2A9Fd0E4cD2386Ba5",
			TopUpExchangeProxyAddress: "0xE92B1C7a4d8F30C5b2A61eD95F8c41E7a0D4c983",
			SwapTarget:                Asset{Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, Symbol: "USDC"},
				{Address: "0x60a3E35Cc302bFA44Cb288Bc5a4F316Fdb1adb42", Decimals: 6, Symbol: "EURC", IsEURStablecoin: true},
			},
			OnRampSwapSource: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		},
		{
			Network:                   entities.NetworkGnosis,
			Kind:                      entities.NetworkKindEVM,
			ChainID:                   100,
			BaseAsset:                 Asset{Address: ZeroAddress, Decimals: 18, Symbol: "xDAI"},
			TopUpProxyAddress:         "0xB57Cd2aF9D8F94cE2aD4C1E3F45Ab80E1D92C6a8",
			TopUpExchangeProxyAddress: "0x6Fa1E48C2b9D1cE3A57D04B8F2E6c491bA03D7e2",
			SwapTarget:                Asset{Address: "0xDDAfbb505ad214D7b80b1f830fcCc89B60fb7A83", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "0xDDAfbb505ad214D7b80b1f830fcCc89B60fb7A83", Decimals: 6, Symbol: "USDC"},
				{Address: "0xcB444e90D8198415266c6a2724b7900fb12FC56E", Decimals: 18, Symbol: "EURe", IsEURStablecoin: true},
			},
		},
		{
			Network:                   entities.NetworkSolana,
			Kind:                      entities.NetworkKindSolana,
			ChainID:                   900, // internal id; Solana has no EVM chain id
			BaseAsset:                 Asset{Address: "So11111111111111111111111111111111111111112", Decimals: 9, Symbol: "SOL"},
			TopUpProxyAddress:         "HRamPTopUpv1111111111111111111111111111111",
			TopUpExchangeProxyAddress: "HRamPXchgv11111111111111111111111111111111",
			SwapTarget:                Asset{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6, Symbol: "USDC"},
			SettlementTokens: []Asset{
				{Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6, Symbol: "USDC"},
			},
			OnRampSwapSource: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		},
	}
}
