// Package registry holds the static network and token reference data the
// orchestrators validate against: chain IDs, ramp proxy addresses, the
// canonical swap target per network and the settlement token lists.
package registry

import (
	"strings"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// ZeroAddress marks an unset EVM address slot in the registry.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Asset is a registry-declared token: the swap target or a settlement token.
type Asset struct {
	Address         string
	Decimals        int
	Symbol          string
	IsEURStablecoin bool
}

// NetworkInfo is the immutable reference record for one network.
type NetworkInfo struct {
	Network                   entities.Network
	Kind                      entities.NetworkKind
	ChainID                   int64
	BaseAsset                 Asset
	TopUpProxyAddress         string
	TopUpExchangeProxyAddress string
	SwapTarget                Asset
	SettlementTokens          []Asset
	OnRampSwapSource          string // empty when the network has no on-ramp route
}

// Registry provides lookups over the static network set. It is built once
// and never mutated, so all methods are safe for concurrent use.
type Registry struct {
	byNetwork map[entities.Network]*NetworkInfo
	byChainID map[int64]*NetworkInfo
	ordered   []entities.Network
}

// New builds a registry from the given network records. Later duplicates of
// a network override earlier ones, letting config overlay the defaults.
func New(networks []NetworkInfo) *Registry {
	r := &Registry{
		byNetwork: make(map[entities.Network]*NetworkInfo, len(networks)),
		byChainID: make(map[int64]*NetworkInfo, len(networks)),
	}

	for i := range networks {
		info := networks[i]
		if _, seen := r.byNetwork[info.Network]; !seen {
			r.ordered = append(r.ordered, info.Network)
		}
		r.byNetwork[info.Network] = &info
		r.byChainID[info.ChainID] = &info
	}

	return r
}

// Network returns the reference record for a network.
func (r *Registry) Network(network entities.Network) (*NetworkInfo, bool) {
	info, ok := r.byNetwork[network]
	return info, ok
}

// ByChainID maps a wallet-reported chain ID onto a known network.
func (r *Registry) ByChainID(chainID int64) (*NetworkInfo, bool) {
	info, ok := r.byChainID[chainID]
	return info, ok
}

// ChainID returns the canonical chain ID for a network.
func (r *Registry) ChainID(network entities.Network) (int64, bool) {
	info, ok := r.byNetwork[network]
	if !ok {
		return 0, false
	}
	return info.ChainID, true
}

// Kind returns the wallet family of a network.
func (r *Registry) Kind(network entities.Network) (entities.NetworkKind, bool) {
	info, ok := r.byNetwork[network]
	if !ok {
		return "", false
	}
	return info.Kind, true
}

// AvailableNetworks lists every registered network in registration order.
func (r *Registry) AvailableNetworks() []entities.Network {
	out := make([]entities.Network, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// OffRampNetworks lists networks with both top-up proxies deployed.
func (r *Registry) OffRampNetworks() []entities.Network {
	var out []entities.Network
	for _, network := range r.ordered {
		info := r.byNetwork[network]
		if !IsDefaultAddress(info.TopUpProxyAddress) && !IsDefaultAddress(info.TopUpExchangeProxyAddress) {
			out = append(out, network)
		}
	}
	return out
}

// OnRampNetworks lists networks with an on-ramp swap source configured.
func (r *Registry) OnRampNetworks() []entities.Network {
	var out []entities.Network
	for _, network := range r.ordered {
		if r.byNetwork[network].OnRampSwapSource != "" {
			out = append(out, network)
		}
	}
	return out
}

// SwapTarget returns the canonical swap-target asset (USDC) for a network.
func (r *Registry) SwapTarget(network entities.Network) (Asset, bool) {
	info, ok := r.byNetwork[network]
	if !ok {
		return Asset{}, false
	}
	return info.SwapTarget, true
}

// SettlementTokens returns the settlement token list for a network.
func (r *Registry) SettlementTokens(network entities.Network) []Asset {
	info, ok := r.byNetwork[network]
	if !ok {
		return nil
	}
	return info.SettlementTokens
}

// IsSwapTarget reports whether address is the network's canonical swap
// target.
func (r *Registry) IsSwapTarget(address string, network entities.Network) bool {
	info, ok := r.byNetwork[network]
	if !ok {
		return false
	}
	return SameAddress(info.SwapTarget.Address, address)
}

// IsSettlementToken reports whether address is accepted for settlement
// without a swap on the network.
func (r *Registry) IsSettlementToken(address string, network entities.Network) bool {
	for _, st := range r.SettlementTokens(network) {
		if SameAddress(st.Address, address) {
			return true
		}
	}
	return false
}

// IsEURStablecoin reports whether address is an EUR-denominated settlement
// token on the network. Only meaningful when IsSettlementToken holds.
func (r *Registry) IsEURStablecoin(address string, network entities.Network) bool {
	for _, st := range r.SettlementTokens(network) {
		if SameAddress(st.Address, address) {
			return st.IsEURStablecoin
		}
	}
	return false
}

// SameAddress compares chain addresses case-insensitively (EVM addresses are
// checksummed inconsistently in the wild; Solana addresses are case
// sensitive but never collide under folding).
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// IsDefaultAddress reports whether the address slot is unset.
func IsDefaultAddress(address string) bool {
	return address == "" || SameAddress(address, ZeroAddress)
}
