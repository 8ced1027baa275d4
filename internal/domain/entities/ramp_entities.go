package entities

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Network identifies a target chain supported by the card product.
type Network string

const (
	NetworkEthereum  Network = "ethereum"
	NetworkPolygon   Network = "polygon"
	NetworkOptimism  Network = "optimism"
	NetworkArbitrum  Network = "arbitrum"
	NetworkBase      Network = "base"
	NetworkAvalanche Network = "avalanche"
	NetworkBSC       Network = "bsc"
	NetworkGnosis    Network = "gnosis"
	NetworkSolana    Network = "solana"
)

// NetworkKind groups networks by wallet/signing family.
type NetworkKind string

const (
	NetworkKindEVM    NetworkKind = "evm"
	NetworkKindSolana NetworkKind = "solana"
)

// Token is an immutable snapshot of one asset on one network, as resolved by
// the asset service for a single operation.
type Token struct {
	Address   string          `json:"address"`
	Decimals  int             `json:"decimals"`
	Network   Network         `json:"network"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	PriceUSD  decimal.Decimal `json:"priceUSD"`
	PriceEUR  decimal.Decimal `json:"priceEUR"`
	HasPermit bool            `json:"hasPermit"`
}

// WalletToken is a token annotated with the wallet's balance.
type WalletToken struct {
	Token
	Balance decimal.Decimal `json:"balance"`
}

// TransferData is the opaque, service-issued authorization payload enabling
// a specific on-chain swap/transfer. It is passed through from conversion to
// execution unmodified; a nil value means no swap authorization exists.
type TransferData []byte

func (t TransferData) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}

func (t *TransferData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	*t = append((*t)[:0], data...)
	return nil
}

// ServerSettings are the per-operation limits and feature switches fetched
// from the settings service. They are never cached across validations.
type ServerSettings struct {
	IsTopupEnabled       bool            `json:"isTopupEnabled"`
	MinTopUpAmountInEUR  decimal.Decimal `json:"minTopUpAmountInEUR"`
	MaxTopUpAmountInEUR  decimal.Decimal `json:"maxTopUpAmountInEUR"`
	IsOnRampEnabled      bool            `json:"isOnRampEnabled"`
	MinOnRampAmountInEUR decimal.Decimal `json:"minOnRampAmountInEUR"`
	MaxOnRampAmountInEUR decimal.Decimal `json:"maxOnRampAmountInEUR"`
}

// ConvertResult is the outcome of a token<->EUR conversion. TransferData is
// present only when the conversion produced an on-chain swap authorization.
type ConvertResult struct {
	TransferData TransferData `json:"transferData,omitempty"`
	TokenAmount  string       `json:"tokenAmount"`
	EURAmount    string       `json:"EURAmount"`
}

// TopUpStep is a position in the on-chain top-up execution state machine,
// reported to callers via the step callback.
type TopUpStep string

const (
	TopUpStepConfirming TopUpStep = "confirming"
	TopUpStepApproving  TopUpStep = "approving"
	TopUpStepSending    TopUpStep = "sending"
)

// OnRampStatus is the server-side lifecycle status of an on-ramp request.
type OnRampStatus string

const (
	OnRampStatusNotApproved OnRampStatus = "not_approved"
	OnRampStatusSuccess     OnRampStatus = "success"
	OnRampStatusDeclined    OnRampStatus = "declined"
	OnRampStatusFailed      OnRampStatus = "failed"
)

// Terminal reports whether the status ends the request lifecycle.
func (s OnRampStatus) Terminal() bool {
	switch s {
	case OnRampStatusSuccess, OnRampStatusDeclined, OnRampStatusFailed:
		return true
	}
	return false
}

// OnRampRequest is the remote service's view of a fiat-purchase request.
type OnRampRequest struct {
	RequestUID         string          `json:"requestUid"`
	ChainID            int64           `json:"chainId"`
	Token              Token           `json:"token"`
	AmountEUR          decimal.Decimal `json:"amountEUR"`
	AmountToken        decimal.Decimal `json:"amountToken"`
	FeeEUR             decimal.Decimal `json:"feeEUR"`
	BeneficiaryAddress string          `json:"beneficiaryAddress"`
}

// WatchResult is the terminal outcome of watching an on-ramp request.
// Success false with no error means the request was declined.
type WatchResult struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash,omitempty"`
}

// EstimateOnRampResult is the advisory fee/amount estimate for an on-ramp.
type EstimateOnRampResult struct {
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	FeeAmount      decimal.Decimal `json:"feeAmount"`
}

// TagInfo is the public resolution of a holytag.
type TagInfo struct {
	Found     bool   `json:"found"`
	Tag       string `json:"tag,omitempty"`
	AvatarSrc string `json:"avatarSrc,omitempty"`
}

// ValidateAddressResult reports which ramp operations a beneficiary address
// may participate in.
type ValidateAddressResult struct {
	IsTopupAllowed  bool `json:"isTopupAllowed"`
	IsOnRampAllowed bool `json:"isOnRampAllowed"`
}

// TokenPrice is a price quote for one asset on one network.
type TokenPrice struct {
	Address string          `json:"address"`
	Network Network         `json:"network"`
	Price   decimal.Decimal `json:"price"`
}

// AuditEvent is a best-effort telemetry record emitted around sensitive
// operations.
type AuditEvent struct {
	Data        map[string]interface{} `json:"data"`
	Address     string                 `json:"address"`
	OperationID string                 `json:"operationId,omitempty"`
}

// MarshalMetadata renders arbitrary audit data for transport, swallowing
// marshal failures into an empty object (audit must never fail callers).
func MarshalMetadata(data map[string]interface{}) json.RawMessage {
	raw, err := json.Marshal(data)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}
