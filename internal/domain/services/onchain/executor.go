// Package onchain defines the contract for the external chain-interaction
// capability: estimating and executing the compound top-up transaction.
// Chain mechanics (signing, gas, permit encoding) live behind the Executor;
// the orchestrators only sequence and observe.
package onchain

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cardramp/ramp_sdk/internal/domain/entities"
)

// StepKind is a phase of the compound top-up transaction.
type StepKind string

const (
	StepConfirm StepKind = "confirm"
	StepApprove StepKind = "approve"
	StepSend    StepKind = "send"
)

// StepState is the progress of one step.
type StepState string

const (
	StatePending   StepState = "pending"
	StateSucceeded StepState = "succeeded"
	StateFailed    StepState = "failed"
)

// AllowanceFlow is the spending-authorization shape an estimation resolved.
type AllowanceFlow string

const (
	FlowExecuteWithPermit   AllowanceFlow = "execute_with_permit"
	FlowExecuteWithApproval AllowanceFlow = "execute_with_approval"
	FlowDirectTransfer      AllowanceFlow = "direct_transfer"
)

// Events carries the optional progress hooks for one execution. Nil hooks
// are skipped.
type Events struct {
	// OnTransactionHash fires once per submitted transaction.
	OnTransactionHash func(hash string)
	// OnStep fires on every step transition, including non-pending states.
	OnStep func(step StepKind, state StepState)
	// OnCallData fires with the raw call data before submission.
	OnCallData func(callData string)
}

// EstimateParams describes a top-up to be estimated.
type EstimateParams struct {
	Sender          string
	Token           entities.Token
	Amount          decimal.Decimal
	SwapTargetPrice decimal.Decimal
	TransferData    entities.TransferData
}

// Estimation is the outcome of a top-up estimate: the allowance flow the
// transaction will take and the total fee in the network's base asset.
type Estimation struct {
	Flow     AllowanceFlow
	TotalFee decimal.Decimal
}

// ExecuteParams describes a top-up to be executed on chain.
type ExecuteParams struct {
	Sender          string
	Token           entities.Token
	Amount          decimal.Decimal
	SwapTargetPrice decimal.Decimal
	TransferData    entities.TransferData
	ReceiverHash    string // opaque top-up recipient code
	Events          Events
}

// Executor estimates and executes compound top-up transactions on one
// network family.
type Executor interface {
	// ChainID reports the chain the executor's wallet is connected to.
	ChainID(ctx context.Context) (int64, error)
	// EstimateTopUp resolves the allowance flow and total fee.
	EstimateTopUp(ctx context.Context, params EstimateParams) (*Estimation, error)
	// ExecuteTopUp drives the approval/permit/transfer sequence to
	// completion, emitting progress through params.Events.
	ExecuteTopUp(ctx context.Context, params ExecuteParams) error
}
