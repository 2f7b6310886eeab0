// Package domain contains core business entities and rules.
package domain

import (
	"fmt"
	"regexp"
)

// accountIDPattern is the shape every account identifier must satisfy.
// Identifiers are validated once at the HTTP boundary and never re-checked
// downstream.
var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// AccountID identifies an account in the core banking system.
// It is always a 12-digit numeric string.
type AccountID string

// ParseAccountID validates the raw identifier shape and returns a typed ID.
func ParseAccountID(raw string) (AccountID, error) {
	if !accountIDPattern.MatchString(raw) {
		return "", NewInvalidInputError("accountId", "must be a 12-digit numeric string")
	}

	return AccountID(raw), nil
}

// String returns the identifier as a plain string.
func (id AccountID) String() string {
	return string(id)
}

// Operation is the requested account status change.
type Operation string

const (
	// OperationBlock places a block on the account.
	OperationBlock Operation = "BLOCK"

	// OperationUnblock lifts an existing block from the account.
	OperationUnblock Operation = "UNBLOCK"
)

// Wire values accepted at the HTTP boundary.
const (
	wireOperationLock   = "lock"
	wireOperationUnlock = "unlock"
)

// ParseOperation maps a wire operation value to a domain Operation.
func ParseOperation(raw string) (Operation, error) {
	switch raw {
	case wireOperationLock:
		return OperationBlock, nil
	case wireOperationUnlock:
		return OperationUnblock, nil
	default:
		return "", NewInvalidInputError("operation",
			fmt.Sprintf("must be %q or %q", wireOperationLock, wireOperationUnlock))
	}
}

// String returns the operation name.
func (o Operation) String() string {
	return string(o)
}

// BlockReason enumerates the accepted reasons for blocking an account.
type BlockReason string

const (
	BlockReasonFraud           BlockReason = "FRAUD"
	BlockReasonCourtOrder      BlockReason = "COURT_ORDER"
	BlockReasonCustomerRequest BlockReason = "CUSTOMER_REQUEST"
	BlockReasonDeceased        BlockReason = "DECEASED"
)

// Channel enumerates the origination channels for a status change.
type Channel string

const (
	ChannelBranch Channel = "BRANCH"
	ChannelOnline Channel = "ONLINE"
	ChannelBatch  Channel = "BATCH"
)

// BlockDetails are the operation-specific fields for a BLOCK request.
type BlockDetails struct {
	// Reason classifies why the account is being blocked.
	Reason BlockReason

	// Channel identifies where the request originated.
	Channel Channel
}

// UnblockDetails are the operation-specific fields for an UNBLOCK request.
type UnblockDetails struct {
	// BlockReference is the reference number returned when the block
	// was placed. Must be positive.
	BlockReference int64

	// RequestedBy identifies the operator or system lifting the block.
	RequestedBy string
}

// StatusRequest is a single account status change request.
// It is created per inbound call and discarded once the call resolves.
type StatusRequest struct {
	AccountID AccountID
	Operation Operation

	// Block is set when Operation is OperationBlock.
	Block *BlockDetails

	// Unblock is set when Operation is OperationUnblock.
	Unblock *UnblockDetails
}

// StatusResult is the outcome of an account status change.
type StatusResult struct {
	AccountID AccountID

	Operation Operation

	// ReferenceNumber is the block reference generated by the core
	// banking system. Only meaningful for a successful BLOCK, where it
	// must be positive.
	ReferenceNumber int64

	// Succeeded reports whether the remote operation completed.
	// A degraded (fallback) result carries false.
	Succeeded bool
}
