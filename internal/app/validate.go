package app

import (
	"fmt"

	"github.com/finvia/account-status-service/internal/domain"
)

// Operation-specific validation rule-sets. BLOCK and UNBLOCK use disjoint
// rules; nothing here re-checks the account identifier shape, which the
// HTTP boundary has already enforced.

// allowed value domains for BLOCK details.
var (
	allowedBlockReasons = map[domain.BlockReason]struct{}{
		domain.BlockReasonFraud:           {},
		domain.BlockReasonCourtOrder:      {},
		domain.BlockReasonCustomerRequest: {},
		domain.BlockReasonDeceased:        {},
	}

	allowedChannels = map[domain.Channel]struct{}{
		domain.ChannelBranch: {},
		domain.ChannelOnline: {},
		domain.ChannelBatch:  {},
	}
)

// validateRequest dispatches to the rule-set keyed by the operation.
func validateRequest(req *domain.StatusRequest) error {
	switch req.Operation {
	case domain.OperationBlock:
		return validateBlockDetails(req.Block)
	case domain.OperationUnblock:
		return validateUnblockDetails(req.Unblock)
	default:
		return domain.NewInvalidInputError("operation", fmt.Sprintf("unknown operation %q", req.Operation))
	}
}

// validateBlockDetails applies the BLOCK rule-set.
func validateBlockDetails(details *domain.BlockDetails) error {
	if details == nil {
		return domain.NewInvalidInputError("details", "block details are required")
	}

	if details.Reason == "" {
		return domain.NewInvalidInputError("details.reason", "is required")
	}

	if _, ok := allowedBlockReasons[details.Reason]; !ok {
		return domain.NewInvalidInputError("details.reason",
			fmt.Sprintf("%q is not an accepted block reason", details.Reason))
	}

	if details.Channel == "" {
		return domain.NewInvalidInputError("details.channel", "is required")
	}

	if _, ok := allowedChannels[details.Channel]; !ok {
		return domain.NewInvalidInputError("details.channel",
			fmt.Sprintf("%q is not an accepted channel", details.Channel))
	}

	return nil
}

// validateUnblockDetails applies the UNBLOCK rule-set.
func validateUnblockDetails(details *domain.UnblockDetails) error {
	if details == nil {
		return domain.NewInvalidInputError("details", "unblock details are required")
	}

	if details.BlockReference <= 0 {
		return domain.NewInvalidInputError("details.blockReferenceNumber", "must be a positive integer")
	}

	if details.RequestedBy == "" {
		return domain.NewInvalidInputError("details.requestedBy", "is required")
	}

	return nil
}
