package dto

import (
	"github.com/finvia/account-status-service/internal/domain"
)

// StatusChangeRequest is the inbound payload for a status change.
// The operation selects which details block is required; the two
// rule-sets are disjoint and enforced by the application layer.
type StatusChangeRequest struct {
	// Operation is the wire operation: "lock" or "unlock".
	Operation string `json:"operation" validate:"required,oneof=lock unlock"`

	// Details carries the operation-specific fields.
	Details StatusChangeDetails `json:"details"`
}

// StatusChangeDetails is the union of per-operation fields.
// Fields irrelevant to the requested operation are ignored.
type StatusChangeDetails struct {
	// BLOCK fields.
	Reason  string `json:"reason,omitempty"`
	Channel string `json:"channel,omitempty"`

	// UNBLOCK fields.
	BlockReferenceNumber int64  `json:"blockReferenceNumber,omitempty"`
	RequestedBy          string `json:"requestedBy,omitempty"`
}

// ToDomain translates the validated DTO into a domain StatusRequest.
// The account identifier has already been parsed at the boundary.
func (r *StatusChangeRequest) ToDomain(id domain.AccountID) (*domain.StatusRequest, error) {
	op, err := domain.ParseOperation(r.Operation)
	if err != nil {
		return nil, err
	}

	req := &domain.StatusRequest{
		AccountID: id,
		Operation: op,
	}

	switch op {
	case domain.OperationBlock:
		req.Block = &domain.BlockDetails{
			Reason:  domain.BlockReason(r.Details.Reason),
			Channel: domain.Channel(r.Details.Channel),
		}
	case domain.OperationUnblock:
		req.Unblock = &domain.UnblockDetails{
			BlockReference: r.Details.BlockReferenceNumber,
			RequestedBy:    r.Details.RequestedBy,
		}
	}

	return req, nil
}

// StatusChangeResponse is the outbound payload for a status change.
type StatusChangeResponse struct {
	AccountID string `json:"accountIdentifier"`

	// GeneratedReferenceNumber is present only for a successful BLOCK.
	GeneratedReferenceNumber int64 `json:"generatedReferenceNumber,omitempty"`

	Succeeded bool `json:"succeeded"`
}

// NewStatusChangeResponse translates a domain result to the wire shape.
func NewStatusChangeResponse(result *domain.StatusResult) *StatusChangeResponse {
	resp := &StatusChangeResponse{
		AccountID: result.AccountID.String(),
		Succeeded: result.Succeeded,
	}

	if result.Operation == domain.OperationBlock && result.Succeeded {
		resp.GeneratedReferenceNumber = result.ReferenceNumber
	}

	return resp
}
