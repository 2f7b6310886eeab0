package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvia/account-status-service/internal/adapters/http/dto"
	"github.com/finvia/account-status-service/internal/app"
	"github.com/finvia/account-status-service/internal/domain"
)

// AccountStatusHandler handles account status change endpoints.
type AccountStatusHandler struct {
	service *app.AccountStatusService
}

// NewAccountStatusHandler creates a new account status handler.
func NewAccountStatusHandler(service *app.AccountStatusService) *AccountStatusHandler {
	return &AccountStatusHandler{
		service: service,
	}
}

// ChangeStatus handles PUT /api/v1/accounts/:accountId/status
// Blocks or unblocks an account through the protected core banking call.
//
// @Summary Block or unblock an account
// @Description Applies the requested status change via the core banking system
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountId path string true "12-digit account identifier"
// @Param request body dto.StatusChangeRequest true "Status change request"
// @Success 200 {object} dto.StatusChangeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/accounts/{accountId}/status [put]
func (h *AccountStatusHandler) ChangeStatus(c *gin.Context) {
	// The identifier shape is rejected here, before anything reaches the
	// core pipeline: no remote call, no retry consumed.
	accountID, err := domain.ParseAccountID(c.Param("accountId"))
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest,
			"accountId must be a 12-digit numeric string")
		return
	}

	var req dto.StatusChangeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "request body is not valid JSON")
		return
	}

	domainReq, err := req.ToDomain(accountID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), domainReq)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStatusChangeResponse(result))
}

// RegisterAccountRoutes registers account routes on the given router group.
func (h *AccountStatusHandler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.PUT("/:accountId/status", h.ChangeStatus)
}
