package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles ledger-related HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// History handles fetching a customer's ledger
// @Summary Customer ledger
// @Description Get a customer's ledger entries in chronological order
// @Tags ledger
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Customer ID"
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /ledger/user/{user_id} [get]
func (h *LedgerHandler) History(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	userID, ok := uuidParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	from, to, err := dateRangeQuery(c)
	if err != nil {
		response.BadRequest(c, "Dates must be YYYY-MM-DD")
		return
	}

	history, err := h.ledgerService.History(c.Request.Context(), principal, userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", history)
}

// Balance handles fetching a customer's current balance
// @Summary Customer balance
// @Description Get a customer's current balance with activity totals
// @Tags ledger
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /ledger/balance/{user_id} [get]
func (h *LedgerHandler) Balance(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	userID, ok := uuidParam(c, "user_id")
	if !ok {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	summary, err := h.ledgerService.CurrentBalance(c.Request.Context(), principal, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", summary)
}

// CustomerBalances handles the all-customers balance overview
// @Summary Customer balances overview
// @Description Get every customer's current balance, highest first
// @Tags ledger
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /ledger/customers [get]
func (h *LedgerHandler) CustomerBalances(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	balances, err := h.ledgerService.CustomerBalances(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer balances retrieved successfully", balances)
}
