package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/request"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles payment recording
// @Summary Record payment
// @Description Record a customer payment and credit their ledger
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "payment_date must be YYYY-MM-DD")
		return
	}

	result, err := h.paymentService.CreatePayment(c.Request.Context(), principal, service.CreatePaymentInput{
		PayerUserID:   req.PayerUserID,
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Remarks:       req.Remarks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", result)
}

// List handles listing payments
// @Summary List payments
// @Description List payments with optional filters
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	params := &repository.PaymentFilterParams{Pagination: paginationQuery(c)}

	from, to, err := dateRangeQuery(c)
	if err != nil {
		response.BadRequest(c, "Dates must be YYYY-MM-DD")
		return
	}
	params.StartDate = from
	params.EndDate = to

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	response.SuccessWithPagination(c, 200, "Payments retrieved successfully",
		pagination.NewPaginatedResult[entity.Payment](payments, meta))
}
