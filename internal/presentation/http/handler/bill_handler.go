package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/request"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create handles bill posting
// @Summary Create bill
// @Description Post a bill: bill, items and debit ledger entry in one transaction
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateBillRequest true "Bill data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	billDate, err := parseDate(req.BillDate)
	if err != nil {
		response.BadRequest(c, "bill_date must be YYYY-MM-DD")
		return
	}

	items := make([]service.BillLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.BillLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Rate:      item.Rate,
		})
	}

	result, err := h.billService.CreateBill(c.Request.Context(), principal, service.CreateBillInput{
		CustomerID: req.CustomerID,
		StoreID:    req.StoreID,
		BillDate:   billDate,
		VATPercent: req.VATPercentage,
		Items:      items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", result)
}

// Get handles fetching a single bill
// @Summary Get bill
// @Description Get one bill with its items
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), principal, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills
// @Summary List bills
// @Description List bills with optional filters
// @Tags bills
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param user_id query string false "Customer ID"
// @Param store_id query string false "Store ID"
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	params := &repository.BillFilterParams{Pagination: paginationQuery(c)}

	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid user_id")
			return
		}
		params.UserID = &id
	}
	if v := c.Query("store_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "Invalid store_id")
			return
		}
		params.StoreID = &id
	}

	from, to, err := dateRangeQuery(c)
	if err != nil {
		response.BadRequest(c, "Dates must be YYYY-MM-DD")
		return
	}
	params.StartDate = from
	params.EndDate = to

	bills, total, err := h.billService.ListBills(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	response.SuccessWithPagination(c, 200, "Bills retrieved successfully",
		pagination.NewPaginatedResult[entity.Bill](bills, meta))
}
