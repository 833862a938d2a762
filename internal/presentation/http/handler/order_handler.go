package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/request"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles order creation
// @Summary Create order
// @Description Create an order for the caller
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateOrderRequest true "Order data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		response.BadRequest(c, "order_date must be YYYY-MM-DD")
		return
	}
	input := service.CreateOrderInput{
		CustomerID: req.CustomerID,
		StoreID:    req.StoreID,
		OrderDate:  orderDate,
		Remarks:    req.Remarks,
	}
	if req.ExpectedDeliveryDate != "" {
		delivery, err := parseDate(req.ExpectedDeliveryDate)
		if err != nil {
			response.BadRequest(c, "expected_delivery_date must be YYYY-MM-DD")
			return
		}
		input.ExpectedDeliveryDate = &delivery
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Rate:      item.Rate,
		})
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), principal, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", result)
}

// Get handles fetching a single order
// @Summary Get order
// @Description Get one order with items and status trail
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), principal, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", gin.H{
		"order":        order,
		"status_trail": order.StatusTrail(),
	})
}

// ChangeStatus handles order status transitions
// @Summary Change order status
// @Description Record a status transition on the order's audit trail
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body request.ChangeOrderStatusRequest true "New status"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	id, ok := uuidParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, valid := enum.ParseOrderStatus(req.Status)
	if !valid {
		response.BadRequest(c, "status must be one of Pending, Processing, Completed, Cancelled")
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), principal, service.ChangeStatusInput{
		OrderID: id,
		To:      status,
		Reason:  req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", gin.H{
		"order":        order,
		"status_trail": order.StatusTrail(),
	})
}

// List handles listing orders
// @Summary List orders
// @Description List orders with optional filters
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param user_id query string false "Customer ID"
// @Param store_id query string false "Store ID"
// @Param status query string false "Status name"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	params := &repository.OrderFilterParams{Pagination: paginationQuery(c)}

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
	if v := c.Query("status"); v != "" {
		status, valid := enum.ParseOrderStatus(v)
		if !valid {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully",
		pagination.NewPaginatedResult[entity.Order](orders, meta))
}
