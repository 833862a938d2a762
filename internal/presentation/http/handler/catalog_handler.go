package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/request"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/dto/response"
)

// CatalogHandler serves stores, products and customer accounts.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListStores handles listing stores
// @Summary List stores
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /stores [get]
func (h *CatalogHandler) ListStores(c *gin.Context) {
	stores, err := h.catalogService.ListStores(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stores retrieved successfully", stores)
}

// ListProducts handles listing products
// @Summary List products
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// ListCustomers handles listing the customer roster
// @Summary List customers
// @Description List all retailer and workshop accounts
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /customers [get]
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	customers, err := h.catalogService.ListCustomers(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers retrieved successfully", customers)
}

// CreateUser handles account creation
// @Summary Create user
// @Description Create a staff or customer account
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateUserRequest true "User data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /users [post]
func (h *CatalogHandler) CreateUser(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		return
	}

	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.catalogService.CreateUser(c.Request.Context(), principal, service.CreateUserInput{
		Name:           req.Name,
		Username:       req.Username,
		Password:       req.Password,
		Contact:        req.Contact,
		Address:        req.Address,
		Role:           req.Role,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", user)
}
