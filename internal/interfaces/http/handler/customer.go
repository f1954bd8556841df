package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/voiceledger/backend/internal/application/ledger"
	"github.com/voiceledger/backend/internal/domain/shared"
	"github.com/voiceledger/backend/internal/interfaces/http/dto"
)

// CustomerHandler serves the owner-scoped customer surface: listing,
// balances, transaction history, and ledger reconciliation.
type CustomerHandler struct {
	BaseHandler
	service *ledgerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *ledgerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.GET("/:id/transactions", h.Transactions)
		customers.GET("/:id/reconcile", h.Reconcile)
	}
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := bindFilter(c)

	result, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, ok := h.bindCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.service.Get(c.Request.Context(), ownerID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Transactions handles GET /customers/:id/transactions
func (h *CustomerHandler) Transactions(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, ok := h.bindCustomerID(c)
	if !ok {
		return
	}

	filter := bindFilter(c)

	result, err := h.service.Transactions(c.Request.Context(), ownerID, customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Reconcile handles GET /customers/:id/reconcile. It replays the
// transaction log and reports any drift against the stored balance.
func (h *CustomerHandler) Reconcile(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, ok := h.bindCustomerID(c)
	if !ok {
		return
	}

	report, err := h.service.Reconcile(c.Request.Context(), ownerID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

func (h *CustomerHandler) bindCustomerID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequestField(c, "id", "Customer ID must be a valid UUID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequestField(c, "id", "Customer ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// bindFilter maps list query parameters onto a repository filter
func bindFilter(c *gin.Context) shared.Filter {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		req = dto.DefaultListRequest()
	}
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}
