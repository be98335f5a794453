package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/invtrack/backend/internal/application/activity"
	"github.com/invtrack/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles stock transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *activityapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *activityapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RegisterRoutes registers transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.Create)
		transactions.GET("", h.List)
		transactions.GET("/item/:id", h.ListByItem)
	}
}

// Create records a stock movement
func (h *TransactionHandler) Create(c *gin.Context) {
	var req activityapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists transactions with pagination
func (h *TransactionHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	responses, total, err := h.transactionService.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	h.SuccessWithMeta(c, responses, total, page, pageSize)
}

// ListByItem lists transactions for one item
func (h *TransactionHandler) ListByItem(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}
	itemID, err := uuid.Parse(idReq.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	responses, err := h.transactionService.ListByItem(c.Request.Context(), itemID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}
