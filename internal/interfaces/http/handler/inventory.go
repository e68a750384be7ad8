package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/pharmapos/backend/internal/application/inventory"
	"github.com/pharmapos/backend/internal/interfaces/http/dto"
)

// InventoryHandler exposes the batch-tracked stock operations
type InventoryHandler struct {
	BaseHandler
	batchService *inventoryapp.BatchService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(batchService *inventoryapp.BatchService) *InventoryHandler {
	return &InventoryHandler{
		batchService: batchService,
	}
}

// stockQuery identifies one product's stock position
type stockQuery struct {
	ShopID    string `form:"shop_id" binding:"required,uuid"`
	ProductID string `form:"product_id" binding:"required,uuid"`
}

// expiringQuery bounds the expiring-batch report
type expiringQuery struct {
	dto.ListRequest
	ShopID string `form:"shop_id" binding:"required,uuid"`
	Days   int    `form:"days" binding:"omitempty,min=0"`
}

// AddBatch registers received goods as a batch. Receiving the same batch
// number again merges quantities into the existing batch.
func (h *InventoryHandler) AddBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.AddBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.AddBatch(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// DecreaseStock consumes stock across batches in expiry order
func (h *InventoryHandler) DecreaseStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.DecreaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.batchService.DecreaseStock(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AdjustStock corrects a batch to its counted quantity
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.batchService.AdjustStock(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetStock returns a product's stock position with its stocked batches
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query stockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shopID := uuid.MustParse(query.ShopID)
	productID := uuid.MustParse(query.ProductID)

	stock, err := h.batchService.GetStock(c.Request.Context(), tenantID, shopID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// ListExpiring returns batches with stock expiring within the horizon,
// soonest first. The default horizon is 30 days.
func (h *InventoryHandler) ListExpiring(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	query := expiringQuery{Days: 30}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shopID := uuid.MustParse(query.ShopID)

	page, err := h.batchService.ListExpiring(c.Request.Context(), tenantID, shopID, query.Days, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListMovements returns a product's movement ledger, newest first
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query struct {
		dto.ListRequest
		stockQuery
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shopID := uuid.MustParse(query.ShopID)
	productID := uuid.MustParse(query.ProductID)

	page, err := h.batchService.ListMovements(c.Request.Context(), tenantID, shopID, productID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.POST("/batches", h.AddBatch)
		inventory.GET("/batches/expiring", h.ListExpiring)
		inventory.POST("/stock/decrease", h.DecreaseStock)
		inventory.POST("/stock/adjust", h.AdjustStock)
		inventory.GET("/stock", h.GetStock)
		inventory.GET("/movements", h.ListMovements)
	}
}
