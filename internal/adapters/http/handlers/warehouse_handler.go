// Package handlers - Warehouse HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orderforge/orderforge/internal/adapters/http/common"
	"github.com/orderforge/orderforge/internal/application/dtos"
)

// PreviewSelectionUseCase - интерфейс для read-only предпросмотра выбора склада.
type PreviewSelectionUseCase interface {
	Execute(ctx context.Context, query dtos.PreviewSelectionQuery) (*dtos.PreviewSelectionDTO, error)
}

// WarehouseHandler обрабатывает HTTP запросы, связанные со складами.
type WarehouseHandler struct {
	previewSelection PreviewSelectionUseCase
}

// NewWarehouseHandler создаёт новый WarehouseHandler.
func NewWarehouseHandler(previewSelection PreviewSelectionUseCase) *WarehouseHandler {
	return &WarehouseHandler{previewSelection: previewSelection}
}

// PreviewSelectionRequest - тело запроса предпросмотра.
type PreviewSelectionRequest struct {
	Address string                          `json:"address" binding:"required"`
	Items   []dtos.CreateOrderItemCommand   `json:"items" binding:"required,min=1,dive"`
}

// PreviewSelection показывает, какой склад выбрал бы селектор для данного
// адреса и списка позиций, не выполняя ни бронирования, ни списания запасов.
func (h *WarehouseHandler) PreviewSelection(c *gin.Context) {
	var req PreviewSelectionRequest
	if !BindJSON(c, &req) {
		return
	}

	if h.previewSelection == nil {
		common.InternalErrorResponse(c, "PreviewSelection use case not implemented")
		return
	}

	query := dtos.PreviewSelectionQuery{Address: req.Address, Items: req.Items}

	result, err := h.previewSelection.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// RegisterRoutes регистрирует маршруты для WarehouseHandler.
//
// Routes:
// - POST /warehouses/preview - Preview warehouse selection for an address and item list
func (h *WarehouseHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/warehouses")
	{
		warehouses.POST("/preview", h.PreviewSelection)
	}
}
