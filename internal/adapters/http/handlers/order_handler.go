// Package handlers - Order HTTP handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/adapters/http/common"
	"github.com/orderforge/orderforge/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateOrderUseCase - интерфейс для размещения заказа.
type CreateOrderUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateOrderCommand, customerKey string) (*dtos.OrderDTO, error)
}

// GetOrderUseCase - интерфейс для получения заказа по ID.
type GetOrderUseCase interface {
	Execute(ctx context.Context, query dtos.GetOrderQuery) (*dtos.OrderDTO, error)
}

// GetOrderByIdempotencyKeyUseCase - интерфейс для replay ответа по ключу идемпотентности.
type GetOrderByIdempotencyKeyUseCase interface {
	Execute(ctx context.Context, query dtos.GetOrderByIdempotencyKeyQuery) (int, json.RawMessage, error)
}

// ============================================
// Order Handler
// ============================================

// OrderHandler обрабатывает HTTP запросы для заказов.
type OrderHandler struct {
	createOrder         CreateOrderUseCase
	getOrder            GetOrderUseCase
	getByIdempotencyKey GetOrderByIdempotencyKeyUseCase
}

// NewOrderHandler создаёт новый OrderHandler.
func NewOrderHandler(
	createOrder CreateOrderUseCase,
	getOrder GetOrderUseCase,
	getByIdempotencyKey GetOrderByIdempotencyKeyUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrder:         createOrder,
		getOrder:            getOrder,
		getByIdempotencyKey: getByIdempotencyKey,
	}
}

// ============================================
// Request DTOs
// ============================================

// OrderIDParam - параметр ID заказа из URL.
type OrderIDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// IdempotencyKeyParam - ключ идемпотентности из URL.
type IdempotencyKeyParam struct {
	Key string `uri:"key" binding:"required"`
}

const customerKeyQueryParam = "customer"

const idempotencyKeyHeader = "Idempotency-Key"

// ============================================
// HTTP Handlers
// ============================================

// CreateOrder размещает новый заказ.
//
// The Idempotency-Key header is optional: when present, it scopes replay
// detection to the requesting customer so two different customers may reuse
// the same key; when absent, the order is placed with no replay protection.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dtos.CreateOrderCommand
	if !BindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(idempotencyKeyHeader)

	if h.createOrder == nil {
		common.InternalErrorResponse(c, "CreateOrder use case not implemented")
		return
	}

	result, err := h.createOrder.Execute(c.Request.Context(), req, req.Customer.Email)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// GetOrder возвращает заказ по ID.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	var params OrderIDParam
	if !BindURI(c, &params) {
		return
	}

	if _, err := uuid.Parse(params.ID); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: "id", Message: "Invalid UUID format", Code: "uuid"},
		})
		return
	}

	if h.getOrder == nil {
		common.InternalErrorResponse(c, "GetOrder use case not implemented")
		return
	}

	result, err := h.getOrder.Execute(c.Request.Context(), dtos.GetOrderQuery{OrderID: params.ID})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// GetOrderByIdempotencyKey возвращает сохранённый ответ по ключу идемпотентности
// без повторного запуска pipeline размещения заказа.
//
// The lookup is scoped by the required "customer" query parameter, the same
// customer identity (email) CreateOrder uses to scope admission - without it
// the lookup could return a different customer's stored response for a
// reused key.
func (h *OrderHandler) GetOrderByIdempotencyKey(c *gin.Context) {
	var params IdempotencyKeyParam
	if !BindURI(c, &params) {
		return
	}

	customerKey := c.Query(customerKeyQueryParam)
	if customerKey == "" {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: customerKeyQueryParam, Message: "customer query parameter is required", Code: "required"},
		})
		return
	}

	if h.getByIdempotencyKey == nil {
		common.InternalErrorResponse(c, "GetOrderByIdempotencyKey use case not implemented")
		return
	}

	status, body, err := h.getByIdempotencyKey.Execute(c.Request.Context(), dtos.GetOrderByIdempotencyKeyQuery{
		CustomerKey:    customerKey,
		IdempotencyKey: params.Key,
	})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.Data(status, "application/json; charset=utf-8", body)
}

// RegisterRoutes регистрирует маршруты для OrderHandler.
//
// Routes:
// - POST   /orders                                          - Place an order
// - GET    /orders/:id                                      - Get order by ID
// - GET    /orders/by-idempotency-key/:key?customer=<email> - Replay stored response by key, scoped to customer
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/by-idempotency-key/:key", h.GetOrderByIdempotencyKey)
	}
}
