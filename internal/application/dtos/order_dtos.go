// Package dtos - Order DTOs для передачи данных между транспортным и
// прикладным слоями.
package dtos

import "time"

// ============================================
// Commands (Write операции)
// ============================================

// CreateOrderItemCommand - одна запрошенная позиция заказа.
type CreateOrderItemCommand struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// CustomerCommand - идентификатор клиента в запросе.
type CustomerCommand struct {
	Email string `json:"email" binding:"required,email"`
}

// PaymentDetailsCommand - платёжные данные. Required at the endpoint per
// design note resolution, but never hashed or persisted past the gateway
// call.
type PaymentDetailsCommand struct {
	CreditCard string `json:"creditCard" binding:"required,min=16,max=19,numeric,luhn"`
}

// CreateOrderCommand - команда для создания заказа.
type CreateOrderCommand struct {
	Customer       CustomerCommand          `json:"customer" binding:"required"`
	Address        string                   `json:"address" binding:"required"`
	PaymentDetails PaymentDetailsCommand    `json:"paymentDetails" binding:"required"`
	Items          []CreateOrderItemCommand `json:"items" binding:"required,min=1,dive"`

	// IdempotencyKey is populated from the Idempotency-Key header, not the
	// JSON body.
	IdempotencyKey string `json:"-"`
}

// ============================================
// Queries (Read операции)
// ============================================

// GetOrderQuery - запрос заказа по ID.
type GetOrderQuery struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
}

// GetOrderByIdempotencyKeyQuery - запрос по ключу идемпотентности. CustomerKey
// scopes the lookup to the caller so one customer can never replay another
// customer's stored response for a reused key.
type GetOrderByIdempotencyKeyQuery struct {
	CustomerKey    string `json:"customerKey" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
}

// PreviewSelectionQuery - запрос предпросмотра выбора склада без побочных эффектов.
type PreviewSelectionQuery struct {
	Address string                   `json:"address" binding:"required"`
	Items   []CreateOrderItemCommand `json:"items" binding:"required,min=1,dive"`
}

// ============================================
// Response DTOs
// ============================================

// WarehouseSelectionDTO - склад, выбранный для выполнения заказа.
type WarehouseSelectionDTO struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Address                  string   `json:"address"`
	SelectionReason          string   `json:"selectionReason,omitempty"`
	DistanceKm               *float64 `json:"distanceKm,omitempty"`
	ClosestWarehouseExcluded *string  `json:"closestWarehouseExcluded,omitempty"`
}

// OrderItemDTO - позиция заказа для API.
type OrderItemDTO struct {
	ID              string `json:"id"`
	ProductID       string `json:"productId"`
	Quantity        int64  `json:"quantity"`
	PriceAtPurchase int64  `json:"priceAtPurchase"`
}

// OrderDTO - представление заказа для API.
type OrderDTO struct {
	ID              string                `json:"id"`
	CustomerEmail   string                `json:"customerEmail"`
	ShippingAddress string                `json:"shippingAddress"`
	TotalAmount     int64                 `json:"totalAmount"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"createdAt"`
	Warehouse       WarehouseSelectionDTO `json:"warehouse"`
	OrderItems      []OrderItemDTO        `json:"orderItems"`
}

// PreviewSelectionDTO - результат read-only предпросмотра выбора склада.
type PreviewSelectionDTO struct {
	ChosenWarehouse          WarehouseSelectionDTO `json:"chosenWarehouse"`
	DistanceKm               float64               `json:"distanceKm"`
	Reason                   string                `json:"reason"`
	ClosestWarehouseExcluded *string               `json:"closestWarehouseExcluded,omitempty"`
}
