// Package entities - Order is the aggregate root produced by a successful
// order-creation pipeline run: exactly one warehouse, a payment transaction
// ID, and the line items frozen at their purchase-time price.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING" // Created, payment not yet confirmed
	OrderStatusPaid     OrderStatus = "PAID"    // Payment authorized, order final
	OrderStatusFailed   OrderStatus = "FAILED"  // Payment failed or compensation ran
)

// IsValid checks if the order status is valid.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// OrderItem is a single line item within an order, frozen at purchase-time
// pricing so later catalog price changes never affect a placed order.
type OrderItem struct {
	id                   uuid.UUID
	productID            uuid.UUID
	quantity             int64
	priceAtPurchaseCents valueobjects.Money
}

// NewOrderItem creates a new OrderItem.
func NewOrderItem(productID uuid.UUID, quantity int64, priceAtPurchaseCents valueobjects.Money) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, errors.ErrNonIntegerQuantity
	}
	return OrderItem{
		id:                   uuid.New(),
		productID:            productID,
		quantity:             quantity,
		priceAtPurchaseCents: priceAtPurchaseCents,
	}, nil
}

// ReconstructOrderItem reconstructs an OrderItem from stored data.
func ReconstructOrderItem(id, productID uuid.UUID, quantity int64, priceAtPurchaseCents valueobjects.Money) OrderItem {
	return OrderItem{id: id, productID: productID, quantity: quantity, priceAtPurchaseCents: priceAtPurchaseCents}
}

func (i OrderItem) ID() uuid.UUID                            { return i.id }
func (i OrderItem) ProductID() uuid.UUID                      { return i.productID }
func (i OrderItem) Quantity() int64                           { return i.quantity }
func (i OrderItem) PriceAtPurchaseCents() valueobjects.Money  { return i.priceAtPurchaseCents }
func (i OrderItem) LineTotal() valueobjects.Money             { return i.priceAtPurchaseCents.MultiplyByQuantity(i.quantity) }

// Order is the aggregate root for a placed order.
//
// Entity Pattern:
// - Has identity (ID)
// - Aggregates OrderItem (not exposed as a separately persisted aggregate)
// - Enforces invariants (non-empty, single warehouse, status transitions)
type Order struct {
	id               uuid.UUID
	customerEmail    string
	shippingAddress  string
	items            []OrderItem
	totalCents       valueobjects.Money
	status           OrderStatus
	warehouseID      uuid.UUID
	createdAt        time.Time
}

// NewOrder creates a new pending Order. Factory function with validation.
//
// Business Rules:
// - Must contain at least one line item (ErrEmptyOrder)
// - Total is the sum of each item's line total, computed here so it can
//   never drift from the items slice
func NewOrder(customerEmail, shippingAddress string, warehouseID uuid.UUID, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyOrder
	}

	total := valueobjects.Zero()
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	return &Order{
		id:              uuid.New(),
		customerEmail:   customerEmail,
		shippingAddress: shippingAddress,
		items:           items,
		totalCents:      total,
		status:          OrderStatusPending,
		warehouseID:     warehouseID,
		createdAt:       time.Now(),
	}, nil
}

// ReconstructOrder reconstructs an Order from stored data.
func ReconstructOrder(
	id uuid.UUID,
	customerEmail, shippingAddress string,
	items []OrderItem,
	totalCents valueobjects.Money,
	status OrderStatus,
	warehouseID uuid.UUID,
	createdAt time.Time,
) *Order {
	return &Order{
		id:              id,
		customerEmail:   customerEmail,
		shippingAddress: shippingAddress,
		items:           items,
		totalCents:      totalCents,
		status:          status,
		warehouseID:     warehouseID,
		createdAt:       createdAt,
	}
}

func (o *Order) ID() uuid.UUID                    { return o.id }
func (o *Order) CustomerEmail() string            { return o.customerEmail }
func (o *Order) ShippingAddress() string          { return o.shippingAddress }
func (o *Order) Items() []OrderItem               { return o.items }
func (o *Order) TotalCents() valueobjects.Money   { return o.totalCents }
func (o *Order) Status() OrderStatus              { return o.status }
func (o *Order) WarehouseID() uuid.UUID           { return o.warehouseID }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }

// MarkPaid transitions a pending order to PAID after the payment gateway
// authorizes successfully.
func (o *Order) MarkPaid() error {
	if o.status != OrderStatusPending {
		return errors.ErrOrderNotPending
	}
	o.status = OrderStatusPaid
	return nil
}

// MarkFailed transitions a pending order to FAILED, used when payment is
// declined or compensation (refund) runs after a later pipeline step fails.
func (o *Order) MarkFailed() error {
	if o.status == OrderStatusPaid {
		return errors.NewBusinessRuleViolation(
			"ORDER_ALREADY_PAID",
			"cannot mark a paid order as failed",
			map[string]interface{}{"orderID": o.id},
		)
	}
	o.status = OrderStatusFailed
	return nil
}
