// Package entities - Inventory tracks on-hand quantity of one product at one
// warehouse. Unlike Wallet's balance (guarded by an optimistic version
// counter), Inventory is guarded by pessimistic row locks taken by the store
// (SELECT ... FOR UPDATE) before Decrement is ever called, since the
// concurrency model here is "lock then read" rather than "read, compute,
// compare-and-swap".
package entities

import (
	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/errors"
)

// Inventory represents the stock of one product at one warehouse.
type Inventory struct {
	warehouseID uuid.UUID
	productID   uuid.UUID
	quantity    int64
}

// NewInventory creates a new Inventory record.
func NewInventory(warehouseID, productID uuid.UUID, quantity int64) (*Inventory, error) {
	if quantity < 0 {
		return nil, errors.ErrNegativeStock
	}
	return &Inventory{warehouseID: warehouseID, productID: productID, quantity: quantity}, nil
}

// ReconstructInventory reconstructs Inventory from stored data.
func ReconstructInventory(warehouseID, productID uuid.UUID, quantity int64) *Inventory {
	return &Inventory{warehouseID: warehouseID, productID: productID, quantity: quantity}
}

func (i *Inventory) WarehouseID() uuid.UUID {
	return i.warehouseID
}

func (i *Inventory) ProductID() uuid.UUID {
	return i.productID
}

func (i *Inventory) Quantity() int64 {
	return i.quantity
}

// CanFulfill reports whether this inventory row has enough stock for the
// requested quantity.
func (i *Inventory) CanFulfill(requested int64) bool {
	return i.quantity >= requested
}

// Decrement removes stock. Callers must already hold the row lock on this
// inventory record (via a locked repository read) before calling Decrement;
// the entity itself only enforces the non-negative invariant.
func (i *Inventory) Decrement(quantity int64) error {
	if quantity <= 0 {
		return errors.ValidationError{Field: "quantity", Message: "decrement quantity must be positive"}
	}
	if i.quantity < quantity {
		return errors.ErrInventoryOversold
	}
	i.quantity -= quantity
	return nil
}
