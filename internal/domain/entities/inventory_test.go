package entities

import (
	"testing"

	"github.com/google/uuid"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
)

func TestNewInventory_RejectsNegativeQuantity(t *testing.T) {
	if _, err := NewInventory(uuid.New(), uuid.New(), -1); err != domainErrors.ErrNegativeStock {
		t.Fatalf("expected ErrNegativeStock, got: %v", err)
	}
}

func TestInventory_CanFulfill(t *testing.T) {
	inv, err := NewInventory(uuid.New(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("NewInventory: %v", err)
	}

	if !inv.CanFulfill(10) {
		t.Error("CanFulfill(10) on stock of 10 should be true")
	}
	if inv.CanFulfill(11) {
		t.Error("CanFulfill(11) on stock of 10 should be false")
	}
}

func TestInventory_Decrement_RejectsNonPositive(t *testing.T) {
	inv, _ := NewInventory(uuid.New(), uuid.New(), 10)

	if err := inv.Decrement(0); !domainErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for zero decrement, got: %v", err)
	}
	if inv.Quantity() != 10 {
		t.Errorf("Quantity() changed despite rejected decrement: %d", inv.Quantity())
	}
}

func TestInventory_Decrement_RejectsOversell(t *testing.T) {
	inv, _ := NewInventory(uuid.New(), uuid.New(), 5)

	if err := inv.Decrement(6); err != domainErrors.ErrInventoryOversold {
		t.Fatalf("expected ErrInventoryOversold, got: %v", err)
	}
	if inv.Quantity() != 5 {
		t.Errorf("Quantity() changed despite rejected decrement: %d", inv.Quantity())
	}
}

func TestInventory_Decrement_Success(t *testing.T) {
	inv, _ := NewInventory(uuid.New(), uuid.New(), 5)

	if err := inv.Decrement(5); err != nil {
		t.Fatalf("Decrement to zero: %v", err)
	}
	if inv.Quantity() != 0 {
		t.Errorf("Quantity() = %d, want 0", inv.Quantity())
	}
	if inv.CanFulfill(1) {
		t.Error("CanFulfill(1) on exhausted stock should be false")
	}
}
