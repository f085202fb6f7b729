package order

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/application/dtos"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
)

func TestPreviewSelectionUseCase_RejectsInvalidProductUUID(t *testing.T) {
	uc := NewPreviewSelectionUseCase(&fakeWarehouseRepo{}, &fakeInventoryRepo{}, &fakeGeocoder{})

	_, err := uc.Execute(context.Background(), dtos.PreviewSelectionQuery{
		Address: "42 Side St",
		Items:   []dtos.CreateOrderItemCommand{{ProductID: "not-a-uuid", Quantity: 1}},
	})
	if !domainErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
}

func TestPreviewSelectionUseCase_PropagatesGeocodeFailure(t *testing.T) {
	geocoder := &fakeGeocoder{
		geocodeFunc: func(ctx context.Context, address string) (float64, float64, error) {
			return 0, 0, fmt.Errorf("geocoding service unavailable")
		},
	}
	uc := NewPreviewSelectionUseCase(&fakeWarehouseRepo{}, &fakeInventoryRepo{}, geocoder)

	productID := uuid.New()
	_, err := uc.Execute(context.Background(), dtos.PreviewSelectionQuery{
		Address: "42 Side St",
		Items:   []dtos.CreateOrderItemCommand{{ProductID: productID.String(), Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error from failed geocode, got nil")
	}
}

func TestPreviewSelectionUseCase_PropagatesNoWarehouseCanFulfill(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()
	warehouse := entities.ReconstructWarehouse(warehouseID, "Main Depot", "1 Main St", 0, 0)
	inventory := entities.ReconstructInventory(warehouseID, productID, 0)

	warehouseRepo := &fakeWarehouseRepo{
		findAllFunc: func(ctx context.Context) ([]*entities.Warehouse, error) {
			return []*entities.Warehouse{warehouse}, nil
		},
	}
	inventoryRepo := &fakeInventoryRepo{
		findByProductIDsFunc: func(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
			return []*entities.Inventory{inventory}, nil
		},
	}
	uc := NewPreviewSelectionUseCase(warehouseRepo, inventoryRepo, &fakeGeocoder{})

	_, err := uc.Execute(context.Background(), dtos.PreviewSelectionQuery{
		Address: "42 Side St",
		Items:   []dtos.CreateOrderItemCommand{{ProductID: productID.String(), Quantity: 5}},
	})
	if !errors.Is(err, domainErrors.ErrNoWarehouseCanFulfill) {
		t.Fatalf("expected ErrNoWarehouseCanFulfill, got: %v", err)
	}
}

func TestPreviewSelectionUseCase_Success(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()
	warehouse := entities.ReconstructWarehouse(warehouseID, "Main Depot", "1 Main St", 0, 0)
	inventory := entities.ReconstructInventory(warehouseID, productID, 10)

	warehouseRepo := &fakeWarehouseRepo{
		findAllFunc: func(ctx context.Context) ([]*entities.Warehouse, error) {
			return []*entities.Warehouse{warehouse}, nil
		},
	}
	inventoryRepo := &fakeInventoryRepo{
		findByProductIDsFunc: func(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
			return []*entities.Inventory{inventory}, nil
		},
	}
	geocoder := &fakeGeocoder{
		geocodeFunc: func(ctx context.Context, address string) (float64, float64, error) {
			return 0, 0, nil
		},
	}
	uc := NewPreviewSelectionUseCase(warehouseRepo, inventoryRepo, geocoder)

	result, err := uc.Execute(context.Background(), dtos.PreviewSelectionQuery{
		Address: "42 Side St",
		Items:   []dtos.CreateOrderItemCommand{{ProductID: productID.String(), Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.ChosenWarehouse.ID != warehouseID.String() {
		t.Errorf("ChosenWarehouse.ID = %s, want %s", result.ChosenWarehouse.ID, warehouseID.String())
	}
	if result.DistanceKm != 0 {
		t.Errorf("DistanceKm = %v, want 0 for a warehouse at the same coordinate", result.DistanceKm)
	}
}
