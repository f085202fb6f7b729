package selector

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/geo"
)

func mustWarehouse(t *testing.T, name, address string, lat, lng float64) *entities.Warehouse {
	t.Helper()
	w, err := entities.NewWarehouse(name, address, lat, lng)
	if err != nil {
		t.Fatalf("unexpected error creating warehouse: %v", err)
	}
	return w
}

func TestSelect_ChoosesClosestWarehouseWithStock(t *testing.T) {
	ny := mustWarehouse(t, "NY", "New York, NY", 40.7128, -74.0060)
	sf := mustWarehouse(t, "SF", "San Francisco, CA", 37.7749, -122.4194)
	denver := mustWarehouse(t, "Denver", "Denver, CO", 39.7392, -104.9903)

	productID := uuid.New()
	inventory := InventoryIndex{
		ny.ID():     {productID: entities.ReconstructInventory(ny.ID(), productID, 20)},
		sf.ID():     {productID: entities.ReconstructInventory(sf.ID(), productID, 20)},
		denver.ID(): {productID: entities.ReconstructInventory(denver.ID(), productID, 20)},
	}

	austin := geo.Coordinate{Latitude: 30.2672, Longitude: -97.7431}

	result, err := Select(
		[]ItemRequest{{ProductID: productID, Quantity: 1}},
		austin,
		[]*entities.Warehouse{ny, sf, denver},
		inventory,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChosenWarehouse.ID() != denver.ID() {
		t.Fatalf("expected Denver to be chosen, got %s", result.ChosenWarehouse.Name())
	}
}

func TestSelect_SkipsClosestWarehouseWithInsufficientStock(t *testing.T) {
	denver := mustWarehouse(t, "Denver", "Denver, CO", 39.7392, -104.9903)
	ny := mustWarehouse(t, "NY", "New York, NY", 40.7128, -74.0060)

	productID := uuid.New()
	inventory := InventoryIndex{
		denver.ID(): {productID: entities.ReconstructInventory(denver.ID(), productID, 4)},
		ny.ID():     {productID: entities.ReconstructInventory(ny.ID(), productID, 10)},
	}

	coloradoAddress := geo.Coordinate{Latitude: 39.0, Longitude: -105.0}

	result, err := Select(
		[]ItemRequest{{ProductID: productID, Quantity: 5}},
		coloradoAddress,
		[]*entities.Warehouse{denver, ny},
		inventory,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChosenWarehouse.ID() != ny.ID() {
		t.Fatalf("expected NY to be chosen, got %s", result.ChosenWarehouse.Name())
	}
	if result.ClosestWarehouseExcluded == nil || result.ClosestWarehouseExcluded.ID() != denver.ID() {
		t.Fatal("expected Denver to be reported as the excluded closer warehouse")
	}
}

func TestSelect_NoWarehouseCanFulfill(t *testing.T) {
	x := uuid.New()
	y := uuid.New()
	ny := mustWarehouse(t, "NY", "New York, NY", 40.7128, -74.0060)
	sf := mustWarehouse(t, "SF", "San Francisco, CA", 37.7749, -122.4194)

	inventory := InventoryIndex{
		ny.ID(): {x: entities.ReconstructInventory(ny.ID(), x, 10)},
		sf.ID(): {y: entities.ReconstructInventory(sf.ID(), y, 10)},
	}

	_, err := Select(
		[]ItemRequest{{ProductID: x, Quantity: 1}, {ProductID: y, Quantity: 1}},
		geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
		[]*entities.Warehouse{ny, sf},
		inventory,
	)
	if err != errors.ErrNoWarehouseCanFulfill {
		t.Fatalf("expected ErrNoWarehouseCanFulfill, got %v", err)
	}
}

func TestSelect_EmptyItemsRejected(t *testing.T) {
	_, err := Select(nil, geo.Coordinate{}, nil, InventoryIndex{})
	if err != errors.ErrEmptyOrder {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}
