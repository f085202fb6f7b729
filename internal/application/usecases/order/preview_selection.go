package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/application/dtos"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/geo"
	"github.com/orderforge/orderforge/internal/domain/selector"
)

// PreviewSelectionUseCase runs the warehouse selector against a snapshot
// read, with no locking and no side effects. Used by the read-only
// preview endpoint so a client can see which warehouse would be chosen
// before actually placing an order.
type PreviewSelectionUseCase struct {
	warehouseRepo ports.WarehouseRepository
	inventoryRepo ports.InventoryRepository
	geocoder      ports.Geocoder
}

func NewPreviewSelectionUseCase(warehouseRepo ports.WarehouseRepository, inventoryRepo ports.InventoryRepository, geocoder ports.Geocoder) *PreviewSelectionUseCase {
	return &PreviewSelectionUseCase{warehouseRepo: warehouseRepo, inventoryRepo: inventoryRepo, geocoder: geocoder}
}

func (uc *PreviewSelectionUseCase) Execute(ctx context.Context, query dtos.PreviewSelectionQuery) (*dtos.PreviewSelectionDTO, error) {
	items, productIDs, err := parseItems(query.Items)
	if err != nil {
		return nil, err
	}

	lat, lng, err := uc.geocoder.Geocode(ctx, query.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	warehouses, err := uc.warehouseRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}

	rows, err := uc.inventoryRepo.FindByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	result, err := selector.Select(items, geo.Coordinate{Latitude: lat, Longitude: lng}, warehouses, buildIndex(rows))
	if err != nil {
		return nil, err
	}

	dto := dtos.ToPreviewSelectionDTO(result)
	return &dto, nil
}

func parseItems(commands []dtos.CreateOrderItemCommand) ([]selector.ItemRequest, []uuid.UUID, error) {
	items := make([]selector.ItemRequest, len(commands))
	productIDs := make([]uuid.UUID, len(commands))
	for i, c := range commands {
		productID, err := uuid.Parse(c.ProductID)
		if err != nil {
			return nil, nil, errors.ValidationError{Field: "items", Message: "invalid product UUID"}
		}
		items[i] = selector.ItemRequest{ProductID: productID, Quantity: c.Quantity}
		productIDs[i] = productID
	}
	return items, productIDs, nil
}

func buildIndex(rows []*entities.Inventory) selector.InventoryIndex {
	idx := make(selector.InventoryIndex)
	for _, row := range rows {
		byProduct, ok := idx[row.WarehouseID()]
		if !ok {
			byProduct = make(map[uuid.UUID]*entities.Inventory)
			idx[row.WarehouseID()] = byProduct
		}
		byProduct[row.ProductID()] = row
	}
	return idx
}
