// Package selector implements the warehouse selection algorithm: given a set
// of requested line items and a customer coordinate, it picks the closest
// warehouse that can supply every item from a single location.
//
// This package is pure domain logic: it never talks to the store directly.
// Callers (the order commit engine, or the read-only preview use case) fetch
// warehouses and inventory rows first — with or without a row lock depending
// on whether the call happens inside the commit transaction — and pass the
// already-loaded data in.
package selector

import (
	"sort"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/geo"
)

// ItemRequest is one requested (productId, quantity) pair.
type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

// ShortfallDetail names a product a non-preferred (but closer) warehouse
// could not fully supply, so the selector result can explain why it was
// skipped.
type ShortfallDetail struct {
	ProductID uuid.UUID
	Requested int64
	Available int64
}

// Result is the outcome of a successful selection.
type Result struct {
	ChosenWarehouse          *entities.Warehouse
	DistanceKm               float64
	Reason                   string
	ClosestWarehouseExcluded *entities.Warehouse
	ExcludedShortfalls       []ShortfallDetail
}

// InventoryIndex looks up the on-hand quantity of a product at a warehouse.
// Built by the caller from whatever rows it fetched (locked or snapshot).
type InventoryIndex map[uuid.UUID]map[uuid.UUID]*entities.Inventory

// Quantity returns the available quantity of productID at warehouseID, or
// zero if no inventory row exists for that pair.
func (idx InventoryIndex) Quantity(warehouseID, productID uuid.UUID) int64 {
	byProduct, ok := idx[warehouseID]
	if !ok {
		return 0
	}
	row, ok := byProduct[productID]
	if !ok {
		return 0
	}
	return row.Quantity()
}

// Select runs the warehouse selection algorithm described by the spec:
// warehouses are ranked by distance (ties broken by warehouse id, ascending,
// for determinism), and the first ranked warehouse able to fulfill every
// requested item wins.
func Select(items []ItemRequest, customer geo.Coordinate, warehouses []*entities.Warehouse, inventory InventoryIndex) (*Result, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyOrder
	}

	type ranked struct {
		warehouse  *entities.Warehouse
		distanceKm float64
	}

	ranks := make([]ranked, 0, len(warehouses))
	for _, w := range warehouses {
		d := geo.HaversineKm(customer, geo.Coordinate{Latitude: w.Latitude(), Longitude: w.Longitude()})
		ranks = append(ranks, ranked{warehouse: w, distanceKm: d})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].distanceKm != ranks[j].distanceKm {
			return ranks[i].distanceKm < ranks[j].distanceKm
		}
		return ranks[i].warehouse.ID().String() < ranks[j].warehouse.ID().String()
	})

	var closest *entities.Warehouse
	var closestShortfalls []ShortfallDetail

	for i, r := range ranks {
		shortfalls := shortfallsFor(r.warehouse.ID(), items, inventory)
		if i == 0 {
			closest = r.warehouse
			closestShortfalls = shortfalls
		}
		if len(shortfalls) > 0 {
			continue
		}

		result := &Result{
			ChosenWarehouse: r.warehouse,
			DistanceKm:      geo.RoundTo1Decimal(r.distanceKm),
			Reason:          "closest warehouse with sufficient stock for all items",
		}
		if r.warehouse.ID() != closest.ID() {
			result.ClosestWarehouseExcluded = closest
			result.ExcludedShortfalls = closestShortfalls
			result.Reason = "closest warehouse could not supply every item; next-closest qualifying warehouse chosen"
		}
		return result, nil
	}

	return nil, errors.ErrNoWarehouseCanFulfill
}

func shortfallsFor(warehouseID uuid.UUID, items []ItemRequest, inventory InventoryIndex) []ShortfallDetail {
	var shortfalls []ShortfallDetail
	for _, item := range items {
		available := inventory.Quantity(warehouseID, item.ProductID)
		if available < item.Quantity {
			shortfalls = append(shortfalls, ShortfallDetail{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	return shortfalls
}
