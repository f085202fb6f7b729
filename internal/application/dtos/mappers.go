// Package dtos - Mappers для конвертации domain entities в DTOs.
//
// SOLID Principles:
// - SRP: Mappers отвечают только за конвертацию
// - OCP: Новые мапперы добавляются без изменения существующих
//
// Pattern: Mapper/Converter
// Отделяет domain representation от API representation
package dtos

import (
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/selector"
)

// ============================================
// Order Mappers
// ============================================

// ToOrderDTO конвертирует domain entity Order в DTO, вместе со сведениями о
// выборе склада, которые commit engine не хранит на Order.
func ToOrderDTO(order *entities.Order, warehouse *entities.Warehouse, selection *selector.Result) OrderDTO {
	items := make([]OrderItemDTO, len(order.Items()))
	for i, item := range order.Items() {
		items[i] = OrderItemDTO{
			ID:              item.ID().String(),
			ProductID:       item.ProductID().String(),
			Quantity:        item.Quantity(),
			PriceAtPurchase: item.PriceAtPurchaseCents().Cents(),
		}
	}

	warehouseDTO := WarehouseSelectionDTO{
		ID:      warehouse.ID().String(),
		Name:    warehouse.Name(),
		Address: warehouse.Address(),
	}
	if selection != nil {
		warehouseDTO.SelectionReason = selection.Reason
		distance := selection.DistanceKm
		warehouseDTO.DistanceKm = &distance
		if selection.ClosestWarehouseExcluded != nil {
			excludedName := selection.ClosestWarehouseExcluded.Name()
			warehouseDTO.ClosestWarehouseExcluded = &excludedName
		}
	}

	return OrderDTO{
		ID:              order.ID().String(),
		CustomerEmail:   order.CustomerEmail(),
		ShippingAddress: order.ShippingAddress(),
		TotalAmount:     order.TotalCents().Cents(),
		Status:          string(order.Status()),
		CreatedAt:       order.CreatedAt(),
		Warehouse:       warehouseDTO,
		OrderItems:      items,
	}
}

// ToPreviewSelectionDTO конвертирует результат селектора в DTO для
// read-only preview-эндпоинта.
func ToPreviewSelectionDTO(result *selector.Result) PreviewSelectionDTO {
	dto := PreviewSelectionDTO{
		ChosenWarehouse: WarehouseSelectionDTO{
			ID:      result.ChosenWarehouse.ID().String(),
			Name:    result.ChosenWarehouse.Name(),
			Address: result.ChosenWarehouse.Address(),
		},
		DistanceKm: result.DistanceKm,
		Reason:     result.Reason,
	}
	if result.ClosestWarehouseExcluded != nil {
		excludedName := result.ClosestWarehouseExcluded.Name()
		dto.ClosestWarehouseExcluded = &excludedName
	}
	return dto
}
