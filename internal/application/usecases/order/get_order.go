package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/application/dtos"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/errors"
)

// GetOrderUseCase loads a previously placed order by ID.
type GetOrderUseCase struct {
	orderRepo     ports.OrderRepository
	warehouseRepo ports.WarehouseRepository
}

func NewGetOrderUseCase(orderRepo ports.OrderRepository, warehouseRepo ports.WarehouseRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo, warehouseRepo: warehouseRepo}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, query dtos.GetOrderQuery) (*dtos.OrderDTO, error) {
	orderID, err := uuid.Parse(query.OrderID)
	if err != nil {
		return nil, errors.ValidationError{Field: "order_id", Message: "invalid UUID"}
	}

	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", errors.ErrEntityNotFound, query.OrderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	warehouse, err := uc.warehouseRepo.FindByID(ctx, order.WarehouseID())
	if err != nil {
		return nil, fmt.Errorf("failed to load order warehouse: %w", err)
	}

	// The selection reasoning (distance, excluded alternatives) is only
	// meaningful at placement time; a stored order replays just the
	// warehouse identity, not a fresh selector.Result.
	dto := dtos.ToOrderDTO(order, warehouse, nil)
	return &dto, nil
}
