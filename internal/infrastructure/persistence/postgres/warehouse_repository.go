// Package postgres - WarehouseRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
)

// Compile-time check: WarehouseRepository implements ports.WarehouseRepository
var _ ports.WarehouseRepository = (*WarehouseRepository)(nil)

// WarehouseRepository реализует ports.WarehouseRepository.
type WarehouseRepository struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository создаёт новый WarehouseRepository.
func NewWarehouseRepository(pool *pgxpool.Pool) *WarehouseRepository {
	return &WarehouseRepository{pool: pool}
}

func (r *WarehouseRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const warehouseColumns = `id, name, address, latitude, longitude`

func scanWarehouse(scanner interface{ Scan(dest ...any) error }) (*entities.Warehouse, error) {
	var (
		id              uuid.UUID
		name, address   string
		latitude, longitude float64
	)

	if err := scanner.Scan(&id, &name, &address, &latitude, &longitude); err != nil {
		return nil, err
	}

	return entities.ReconstructWarehouse(id, name, address, latitude, longitude), nil
}

// FindAll возвращает все склады. Используется селектором для ранжирования по расстоянию.
func (r *WarehouseRepository) FindAll(ctx context.Context) ([]*entities.Warehouse, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + warehouseColumns + ` FROM warehouses ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []*entities.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warehouse row: %w", err)
		}
		warehouses = append(warehouses, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouse rows: %w", err)
	}

	return warehouses, nil
}

// FindByID загружает склад по ID.
func (r *WarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Warehouse, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`

	w, err := scanWarehouse(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find warehouse by id: %w", err)
	}

	return w, nil
}
