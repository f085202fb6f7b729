// Package postgres - InventoryRepository implementation.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
)

// Compile-time check: InventoryRepository implements ports.InventoryRepository
var _ ports.InventoryRepository = (*InventoryRepository)(nil)

// InventoryRepository реализует ports.InventoryRepository.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository создаёт новый InventoryRepository.
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const inventoryColumns = `warehouse_id, product_id, quantity`

func scanInventory(scanner interface{ Scan(dest ...any) error }) (*entities.Inventory, error) {
	var (
		warehouseID, productID uuid.UUID
		quantity               int64
	)

	if err := scanner.Scan(&warehouseID, &productID, &quantity); err != nil {
		return nil, err
	}

	return entities.ReconstructInventory(warehouseID, productID, quantity), nil
}

// FindByProductIDs возвращает строки остатков для заданных productIds на всех
// складах без блокировки. Used outside a transaction by the preview endpoint.
func (r *InventoryRepository) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
	return r.queryByProductIDs(ctx, productIDs, false)
}

// LockByProductIDs возвращает те же строки с эксклюзивной блокировкой
// (SELECT ... FOR UPDATE), взятой одним оператором и упорядоченной по
// (warehouse_id, product_id), чтобы два конкурентных commit'а всегда
// запрашивали блокировки в одном и том же порядке и никогда не
// дедлокались друг на друге.
func (r *InventoryRepository) LockByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
	return r.queryByProductIDs(ctx, productIDs, true)
}

func (r *InventoryRepository) queryByProductIDs(ctx context.Context, productIDs []uuid.UUID, lock bool) ([]*entities.Inventory, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	q := r.getQuerier(ctx)

	placeholders := make([]string, len(productIDs))
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE product_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY warehouse_id, product_id`
	if lock {
		query += `
		FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var inventoryRows []*entities.Inventory
	for rows.Next() {
		row, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		inventoryRows = append(inventoryRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory rows: %w", err)
	}

	return inventoryRows, nil
}

// Decrement уменьшает остаток одной строки. Caller must already hold the
// row lock (via LockByProductIDs) within the active transaction; the WHERE
// clause's quantity check is a second, belt-and-braces guard against
// oversell if that invariant is ever violated by a caller.
func (r *InventoryRepository) Decrement(ctx context.Context, warehouseID, productID uuid.UUID, quantity int64) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE inventory
		SET quantity = quantity - $1
		WHERE warehouse_id = $2 AND product_id = $3 AND quantity >= $1
	`

	tag, err := q.Exec(ctx, query, quantity, warehouseID, productID)
	if err != nil {
		if isCheckViolation(err) {
			return domainErrors.ErrInventoryOversold
		}
		return fmt.Errorf("failed to decrement inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInventoryOversold
	}

	return nil
}
