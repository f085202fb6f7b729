// Package postgres - OrderRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

// Compile-time check: OrderRepository implements ports.OrderRepository
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository реализует ports.OrderRepository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository создаёт новый OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save сохраняет заказ вместе со всеми его позициями атомарно. Always runs
// inside the commit engine's SERIALIZABLE transaction (Step C5, §4.5): the
// caller never calls this outside a ports.UnitOfWork.Execute closure.
func (r *OrderRepository) Save(ctx context.Context, order *entities.Order) error {
	q := r.getQuerier(ctx)

	orderQuery := `
		INSERT INTO orders (id, customer_email, shipping_address, total_cents, status, warehouse_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, orderQuery,
		order.ID(),
		order.CustomerEmail(),
		order.ShippingAddress(),
		order.TotalCents().Cents(),
		string(order.Status()),
		order.WarehouseID(),
		order.CreatedAt(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.NewDomainError("WAREHOUSE_NOT_FOUND", "chosen warehouse does not exist", err)
		}
		return fmt.Errorf("failed to save order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range order.Items() {
		_, err := q.Exec(ctx, itemQuery,
			item.ID(),
			order.ID(),
			item.ProductID(),
			item.Quantity(),
			item.PriceAtPurchaseCents().Cents(),
		)
		if err != nil {
			return fmt.Errorf("failed to save order item: %w", err)
		}
	}

	return nil
}

// FindByID загружает заказ по ID вместе со всеми его позициями.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	q := r.getQuerier(ctx)

	var (
		customerEmail, shippingAddress, status string
		totalCents                              int64
		warehouseID                             uuid.UUID
		createdAt                               time.Time
	)

	orderQuery := `
		SELECT customer_email, shipping_address, total_cents, status, warehouse_id, created_at
		FROM orders WHERE id = $1
	`
	err := q.QueryRow(ctx, orderQuery, id).Scan(&customerEmail, &shippingAddress, &totalCents, &status, &warehouseID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find order by id: %w", err)
	}

	itemsQuery := `
		SELECT id, product_id, quantity, price_at_purchase_cents
		FROM order_items WHERE order_id = $1
		ORDER BY id
	`
	rows, err := q.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []entities.OrderItem
	for rows.Next() {
		var (
			itemID, productID uuid.UUID
			quantity           int64
			priceCents         int64
		)
		if err := rows.Scan(&itemID, &productID, &quantity, &priceCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		price, err := valueobjects.NewMoneyFromCents(priceCents)
		if err != nil {
			return nil, fmt.Errorf("corrupt stored order item price: %w", err)
		}
		items = append(items, entities.ReconstructOrderItem(itemID, productID, quantity, price))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}

	total, err := valueobjects.NewMoneyFromCents(totalCents)
	if err != nil {
		return nil, fmt.Errorf("corrupt stored order total: %w", err)
	}

	return entities.ReconstructOrder(
		id,
		customerEmail,
		shippingAddress,
		items,
		total,
		entities.OrderStatus(status),
		warehouseID,
		createdAt,
	), nil
}
