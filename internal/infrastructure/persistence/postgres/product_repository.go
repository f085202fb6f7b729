// Package postgres - ProductRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

// Compile-time check: ProductRepository implements ports.ProductRepository
var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository реализует ports.ProductRepository с использованием PostgreSQL.
//
// Thread-safe: использует connection pool.
// Transaction-aware: автоматически использует транзакцию из context если есть.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository создаёт новый ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// querier - абстракция для выполнения запросов.
// Позволяет использовать как pool, так и transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// getQuerier возвращает querier из context (transaction) или pool.
func (r *ProductRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const productColumns = `id, sku, name, price_cents`

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*entities.Product, error) {
	var (
		id         uuid.UUID
		sku, name  string
		priceCents int64
	)

	if err := scanner.Scan(&id, &sku, &name, &priceCents); err != nil {
		return nil, err
	}

	price, err := valueobjects.NewMoneyFromCents(priceCents)
	if err != nil {
		return nil, fmt.Errorf("corrupt stored price for product %s: %w", id, err)
	}

	return entities.ReconstructProduct(id, sku, name, price), nil
}

// FindByID загружает продукт по ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find product by id: %w", err)
	}

	return product, nil
}

// FindByIDs загружает продукты по списку ID за один запрос.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.getQuerier(ctx)

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by ids: %w", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}
