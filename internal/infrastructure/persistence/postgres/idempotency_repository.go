// Package postgres - IdempotencyRepository implementation.
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
)

// Compile-time check: IdempotencyRepository implements ports.IdempotencyRepository
var _ ports.IdempotencyRepository = (*IdempotencyRepository)(nil)

// IdempotencyRepository реализует ports.IdempotencyRepository поверх таблицы
// idempotency_records, уникальность которой по (customer_key, key) — это
// единственный источник правды для admission (§4.4 идемпотентности): сама
// вставка ИЛИ принимается, ИЛИ бьётся об уникальный constraint, третьего не дано.
type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

// NewIdempotencyRepository создаёт новый IdempotencyRepository.
func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

func (r *IdempotencyRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const idempotencyColumns = `id, customer_key, key, request_hash, status, response_status, response_body, locked_at, created_at`

func scanIdempotencyRecord(scanner interface{ Scan(dest ...any) error }) (*entities.IdempotencyRecord, error) {
	var (
		id                     uuid.UUID
		customerKey, key       string
		requestHash            []byte
		status                 string
		responseStatus         int
		responseBody           []byte
		lockedAt, createdAt    time.Time
	)

	if err := scanner.Scan(&id, &customerKey, &key, &requestHash, &status, &responseStatus, &responseBody, &lockedAt, &createdAt); err != nil {
		return nil, err
	}

	var hash [32]byte
	copy(hash[:], requestHash)

	return entities.ReconstructIdempotencyRecord(
		id, customerKey, key, hash,
		entities.IdempotencyStatus(status),
		responseStatus, responseBody,
		lockedAt, createdAt,
	), nil
}

// Admit пытается вставить новую запись в статусе PROCESSING. Нарушение
// уникального constraint по (customer_key, key) транслируется в
// errors.ErrEntityAlreadyExists — вызывающий код (use case) сам решает,
// что делать: реплей завершённого запроса, конфликт in-flight запроса, или
// takeover протухшей блокировки.
func (r *IdempotencyRepository) Admit(ctx context.Context, record *entities.IdempotencyRecord) error {
	q := r.getQuerier(ctx)

	query := `
		INSERT INTO idempotency_records (id, customer_key, key, request_hash, status, response_status, response_body, locked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	hash := record.RequestHash()
	_, err := q.Exec(ctx, query,
		record.ID(),
		record.CustomerKey(),
		record.Key(),
		hash[:],
		string(record.Status()),
		record.ResponseStatus(),
		record.ResponseBody(),
		record.LockedAt(),
		record.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domainErrors.ErrEntityAlreadyExists
		}
		return fmt.Errorf("failed to admit idempotency record: %w", err)
	}

	return nil
}

// FindByKey загружает запись по (customerKey, key).
func (r *IdempotencyRepository) FindByKey(ctx context.Context, customerKey, key string) (*entities.IdempotencyRecord, error) {
	q := r.getQuerier(ctx)

	query := `SELECT ` + idempotencyColumns + ` FROM idempotency_records WHERE customer_key = $1 AND key = $2`

	record, err := scanIdempotencyRecord(q.QueryRow(ctx, query, customerKey, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}

	return record, nil
}

// Update сохраняет состояние записи после takeover/complete/fail. Takeover
// is the only transition that can race another request for the same key,
// and it is already serialized by IsStale()'s threshold check happening
// against the row this process itself just read; a second racer re-reading
// after this write simply finds a fresh lockedAt and no longer considers
// the record stale.
func (r *IdempotencyRepository) Update(ctx context.Context, record *entities.IdempotencyRecord) error {
	q := r.getQuerier(ctx)

	query := `
		UPDATE idempotency_records
		SET status = $2, response_status = $3, response_body = $4, locked_at = $5, request_hash = $6
		WHERE id = $1
	`
	hash := record.RequestHash()
	tag, err := q.Exec(ctx, query,
		record.ID(),
		string(record.Status()),
		record.ResponseStatus(),
		record.ResponseBody(),
		record.LockedAt(),
		hash[:],
	)
	if err != nil {
		return fmt.Errorf("failed to update idempotency record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrEntityNotFound
	}

	return nil
}
