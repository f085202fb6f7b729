package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orderforge/orderforge/internal/application/dtos"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/errors"
)

// GetByIdempotencyKeyUseCase replays the stored response for a previously
// admitted idempotency key, without re-running the commit pipeline.
type GetByIdempotencyKeyUseCase struct {
	idempotencyRepo ports.IdempotencyRepository
}

func NewGetByIdempotencyKeyUseCase(idempotencyRepo ports.IdempotencyRepository) *GetByIdempotencyKeyUseCase {
	return &GetByIdempotencyKeyUseCase{idempotencyRepo: idempotencyRepo}
}

// Execute returns the stored response body and its original status code. The
// lookup is scoped to CustomerKey: two different customers may legitimately
// reuse the same client-chosen key, and one must never be able to replay the
// other's stored order response. A record in PROCESSING (and not yet stale)
// means the original request is still in flight; callers should surface this
// as a 409, not a replay.
func (uc *GetByIdempotencyKeyUseCase) Execute(ctx context.Context, query dtos.GetOrderByIdempotencyKeyQuery) (int, json.RawMessage, error) {
	record, err := uc.idempotencyRepo.FindByKey(ctx, query.CustomerKey, query.IdempotencyKey)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, nil, fmt.Errorf("%w: idempotency key %s", errors.ErrEntityNotFound, query.IdempotencyKey)
		}
		return 0, nil, fmt.Errorf("failed to load idempotency record: %w", err)
	}

	if record.Status() == entities.IdempotencyStatusProcessing && !record.IsStale() {
		return 0, nil, errors.IdempotencyInFlightError{Key: query.IdempotencyKey}
	}

	return record.ResponseStatus(), record.ResponseBody(), nil
}
