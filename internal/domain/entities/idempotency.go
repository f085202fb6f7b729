// Package entities - IdempotencyRecord guards POST /orders against duplicate
// submission. Admission is unique-constraint driven on (customerKey, key):
// the repository's Admit relies on a Postgres unique violation (23505) to
// detect a concurrent admit race, the same pattern the teacher uses to
// detect a reused idempotency key on transactions.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/errors"
)

// IdempotencyStatus represents the processing state of an admitted request.
type IdempotencyStatus string

const (
	IdempotencyStatusProcessing IdempotencyStatus = "PROCESSING"
	IdempotencyStatusCompleted  IdempotencyStatus = "COMPLETED"
	IdempotencyStatusFailed     IdempotencyStatus = "FAILED"
)

// IsValid checks if the idempotency status is valid.
func (s IdempotencyStatus) IsValid() bool {
	switch s {
	case IdempotencyStatusProcessing, IdempotencyStatusCompleted, IdempotencyStatusFailed:
		return true
	default:
		return false
	}
}

// StaleLockThreshold is the maximum age a PROCESSING record may reach before
// a new request is allowed to take over its lock, per the 30s stale-lock
// rule.
const StaleLockThreshold = 30 * time.Second

// IdempotencyRecord tracks one (customerKey, key) admission.
type IdempotencyRecord struct {
	id             uuid.UUID
	customerKey    string
	key            string
	requestHash    [32]byte
	status         IdempotencyStatus
	responseStatus int
	responseBody   []byte
	lockedAt       time.Time
	createdAt      time.Time
}

// NewIdempotencyRecord admits a new request under the given key, entering
// the PROCESSING state with the lock timestamped now.
func NewIdempotencyRecord(customerKey, key string, requestHash [32]byte) (*IdempotencyRecord, error) {
	if key == "" {
		return nil, errors.ValidationError{Field: "key", Message: "idempotency key is required"}
	}

	now := time.Now()
	return &IdempotencyRecord{
		id:          uuid.New(),
		customerKey: customerKey,
		key:         key,
		requestHash: requestHash,
		status:      IdempotencyStatusProcessing,
		lockedAt:    now,
		createdAt:   now,
	}, nil
}

// ReconstructIdempotencyRecord reconstructs an IdempotencyRecord from stored data.
func ReconstructIdempotencyRecord(
	id uuid.UUID,
	customerKey, key string,
	requestHash [32]byte,
	status IdempotencyStatus,
	responseStatus int,
	responseBody []byte,
	lockedAt, createdAt time.Time,
) *IdempotencyRecord {
	return &IdempotencyRecord{
		id:             id,
		customerKey:    customerKey,
		key:            key,
		requestHash:    requestHash,
		status:         status,
		responseStatus: responseStatus,
		responseBody:   responseBody,
		lockedAt:       lockedAt,
		createdAt:      createdAt,
	}
}

func (r *IdempotencyRecord) ID() uuid.UUID                  { return r.id }
func (r *IdempotencyRecord) CustomerKey() string            { return r.customerKey }
func (r *IdempotencyRecord) Key() string                    { return r.key }
func (r *IdempotencyRecord) RequestHash() [32]byte          { return r.requestHash }
func (r *IdempotencyRecord) Status() IdempotencyStatus       { return r.status }
func (r *IdempotencyRecord) ResponseStatus() int            { return r.responseStatus }
func (r *IdempotencyRecord) ResponseBody() []byte           { return r.responseBody }
func (r *IdempotencyRecord) LockedAt() time.Time            { return r.lockedAt }
func (r *IdempotencyRecord) CreatedAt() time.Time           { return r.createdAt }

// MatchesHash reports whether a replay request's hash matches the hash the
// key was originally admitted with.
func (r *IdempotencyRecord) MatchesHash(hash [32]byte) bool {
	return r.requestHash == hash
}

// IsStale reports whether a PROCESSING record's lock is old enough that a
// new request may take it over (the original holder presumably crashed).
func (r *IdempotencyRecord) IsStale() bool {
	return r.status == IdempotencyStatusProcessing && time.Since(r.lockedAt) > StaleLockThreshold
}

// TakeOver re-admits a stale PROCESSING record under a new request, resetting
// the lock timestamp and hash.
func (r *IdempotencyRecord) TakeOver(requestHash [32]byte) error {
	if !r.IsStale() {
		return errors.IdempotencyInFlightError{Key: r.key}
	}
	r.requestHash = requestHash
	r.lockedAt = time.Now()
	r.status = IdempotencyStatusProcessing
	r.responseStatus = 0
	r.responseBody = nil
	return nil
}

// Complete records the final response body and transitions to COMPLETED.
func (r *IdempotencyRecord) Complete(responseStatus int, responseBody []byte) error {
	if r.status != IdempotencyStatusProcessing {
		return errors.NewBusinessRuleViolation(
			"IDEMPOTENCY_NOT_PROCESSING",
			"cannot complete a record that is not PROCESSING",
			map[string]interface{}{"key": r.key, "status": r.status},
		)
	}
	r.status = IdempotencyStatusCompleted
	r.responseStatus = responseStatus
	r.responseBody = responseBody
	return nil
}

// Fail records a failed terminal response and transitions to FAILED.
func (r *IdempotencyRecord) Fail(responseStatus int, responseBody []byte) error {
	if r.status != IdempotencyStatusProcessing {
		return errors.NewBusinessRuleViolation(
			"IDEMPOTENCY_NOT_PROCESSING",
			"cannot fail a record that is not PROCESSING",
			map[string]interface{}{"key": r.key, "status": r.status},
		)
	}
	r.status = IdempotencyStatusFailed
	r.responseStatus = responseStatus
	r.responseBody = responseBody
	return nil
}
