// Package ports - external collaborator interfaces. The geocoder and the
// payment gateway are specified only by their contract (§4.3, §6.3 of the
// expanded design); production adapters live in internal/infrastructure.
package ports

import "context"

// Geocoder resolves a free-form shipping address to coordinates.
type Geocoder interface {
	// Geocode resolves an address to (latitude, longitude). Failure here is
	// fatal to the request, since the warehouse selector cannot rank without
	// a customer coordinate. The use cases wrap the error without a domain
	// error type, so the HTTP layer answers it with 500, not 502.
	Geocode(ctx context.Context, address string) (latitude, longitude float64, err error)
}

// AuthorizeRequest is the input to PaymentGateway.Authorize.
type AuthorizeRequest struct {
	Card        string
	AmountCents int64
	Memo        string
}

// AuthorizeResult is the outcome of an authorize call. TransactionID is only
// meaningful when Success is true.
type AuthorizeResult struct {
	Success       bool
	TransactionID string
}

// PaymentGateway authorizes and refunds payments. Non-idempotent: callers
// must not retry authorize on timeout without a separate idempotency dance.
//
// Test-reserved behavior preserved verbatim: an AmountCents of exactly 9999
// deterministically denies, in both the production simulator and any test
// double.
type PaymentGateway interface {
	// Authorize attempts to charge a card. transactionId is present iff
	// success.
	Authorize(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error)

	// Refund reverses a previously authorized charge, used by the
	// compensation path (Step D) when a commit fails after authorization
	// succeeded. May itself fail; the caller logs at critical severity and
	// does not change the response it already owes the client.
	Refund(ctx context.Context, transactionID string, amountCents int64, reason string) (bool, error)
}
