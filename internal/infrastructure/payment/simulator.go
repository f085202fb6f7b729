// Package payment provides an in-process payment gateway simulator. It
// implements ports.PaymentGateway without ever reaching a real processor:
// every authorize is deterministic given its AmountCents, which is what lets
// tests and the commit engine exercise the decline/compensation path (§4.5
// Step C3/D of the expanded design) without a network dependency.
package payment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/orderforge/orderforge/internal/application/ports"
)

// declinedAmountCents is the test-reserved charge amount that always fails.
// Kept in sync with the use case's own paymentDeclinedCents constant; a
// production gateway would instead consult the card network's response code.
const declinedAmountCents = 9999

// Simulator implements ports.PaymentGateway.
type Simulator struct {
	logger *slog.Logger
}

// NewSimulator creates a new Simulator.
func NewSimulator(logger *slog.Logger) *Simulator {
	return &Simulator{logger: logger}
}

// Authorize deterministically declines a charge of exactly declinedAmountCents
// and approves everything else, minting a transaction id for later refund.
func (s *Simulator) Authorize(ctx context.Context, req ports.AuthorizeRequest) (ports.AuthorizeResult, error) {
	if req.AmountCents == declinedAmountCents {
		s.logger.Info("payment declined",
			"amountCents", req.AmountCents,
			"memo", req.Memo,
		)
		return ports.AuthorizeResult{Success: false}, nil
	}

	txID := uuid.New().String()
	s.logger.Info("payment authorized",
		"amountCents", req.AmountCents,
		"memo", req.Memo,
		"transactionId", txID,
	)
	return ports.AuthorizeResult{Success: true, TransactionID: txID}, nil
}

// Refund always succeeds; the simulator has no ledger of its own to check
// the transaction against.
func (s *Simulator) Refund(ctx context.Context, transactionID string, amountCents int64, reason string) (bool, error) {
	s.logger.Info("payment refunded",
		"transactionId", transactionID,
		"amountCents", amountCents,
		"reason", reason,
	)
	return true, nil
}

var _ ports.PaymentGateway = (*Simulator)(nil)
