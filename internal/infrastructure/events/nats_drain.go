// Package events drains the transactional outbox into NATS. The outbox
// write happens inside the same Postgres transaction as the business
// operation (internal/infrastructure/persistence/postgres.OutboxRepository);
// this package is the separate process side of the pattern, reading
// PENDING rows and publishing each one. A row whose publish fails is marked
// FAILED and is not read again; a row whose MarkPublished fails stays
// PENDING and is published again on a later tick.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/orderforge/orderforge/internal/application/ports"
)

// subjectPrefix namespaces every published subject under the domain, e.g.
// "orderforge.order.created".
const subjectPrefix = "orderforge."

// Drain periodically pulls unpublished outbox rows and publishes them to
// NATS, marking each row published or failed depending on the publish
// outcome.
type Drain struct {
	outbox   ports.OutboxRepository
	conn     *nats.Conn
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

// NewDrain creates a Drain. interval controls the polling cadence; batch
// bounds how many rows are pulled per tick.
func NewDrain(outbox ports.OutboxRepository, conn *nats.Conn, interval time.Duration, batch int, logger *slog.Logger) *Drain {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Drain{outbox: outbox, conn: conn, interval: interval, batch: batch, logger: logger}
}

// Run polls until ctx is cancelled. Intended to run as a single background
// goroutine started by cmd/api's main.
func (d *Drain) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Drain) tick(ctx context.Context) {
	pending, err := d.outbox.FindUnpublished(ctx, d.batch)
	if err != nil {
		d.logger.Error("failed to load unpublished outbox events", "error", err)
		return
	}

	for _, event := range pending {
		subject := subjectPrefix + event.EventType()

		payload, err := json.Marshal(event)
		if err != nil {
			d.logger.Error("failed to marshal outbox event for nats", "eventId", event.EventID(), "error", err)
			if markErr := d.outbox.MarkFailed(ctx, event.EventID().String(), err.Error()); markErr != nil {
				d.logger.Error("failed to mark outbox event failed", "eventId", event.EventID(), "error", markErr)
			}
			continue
		}

		if err := d.conn.Publish(subject, payload); err != nil {
			d.logger.Error("failed to publish outbox event to nats",
				"eventId", event.EventID(),
				"subject", subject,
				"error", err,
			)
			if markErr := d.outbox.MarkFailed(ctx, event.EventID().String(), err.Error()); markErr != nil {
				d.logger.Error("failed to mark outbox event failed", "eventId", event.EventID(), "error", markErr)
			}
			continue
		}

		if err := d.outbox.MarkPublished(ctx, event.EventID().String()); err != nil {
			d.logger.Error("failed to mark outbox event published", "eventId", event.EventID(), "error", err)
		}
	}
}
