package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

func TestNewOrderCreated(t *testing.T) {
	orderID := uuid.New()
	warehouseID := uuid.New()
	total, _ := valueobjects.NewMoneyFromCents(1000)

	event := NewOrderCreated(orderID, "c@x.com", warehouseID, total)

	if event.EventType() != EventTypeOrderCreated {
		t.Fatalf("expected %s, got %s", EventTypeOrderCreated, event.EventType())
	}
	if event.AggregateID() != orderID {
		t.Fatal("expected aggregate id to be the order id")
	}
}

func TestEventStore(t *testing.T) {
	store := NewEventStore()
	store.Add(NewOrderFailed(uuid.New(), "c@x.com", "payment declined", false))

	if store.Count() != 1 {
		t.Fatalf("expected 1 event, got %d", store.Count())
	}

	store.Clear()
	if store.Count() != 0 {
		t.Fatalf("expected 0 events after clear, got %d", store.Count())
	}
}
