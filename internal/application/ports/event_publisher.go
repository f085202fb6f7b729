// Package ports - EventPublisher для публикации domain events.
//
// SOLID Principles:
// - DIP: Application не знает о Kafka/RabbitMQ деталях
// - OCP: Можно заменить брокер (сейчас NATS) на другой без изменения use cases
// - ISP: Простой интерфейс с одним методом
//
// Pattern: Publisher/Subscriber (Observer на уровне инфраструктуры)
package ports

import (
	"context"

	"github.com/orderforge/orderforge/internal/domain/events"
)

// EventPublisher определяет контракт для публикации domain events.
//
// Реализации могут быть:
// - Kafka (Phase 6 - production)
// - In-memory (тесты)
// - RabbitMQ (альтернатива)
// - Database Outbox + Poller (для гарантий доставки)
type EventPublisher interface {
	// Publish публикует одно событие.
	//
	// Behaviour:
	// - Синхронная запись события в outbox в текущей транзакции
	// - Доставка брокеру происходит позже, через drain: возможны дубликаты,
	//   а событие, публикация которого не удалась, помечается FAILED и
	//   повторно не отправляется
	// - Consumers должны быть идемпотентными!
	//
	// Example:
	//   event := events.NewOrderCreated(order.ID(), order.CustomerEmail(), warehouseID, order.TotalCents())
	//   err := publisher.Publish(ctx, event)
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch публикует несколько событий за один вызов.
	// Более эффективно для множественных событий.
	//
	// Важно: Если один event не удаётся опубликовать, вся batch должна провалиться
	// (атомарность на уровне batch).
	//
	// Example:
	//   events := []events.DomainEvent{
	//       events.NewOrderCreated(...),
	//       events.NewInventoryReserved(...),
	//   }
	//   err := publisher.PublishBatch(ctx, events)
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventSubscriber определяет контракт для подписки на события (consumers).
// Будет использоваться в Phase 6 для обработчиков событий.
//
// Пока оставляем как placeholder для архитектуры.
type EventSubscriber interface {
	// Subscribe регистрирует обработчик для типа события.
	//
	// eventType: например, "order.created"
	// handler: функция-обработчик
	//
	// Example:
	//   subscriber.Subscribe("order.created", func(ctx context.Context, event events.DomainEvent) error {
	//       orderCreated := event.(*events.OrderCreated)
	//       // Отправить уведомление покупателю
	//       return notificationService.Send(orderCreated.CustomerEmail, ...)
	//   })
	Subscribe(eventType string, handler EventHandler) error

	// Start начинает потребление событий (blocking call).
	// Обычно запускается в отдельной горутине.
	Start(ctx context.Context) error

	// Stop останавливает потребление.
	Stop(ctx context.Context) error
}

// EventHandler - функция-обработчик события.
type EventHandler func(ctx context.Context, event events.DomainEvent) error

// OutboxRepository - интерфейс для Transactional Outbox Pattern (Phase 6).
//
// Transactional Outbox решает проблему:
// "Как гарантировать, что event опубликуется, если БД-транзакция успешна?"
//
// Решение:
// 1. В той же БД-транзакции сохраняем event в таблицу outbox
// 2. Отдельный процесс (poller) читает outbox и публикует в NATS
// 3. После успешной публикации помечает event как published
//
// Событие сохраняется только вместе с успешной БД-транзакцией; доставка
// брокеру не exactly-once (см. Publish выше).
type OutboxRepository interface {
	// Save сохраняет событие в outbox таблицу.
	// Должно выполняться в той же транзакции, что и бизнес-операция!
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished возвращает события, которые ещё не опубликованы.
	// Используется poller'ом для публикации.
	FindUnpublished(ctx context.Context, limit int) ([]events.DomainEvent, error)

	// MarkPublished помечает событие как опубликованное.
	// После этого poller не будет пытаться публиковать его снова.
	MarkPublished(ctx context.Context, eventID string) error

	// MarkFailed помечает событие как failed; drain вызывает его после первой
	// неудачной публикации.
	MarkFailed(ctx context.Context, eventID string, reason string) error
}
