// Package ports определяет интерфейсы (порты) для внешних зависимостей.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// SOLID Principles:
// - DIP: Application зависит от абстракций, не от конкретных реализаций
// - ISP: Каждый интерфейс фокусируется на одной сущности
// - SRP: Repository отвечает только за persistence
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/entities"
)

// ProductRepository определяет контракт для каталога продуктов.
type ProductRepository interface {
	// FindByID загружает продукт по ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)

	// FindByIDs загружает продукты по списку ID за один запрос.
	// Возвращает только найденные продукты; вызывающий код должен сам
	// проверить, что все запрошенные id присутствуют в результате.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Product, error)
}

// WarehouseRepository определяет контракт для каталога складов.
type WarehouseRepository interface {
	// FindAll возвращает все склады. Используется селектором для
	// ранжирования по расстоянию.
	FindAll(ctx context.Context) ([]*entities.Warehouse, error)

	// FindByID загружает склад по ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Warehouse, error)
}

// InventoryRepository определяет контракт для остатков на складах.
type InventoryRepository interface {
	// FindByProductIDs возвращает строки остатков для заданных productIds
	// на всех складах — обычный snapshot-чтение без блокировки.
	// Используется вне транзакции (preview-эндпоинт).
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error)

	// LockByProductIDs возвращает те же строки, но с эксклюзивной
	// блокировкой (SELECT ... FOR UPDATE), взятой одним оператором и
	// упорядоченной по (warehouseId, productId), чтобы исключить
	// межтранзакционные deadlock-и по порядку блокировок. Должен
	// вызываться только внутри активной транзакции (ports.UnitOfWork).
	LockByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error)

	// Decrement уменьшает остаток одной строки на заданное количество.
	// Вызывающий код обязан уже держать блокировку строки (через
	// LockByProductIDs) перед вызовом Decrement.
	Decrement(ctx context.Context, warehouseID, productID uuid.UUID, quantity int64) error
}

// OrderRepository определяет контракт для хранения заказов.
type OrderRepository interface {
	// Save сохраняет заказ вместе со всеми его позициями атомарно.
	Save(ctx context.Context, order *entities.Order) error

	// FindByID загружает заказ по ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Order, error)
}

// IdempotencyRepository определяет контракт для идемпотентных записей.
type IdempotencyRepository interface {
	// Admit пытается создать новую запись в статусе PROCESSING.
	// Если запись с (customerKey, key) уже существует, возвращает
	// errors.ErrEntityAlreadyExists; существующую запись вызывающий код
	// загружает через FindByKey и решает: реплей, конфликт или takeover.
	Admit(ctx context.Context, record *entities.IdempotencyRecord) error

	// FindByKey загружает запись по (customerKey, key). Всегда скоупится по
	// клиенту: два разных клиента могут легитимно переиспользовать один и
	// тот же key, и запись одного не должна быть видна другому.
	FindByKey(ctx context.Context, customerKey, key string) (*entities.IdempotencyRecord, error)

	// Update сохраняет изменения состояния записи (complete/fail/takeover).
	// Реализация должна проверять, что запись не была изменена конкурентно
	// (WHERE locked_at = старое значение), иначе вернуть ConcurrencyError.
	Update(ctx context.Context, record *entities.IdempotencyRecord) error
}
