// Package ports - UnitOfWork паттерн для управления транзакциями.
//
// SOLID Principles:
// - SRP: UnitOfWork отвечает только за границы транзакций
// - DIP: Application не знает о деталях БД транзакций
//
// Pattern: Unit of Work
// - Обеспечивает атомарность операций
// - Один UnitOfWork = одна БД-транзакция
// - Автоматический rollback при ошибке
package ports

import "context"

// UnitOfWork определяет контракт для управления транзакциями.
//
// Паттерн Unit of Work решает проблему:
// "Как гарантировать, что несколько операций выполнятся атомарно?"
//
// Пример использования:
//   err := uow.Execute(ctx, func(ctx context.Context) error {
//       if err := inventoryRepo.Decrement(ctx, warehouseID, productID, quantity); err != nil {
//           return err
//       }
//       if err := orderRepo.Save(ctx, order); err != nil {
//           return err
//       }
//       return eventPublisher.Publish(ctx, events.NewOrderCreated(order.ID(), order.CustomerEmail(), warehouseID, order.TotalCents()))
//   })
//   // Если любая операция вернёт error - automatic rollback
//   // Если все успешны - automatic commit
type UnitOfWork interface {
	// Execute выполняет функцию внутри транзакции.
	//
	// Поведение:
	// - Начинает транзакцию
	// - Выполняет fn
	// - Если fn возвращает error: ROLLBACK
	// - Если fn возвращает nil: COMMIT
	//
	// Context:
	// Переданный context содержит транзакцию.
	// Все операции внутри fn должны использовать этот context!
	//
	// Example:
	//   uow.Execute(ctx, func(txCtx context.Context) error {
	//       // Используем txCtx, не ctx!
	//       rows, err := inventoryRepo.LockByProductIDs(txCtx, productIDs)
	//       if err != nil {
	//           return err // Автоматический rollback
	//       }
	//
	//       // ... выбрать склад по rows ...
	//       return inventoryRepo.Decrement(txCtx, warehouseID, productID, quantity)
	//   })
	Execute(ctx context.Context, fn func(context.Context) error) error

	// ExecuteWithResult аналогичен Execute, но возвращает результат.
	// Полезно когда нужно вернуть созданную entity.
	//
	// Example:
	//   result, err := uow.ExecuteWithResult(ctx, func(txCtx context.Context) (interface{}, error) {
	//       order, err := entities.NewOrder(email, address, warehouseID, items)
	//       if err != nil {
	//           return nil, err
	//       }
	//       return order, orderRepo.Save(txCtx, order)
	//   })
	ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error)
}

// UnitOfWorkFactory создаёт экземпляры UnitOfWork.
// Позволяет выбрать уровень изоляции (New или NewSerializable);
// вложенные транзакции и savepoints не поддерживаются.
//
// В большинстве случаев достаточно одного UnitOfWork на приложение,
// но фабрика позволяет создавать изолированные транзакции.
type UnitOfWorkFactory interface {
	// New создаёт новый UnitOfWork с изоляцией по умолчанию (READ COMMITTED).
	New() UnitOfWork

	// NewSerializable создаёт UnitOfWork с SERIALIZABLE изоляцией. Order
	// commit engine использует этот уровень для Step C (§4.5): он не
	// полагается только на построчные блокировки, а просит БД откатить
	// транзакцию (40001) при любой аномалии сериализации между
	// конкурентными размещениями заказов.
	NewSerializable() UnitOfWork
}
