// Package order - test doubles for the order use cases: one func field per
// method, with a nil field falling back to a default.
//go:build integration || !integration

package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/events"
)

var (
	_ ports.ProductRepository     = (*fakeProductRepo)(nil)
	_ ports.WarehouseRepository   = (*fakeWarehouseRepo)(nil)
	_ ports.InventoryRepository   = (*fakeInventoryRepo)(nil)
	_ ports.OrderRepository       = (*fakeOrderRepo)(nil)
	_ ports.IdempotencyRepository = (*fakeIdempotencyRepo)(nil)
	_ ports.Geocoder              = (*fakeGeocoder)(nil)
	_ ports.PaymentGateway        = (*fakePaymentGateway)(nil)
	_ ports.EventPublisher        = (*fakeEventPublisher)(nil)
	_ ports.UnitOfWork            = (*fakeUnitOfWork)(nil)
	_ ports.UnitOfWorkFactory     = (*fakeUnitOfWorkFactory)(nil)
)

// ============================================
// Repository fakes
// ============================================

type fakeProductRepo struct {
	findByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]*entities.Product, error)
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Product, error) {
	if f.findByIDsFunc != nil {
		return f.findByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type fakeWarehouseRepo struct {
	findAllFunc  func(ctx context.Context) ([]*entities.Warehouse, error)
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entities.Warehouse, error)
}

func (f *fakeWarehouseRepo) FindAll(ctx context.Context) ([]*entities.Warehouse, error) {
	if f.findAllFunc != nil {
		return f.findAllFunc(ctx)
	}
	return nil, nil
}

func (f *fakeWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Warehouse, error) {
	if f.findByIDFunc != nil {
		return f.findByIDFunc(ctx, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

type fakeInventoryRepo struct {
	findByProductIDsFunc func(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error)
	lockByProductIDsFunc func(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error)
	decrementFunc        func(ctx context.Context, warehouseID, productID uuid.UUID, quantity int64) error
}

func (f *fakeInventoryRepo) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
	if f.findByProductIDsFunc != nil {
		return f.findByProductIDsFunc(ctx, productIDs)
	}
	return nil, nil
}

func (f *fakeInventoryRepo) LockByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*entities.Inventory, error) {
	if f.lockByProductIDsFunc != nil {
		return f.lockByProductIDsFunc(ctx, productIDs)
	}
	return nil, nil
}

func (f *fakeInventoryRepo) Decrement(ctx context.Context, warehouseID, productID uuid.UUID, quantity int64) error {
	if f.decrementFunc != nil {
		return f.decrementFunc(ctx, warehouseID, productID, quantity)
	}
	return nil
}

type fakeOrderRepo struct {
	saveFunc     func(ctx context.Context, order *entities.Order) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entities.Order, error)
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *entities.Order) error {
	if f.saveFunc != nil {
		return f.saveFunc(ctx, order)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Order, error) {
	if f.findByIDFunc != nil {
		return f.findByIDFunc(ctx, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

type fakeIdempotencyRepo struct {
	admitFunc     func(ctx context.Context, record *entities.IdempotencyRecord) error
	findByKeyFunc func(ctx context.Context, customerKey, key string) (*entities.IdempotencyRecord, error)
	updateFunc    func(ctx context.Context, record *entities.IdempotencyRecord) error

	updatedRecords []*entities.IdempotencyRecord
}

func (f *fakeIdempotencyRepo) Admit(ctx context.Context, record *entities.IdempotencyRecord) error {
	if f.admitFunc != nil {
		return f.admitFunc(ctx, record)
	}
	return nil
}

func (f *fakeIdempotencyRepo) FindByKey(ctx context.Context, customerKey, key string) (*entities.IdempotencyRecord, error) {
	if f.findByKeyFunc != nil {
		return f.findByKeyFunc(ctx, customerKey, key)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (f *fakeIdempotencyRepo) Update(ctx context.Context, record *entities.IdempotencyRecord) error {
	f.updatedRecords = append(f.updatedRecords, record)
	if f.updateFunc != nil {
		return f.updateFunc(ctx, record)
	}
	return nil
}

// ============================================
// Collaborator fakes
// ============================================

type fakeGeocoder struct {
	geocodeFunc func(ctx context.Context, address string) (float64, float64, error)
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if f.geocodeFunc != nil {
		return f.geocodeFunc(ctx, address)
	}
	return 0, 0, nil
}

type fakePaymentGateway struct {
	authorizeFunc func(ctx context.Context, req ports.AuthorizeRequest) (ports.AuthorizeResult, error)
	refundFunc    func(ctx context.Context, transactionID string, amountCents int64, reason string) (bool, error)

	refundCalls int
}

func (f *fakePaymentGateway) Authorize(ctx context.Context, req ports.AuthorizeRequest) (ports.AuthorizeResult, error) {
	if f.authorizeFunc != nil {
		return f.authorizeFunc(ctx, req)
	}
	if req.AmountCents == paymentDeclinedCents {
		return ports.AuthorizeResult{Success: false}, nil
	}
	return ports.AuthorizeResult{Success: true, TransactionID: "txn-fake"}, nil
}

func (f *fakePaymentGateway) Refund(ctx context.Context, transactionID string, amountCents int64, reason string) (bool, error) {
	f.refundCalls++
	if f.refundFunc != nil {
		return f.refundFunc(ctx, transactionID, amountCents, reason)
	}
	return true, nil
}

// ============================================
// Event publisher fake
// ============================================

type fakeEventPublisher struct {
	published []events.DomainEvent
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	f.published = append(f.published, evts...)
	return nil
}

// ============================================
// Unit of work fake
// ============================================

// fakeUnitOfWork runs fn directly against the incoming context: the order
// use cases only need the commit/rollback-on-error contract, not a real
// transaction boundary.
type fakeUnitOfWork struct {
	executeFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (f *fakeUnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if f.executeFunc != nil {
		return f.executeFunc(ctx, fn)
	}
	return fn(ctx)
}

func (f *fakeUnitOfWork) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}

type fakeUnitOfWorkFactory struct {
	uow *fakeUnitOfWork
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{uow: &fakeUnitOfWork{}}
}

func (f *fakeUnitOfWorkFactory) New() ports.UnitOfWork {
	return f.uow
}

func (f *fakeUnitOfWorkFactory) NewSerializable() ports.UnitOfWork {
	return f.uow
}
