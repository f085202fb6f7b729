package order

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/application/dtos"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/domain/entities"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/events"
	"github.com/orderforge/orderforge/internal/domain/geo"
	"github.com/orderforge/orderforge/internal/domain/selector"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

// paymentDeclinedCents is the deterministic test-reserved amount: a charge
// of exactly this many cents is always declined by the gateway, production
// and fakes alike.
const paymentDeclinedCents = 9999

// CreateOrderUseCase runs the full order-placement pipeline: admit the
// idempotency key, geocode the shipping address, select a warehouse under a
// SERIALIZABLE transaction, authorize payment, decrement inventory, and
// persist the order. See the commit engine design (§4.5 of the expanded
// design) for the step lettering referenced in comments below.
type CreateOrderUseCase struct {
	productRepo     ports.ProductRepository
	warehouseRepo   ports.WarehouseRepository
	inventoryRepo   ports.InventoryRepository
	orderRepo       ports.OrderRepository
	idempotencyRepo ports.IdempotencyRepository
	geocoder        ports.Geocoder
	paymentGateway  ports.PaymentGateway
	eventPublisher  ports.EventPublisher
	uowFactory      ports.UnitOfWorkFactory
	logger          *slog.Logger
}

func NewCreateOrderUseCase(
	productRepo ports.ProductRepository,
	warehouseRepo ports.WarehouseRepository,
	inventoryRepo ports.InventoryRepository,
	orderRepo ports.OrderRepository,
	idempotencyRepo ports.IdempotencyRepository,
	geocoder ports.Geocoder,
	paymentGateway ports.PaymentGateway,
	eventPublisher ports.EventPublisher,
	uowFactory ports.UnitOfWorkFactory,
	logger *slog.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		inventoryRepo:   inventoryRepo,
		orderRepo:       orderRepo,
		idempotencyRepo: idempotencyRepo,
		geocoder:        geocoder,
		paymentGateway:  paymentGateway,
		eventPublisher:  eventPublisher,
		uowFactory:      uowFactory,
		logger:          logger,
	}
}

// Execute places an order. customerKey scopes the idempotency key to the
// caller (the customer email from the request body) so two different customers
// reusing the same client-chosen key never collide. The Idempotency-Key is
// optional: when cmd.IdempotencyKey is empty, no admission record is created
// and the pipeline simply runs once with no replay protection.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd dtos.CreateOrderCommand, customerKey string) (*dtos.OrderDTO, error) {
	var record *entities.IdempotencyRecord

	if cmd.IdempotencyKey != "" {
		// Step A: idempotency admission.
		hash := requestHash(cmd)
		admitted, replay, err := uc.admit(ctx, customerKey, cmd.IdempotencyKey, hash)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replayOrderResponse(replay)
		}
		record = admitted
	}

	orderDTO, pipelineErr := uc.runPipeline(ctx, cmd)

	// Step E: finalize the idempotency record with the outcome, whatever it
	// was. A finalize failure is logged but never overrides the response
	// the client is already owed. No-op when no key was supplied.
	uc.finalize(ctx, record, orderDTO, pipelineErr)

	return orderDTO, pipelineErr
}

// admit performs Step A: admit a new PROCESSING record, detect an in-flight
// duplicate, detect a stale lock eligible for takeover, or detect a replay
// of an already-finished request. Only called when a non-empty key was
// supplied.
func (uc *CreateOrderUseCase) admit(ctx context.Context, customerKey, key string, hash [32]byte) (record *entities.IdempotencyRecord, replay *entities.IdempotencyRecord, err error) {
	newRecord, err := entities.NewIdempotencyRecord(customerKey, key, hash)
	if err != nil {
		return nil, nil, err
	}

	admitErr := uc.idempotencyRepo.Admit(ctx, newRecord)
	if admitErr == nil {
		return newRecord, nil, nil
	}
	if !stderrors.Is(admitErr, errors.ErrEntityAlreadyExists) {
		return nil, nil, fmt.Errorf("failed to admit idempotency key: %w", admitErr)
	}

	existing, findErr := uc.idempotencyRepo.FindByKey(ctx, customerKey, key)
	if findErr != nil {
		return nil, nil, fmt.Errorf("failed to load existing idempotency record: %w", findErr)
	}

	if !existing.MatchesHash(hash) {
		return nil, nil, errors.IdempotencyParamsMismatchError{Key: key}
	}

	switch existing.Status() {
	case entities.IdempotencyStatusCompleted, entities.IdempotencyStatusFailed:
		// Same key, same params, already finished: replay the stored response.
		return nil, existing, nil
	case entities.IdempotencyStatusProcessing:
		if !existing.IsStale() {
			return nil, nil, errors.IdempotencyInFlightError{Key: key}
		}
		if takeoverErr := existing.TakeOver(hash); takeoverErr != nil {
			return nil, nil, takeoverErr
		}
		if updateErr := uc.idempotencyRepo.Update(ctx, existing); updateErr != nil {
			return nil, nil, fmt.Errorf("failed to take over stale idempotency record: %w", updateErr)
		}
		return existing, nil, nil
	default:
		return nil, nil, fmt.Errorf("idempotency record %s in unexpected status %s", key, existing.Status())
	}
}

// runPipeline performs Steps B through D: geocode, catalog lookup, the
// SERIALIZABLE warehouse-selection-and-commit transaction, payment
// authorization, and compensation.
func (uc *CreateOrderUseCase) runPipeline(ctx context.Context, cmd dtos.CreateOrderCommand) (*dtos.OrderDTO, error) {
	items, productIDs, err := parseItems(cmd.Items)
	if err != nil {
		return nil, err
	}

	// Step B: geocode the shipping address. Fatal to the request: the
	// selector cannot rank warehouses without a customer coordinate.
	lat, lng, err := uc.geocoder.Geocode(ctx, cmd.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode shipping address: %w", err)
	}
	customerCoord := geo.Coordinate{Latitude: lat, Longitude: lng}

	products, err := uc.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, errors.ErrProductsNotFound
	}
	priceByID := make(map[uuid.UUID]valueobjects.Money, len(products))
	for _, p := range products {
		priceByID[p.ID()] = p.PriceCents()
	}

	var order *entities.Order
	var chosenWarehouse *entities.Warehouse
	var selection *selector.Result
	var authResult ports.AuthorizeResult
	var authorized bool
	var eventList []events.DomainEvent

	// The commit transaction runs under a 30s deadline; compensation below
	// keeps using ctx so a refund can still run after the deadline expires.
	commitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	uow := uc.uowFactory.NewSerializable()
	commitErr := uow.Execute(commitCtx, func(txCtx context.Context) error {
		// Step C1: lock inventory rows for every requested product, across
		// all warehouses, in one statement ordered by (warehouseId,
		// productId) to keep lock acquisition order identical across
		// concurrent commits.
		lockedRows, err := uc.inventoryRepo.LockByProductIDs(txCtx, productIDs)
		if err != nil {
			return fmt.Errorf("failed to lock inventory: %w", err)
		}

		warehouses, err := uc.warehouseRepo.FindAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to load warehouses: %w", err)
		}

		// Step C2: re-run the selector against the just-locked snapshot.
		// This is deliberately the same call the preview endpoint makes
		// against an unlocked snapshot; here it is authoritative because no
		// other commit can be mutating these rows concurrently.
		result, err := selector.Select(items, customerCoord, warehouses, buildIndex(lockedRows))
		if err != nil {
			return err
		}
		selection = result
		chosenWarehouse = result.ChosenWarehouse

		orderItems := make([]entities.OrderItem, len(items))
		for i, item := range items {
			price, ok := priceByID[item.ProductID]
			if !ok {
				return errors.ErrProductsNotFound
			}
			orderItem, err := entities.NewOrderItem(item.ProductID, item.Quantity, price)
			if err != nil {
				return err
			}
			orderItems[i] = orderItem
		}

		newOrder, err := entities.NewOrder(cmd.Customer.Email, cmd.Address, chosenWarehouse.ID(), orderItems)
		if err != nil {
			return err
		}
		order = newOrder

		// Step C3: authorize payment for the computed total. A charge of
		// exactly 9999 cents is always declined, in production and test
		// doubles alike.
		authResult, err = uc.paymentGateway.Authorize(txCtx, ports.AuthorizeRequest{
			Card:        cmd.PaymentDetails.CreditCard,
			AmountCents: order.TotalCents().Cents(),
			Memo:        fmt.Sprintf("order %s", order.ID()),
		})
		if err != nil {
			return fmt.Errorf("payment authorization failed: %w", err)
		}
		if !authResult.Success {
			_ = order.MarkFailed()
			return errors.ErrPaymentDeclined
		}
		authorized = true

		if err := order.MarkPaid(); err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}

		// Step C4: decrement inventory for the chosen warehouse only.
		for _, item := range items {
			if err := uc.inventoryRepo.Decrement(txCtx, chosenWarehouse.ID(), item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to decrement inventory: %w", err)
			}
			eventList = append(eventList, events.NewInventoryReserved(chosenWarehouse.ID(), item.ProductID, item.Quantity, order.ID()))
		}

		// Step C5: persist the order and its items atomically.
		if err := uc.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}

		// Step C6: stage the domain events for publication once the
		// transaction commits.
		eventList = append(eventList, events.NewOrderCreated(order.ID(), order.CustomerEmail(), chosenWarehouse.ID(), order.TotalCents()))
		return uc.eventPublisher.PublishBatch(txCtx, eventList)
	})

	if commitErr != nil {
		// Step D: compensation. If payment was authorized but a later step
		// in the same transaction failed, the transaction rolled back the
		// order and inventory rows, but the charge on the payment
		// processor's side is real and must be reversed explicitly: it
		// lives outside the database transaction.
		if authorized {
			uc.compensate(ctx, authResult.TransactionID, order)
		}
		_ = uc.eventPublisher.PublishBatch(ctx, []events.DomainEvent{
			events.NewOrderFailed(uuid.New(), cmd.Customer.Email, commitErr.Error(), errors.IsConcurrencyError(commitErr)),
		})
		return nil, commitErr
	}

	dto := dtos.ToOrderDTO(order, chosenWarehouse, selection)
	return &dto, nil
}

// compensate reverses a payment that was authorized but whose order never
// committed. A refund failure cannot change the error already returned to
// the client, so it is only logged, at the highest severity the logger
// offers: it represents money charged with nothing to show for it until an
// operator intervenes.
func (uc *CreateOrderUseCase) compensate(ctx context.Context, transactionID string, order *entities.Order) {
	amount := int64(0)
	if order != nil {
		amount = order.TotalCents().Cents()
	}
	ok, err := uc.paymentGateway.Refund(ctx, transactionID, amount, "order commit failed after payment authorization")
	if err != nil || !ok {
		uc.logger.Error("compensation refund failed after authorized payment",
			"critical", true,
			"transactionId", transactionID,
			"amountCents", amount,
			"error", err,
		)
		return
	}
	uc.logger.Warn("compensation refund issued after order commit failure",
		"transactionId", transactionID,
		"amountCents", amount,
	)
}

// finalize performs Step E: write the terminal response into the
// idempotency record so a retried request with the same key replays instead
// of re-running the pipeline. A 5xx/unknown pipeline failure never marks the
// record terminal: it is left PROCESSING (subject to stale-lock takeover) so
// a retry re-runs the pipeline instead of permanently replaying a failure
// that might succeed next time.
func (uc *CreateOrderUseCase) finalize(ctx context.Context, record *entities.IdempotencyRecord, dto *dtos.OrderDTO, pipelineErr error) {
	if record == nil {
		return
	}

	if pipelineErr == nil {
		body, err := json.Marshal(dto)
		if err != nil {
			uc.logger.Error("failed to marshal order response for idempotency finalize", "error", err)
			return
		}
		if err := record.Complete(201, body); err != nil {
			uc.logger.Error("failed to transition idempotency record to completed", "error", err)
			return
		}
	} else {
		status, deterministic := statusForError(pipelineErr)
		if !deterministic {
			// Leave the record PROCESSING: retry safety for 5xx/unknown
			// failures takes priority over marking the key terminal.
			return
		}
		body, _ := json.Marshal(map[string]string{"error": pipelineErr.Error()})
		if err := record.Fail(status, body); err != nil {
			uc.logger.Error("failed to transition idempotency record to failed", "error", err)
			return
		}
	}

	if err := uc.idempotencyRepo.Update(ctx, record); err != nil {
		uc.logger.Error("failed to persist idempotency record finalize", "error", err)
	}
}

// statusForError maps a pipeline failure to the HTTP status it would receive
// from HandleDomainError, and reports whether that failure is deterministic
// (the same request will fail the same way again, so it is safe to make the
// idempotency record terminal) or not (a 5xx/unknown failure, where retrying
// might succeed and the record must stay PROCESSING).
func statusForError(err error) (status int, deterministic bool) {
	switch {
	case stderrors.Is(err, errors.ErrPaymentDeclined):
		return 402, true
	case stderrors.Is(err, errors.ErrNoWarehouseCanFulfill), stderrors.Is(err, errors.ErrSplitShipmentNeeded):
		return 400, true
	case errors.IsValidation(err):
		return 400, true
	case errors.IsNotFound(err):
		return 404, true
	case errors.IsBusinessRuleViolation(err):
		return 422, true
	default:
		return 500, false
	}
}

// replayOrderResponse turns a terminal idempotency record's stored response
// back into the typed DTO this use case returns, so the handler layer never
// needs to know whether a 201 came from a fresh pipeline run or a replay.
func replayOrderResponse(record *entities.IdempotencyRecord) (*dtos.OrderDTO, error) {
	if record.Status() == entities.IdempotencyStatusFailed {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(record.ResponseBody(), &payload)
		return nil, errors.NewDomainError("ORDER_REPLAY_FAILED", payload.Error, nil)
	}

	var dto dtos.OrderDTO
	if err := json.Unmarshal(record.ResponseBody(), &dto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal replayed order response: %w", err)
	}
	return &dto, nil
}
