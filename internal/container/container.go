// Package container - Dependency Injection container for the application.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (lazy initialization)
// - Доступ (getters)
// - Закрытие (cleanup)
//
// Pattern: Composition Root
// - Все зависимости собираются в одном месте
// - Легко тестировать
// - Легко заменять реализации
package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	orderforgehttp "github.com/orderforge/orderforge/internal/adapters/http"
	"github.com/orderforge/orderforge/internal/application/ports"
	"github.com/orderforge/orderforge/internal/application/usecases/order"
	"github.com/orderforge/orderforge/internal/config"
	"github.com/orderforge/orderforge/internal/infrastructure/events"
	"github.com/orderforge/orderforge/internal/infrastructure/geocode"
	"github.com/orderforge/orderforge/internal/infrastructure/payment"
	"github.com/orderforge/orderforge/internal/infrastructure/persistence/postgres"
	"github.com/orderforge/orderforge/internal/infrastructure/tracing"
)

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool          *pgxpool.Pool
	redisClient   *redis.Client
	natsConn      *nats.Conn
	tracerCleanup tracing.Shutdown

	// Repositories
	productRepo     ports.ProductRepository
	warehouseRepo   ports.WarehouseRepository
	inventoryRepo   ports.InventoryRepository
	orderRepo       ports.OrderRepository
	idempotencyRepo ports.IdempotencyRepository
	outboxRepo      *postgres.OutboxRepository

	// Collaborators
	geocoder       ports.Geocoder
	paymentGateway ports.PaymentGateway

	// Unit of Work
	uowFactory ports.UnitOfWorkFactory

	// Event Publisher + Drain
	eventPublisher ports.EventPublisher
	eventDrain     *events.Drain

	// Use Cases
	createOrderUC         *order.CreateOrderUseCase
	getOrderUC            *order.GetOrderUseCase
	getByIdempotencyKeyUC *order.GetByIdempotencyKeyUseCase
	previewSelectionUC    *order.PreviewSelectionUseCase

	// HTTP
	httpServer *orderforgehttp.Server
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = c.initLogger()
	c.logger.Info("Initializing application container...")

	// 1. Database
	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database connected")

	// 2. Tracing
	if err := c.initTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// 3. Collaborators (geocoder, payment gateway, events)
	c.initCollaborators()
	c.logger.Info("Collaborators initialized")

	// 4. Repositories
	c.initRepositories()
	c.logger.Info("Repositories initialized")

	// 5. Use Cases
	c.initUseCases()
	c.logger.Info("Use cases initialized")

	// 6. HTTP Server
	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.logger.Info("Container initialization complete")
	return nil
}

// initLogger инициализирует логгер.
func (c *Container) initLogger() *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch c.config.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: c.config.App.Debug,
	}

	if c.config.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// initDatabase инициализирует подключение к БД.
func (c *Container) initDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(c.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.config.Database.MaxConnections
	poolConfig.MinConns = c.config.Database.MinConnections
	poolConfig.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.pool = pool
	return nil
}

// initTracing устанавливает OpenTelemetry tracer provider, если включено в
// конфигурации. При ошибке экспортёра приложение продолжает работу без
// трейсинга, а не падает целиком - observability не должна быть hard
// dependency для размещения заказов.
func (c *Container) initTracing(ctx context.Context) error {
	if !c.config.Tracing.Enabled {
		return nil
	}

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:  c.config.App.Name,
		Environment:  c.config.App.Environment,
		CollectorURL: c.config.Tracing.CollectorURL,
		SampleRatio:  c.config.Tracing.SampleRatio,
		Insecure:     c.config.Tracing.Insecure,
	})
	if err != nil {
		c.logger.Warn("tracing disabled: failed to initialize exporter", "error", err)
		return nil
	}

	c.tracerCleanup = shutdown
	return nil
}

// initCollaborators инициализирует геокодер, платёжный шлюз и outbox drain.
func (c *Container) initCollaborators() {
	httpGeocoder := geocode.NewHTTPGeocoder(c.config.Geocoder.BaseURL, &http.Client{
		Timeout: c.config.Geocoder.HTTPTimeout,
	})

	if c.config.Geocoder.CacheEnabled {
		c.redisClient = redis.NewClient(&redis.Options{
			Addr: c.config.Geocoder.RedisAddr,
			DB:   c.config.Geocoder.RedisDB,
		})
		cache := geocode.NewRedisCache(c.redisClient)
		c.geocoder = geocode.NewCachedGeocoder(httpGeocoder, cache, c.config.Geocoder.CacheTTL)
	} else {
		c.geocoder = httpGeocoder
	}

	c.paymentGateway = payment.NewSimulator(c.logger)

	if c.config.Events.DrainEnabled {
		conn, err := nats.Connect(c.config.Events.NATSURL)
		if err != nil {
			c.logger.Warn("event drain disabled: failed to connect to NATS", "error", err)
		} else {
			c.natsConn = conn
		}
	}
}

// initRepositories инициализирует репозитории.
func (c *Container) initRepositories() {
	c.productRepo = postgres.NewProductRepository(c.pool)
	c.warehouseRepo = postgres.NewWarehouseRepository(c.pool)
	c.inventoryRepo = postgres.NewInventoryRepository(c.pool)
	c.orderRepo = postgres.NewOrderRepository(c.pool)
	c.idempotencyRepo = postgres.NewIdempotencyRepository(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)

	// Unit of Work factory - CreateOrderUseCase asks it for a SERIALIZABLE
	// transaction for the commit step.
	c.uowFactory = postgres.NewUnitOfWorkFactory(c.pool)

	// Event Publisher (OutboxRepository реализует интерфейс)
	c.eventPublisher = c.outboxRepo

	if c.natsConn != nil {
		c.eventDrain = events.NewDrain(
			c.outboxRepo,
			c.natsConn,
			c.config.Events.DrainPoll,
			c.config.Events.DrainBatch,
			c.logger,
		)
	}
}

// initUseCases инициализирует use cases.
func (c *Container) initUseCases() {
	c.createOrderUC = order.NewCreateOrderUseCase(
		c.productRepo,
		c.warehouseRepo,
		c.inventoryRepo,
		c.orderRepo,
		c.idempotencyRepo,
		c.geocoder,
		c.paymentGateway,
		c.eventPublisher,
		c.uowFactory,
		c.logger,
	)
	c.getOrderUC = order.NewGetOrderUseCase(c.orderRepo, c.warehouseRepo)
	c.getByIdempotencyKeyUC = order.NewGetByIdempotencyKeyUseCase(c.idempotencyRepo)
	c.previewSelectionUC = order.NewPreviewSelectionUseCase(c.warehouseRepo, c.inventoryRepo, c.geocoder)
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() {
	// Router Config
	routerConfig := &orderforgehttp.RouterConfig{
		Logger:         c.logger,
		Pool:           c.pool,
		Version:        c.config.App.Version,
		BuildTime:      c.config.App.BuildTime,
		Environment:    c.config.App.Environment,
		AllowedOrigins: c.config.CORS.AllowedOrigins,
		ServiceName:    c.config.App.Name,
	}

	// Build Router
	router := orderforgehttp.NewRouterBuilder(routerConfig).
		WithOrderUseCases(&orderforgehttp.OrderUseCases{
			CreateOrder:         c.createOrderUC,
			GetOrder:            c.getOrderUC,
			GetByIdempotencyKey: c.getByIdempotencyKeyUC,
		}).
		WithWarehouseUseCases(&orderforgehttp.WarehouseUseCases{
			PreviewSelection: c.previewSelectionUC,
		}).
		Build()

	// Server Config
	serverConfig := &orderforgehttp.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = orderforgehttp.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool возвращает пул соединений к БД.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *orderforgehttp.Server {
	return c.httpServer
}

// ============================================
// Repository Getters
// ============================================

// ProductRepository возвращает репозиторий продуктов.
func (c *Container) ProductRepository() ports.ProductRepository {
	return c.productRepo
}

// WarehouseRepository возвращает репозиторий складов.
func (c *Container) WarehouseRepository() ports.WarehouseRepository {
	return c.warehouseRepo
}

// OrderRepository возвращает репозиторий заказов.
func (c *Container) OrderRepository() ports.OrderRepository {
	return c.orderRepo
}

// UnitOfWorkFactory возвращает фабрику Unit of Work.
func (c *Container) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return c.uowFactory
}

// ============================================
// Use Case Getters
// ============================================

// CreateOrderUseCase возвращает use case размещения заказа.
func (c *Container) CreateOrderUseCase() *order.CreateOrderUseCase {
	return c.createOrderUC
}

// GetOrderUseCase возвращает use case чтения заказа.
func (c *Container) GetOrderUseCase() *order.GetOrderUseCase {
	return c.getOrderUC
}

// PreviewSelectionUseCase возвращает use case предпросмотра выбора склада.
func (c *Container) PreviewSelectionUseCase() *order.PreviewSelectionUseCase {
	return c.previewSelectionUC
}

// ============================================
// Background Workers
// ============================================

// StartEventDrain запускает outbox drain в отдельной горутине, если он
// сконфигурирован. Возвращает no-op, если NATS недоступен - размещение
// заказов не должно зависеть от доступности брокера.
func (c *Container) StartEventDrain(ctx context.Context) {
	if c.eventDrain == nil {
		return
	}
	go c.eventDrain.Run(ctx)
	c.logger.Info("Outbox event drain started")
}

// ============================================
// Shutdown
// ============================================

// Shutdown выполняет graceful shutdown всех компонентов.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	var errs []error

	// 1. HTTP Server
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	// 2. Tracing
	if c.tracerCleanup != nil {
		if err := c.tracerCleanup(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	// 3. NATS
	if c.natsConn != nil {
		c.natsConn.Close()
	}

	// 4. Redis
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	// 5. Database (даём время на завершение транзакций)
	if c.pool != nil {
		// Graceful close с таймаутом
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("Database connection closed")
		case <-ctx.Done():
			c.logger.Warn("Database close timeout")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// ============================================
// Run
// ============================================

// Run запускает приложение и ожидает сигнал завершения.
func (c *Container) Run() error {
	c.logger.Info("Starting OrderForge API Server",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder - builder для создания контейнера с кастомными компонентами.
type ContainerBuilder struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	eventPublisher ports.EventPublisher
}

// NewBuilder создаёт новый builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger устанавливает кастомный логгер.
func (b *ContainerBuilder) WithLogger(logger *slog.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithPool устанавливает готовый пул соединений.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.pool = pool
	return b
}

// WithEventPublisher устанавливает кастомный event publisher.
func (b *ContainerBuilder) WithEventPublisher(ep ports.EventPublisher) *ContainerBuilder {
	b.eventPublisher = ep
	return b
}

// Build создаёт контейнер.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)

	// Use provided or initialize
	if b.logger != nil {
		c.logger = b.logger
	} else {
		c.logger = c.initLogger()
	}

	if b.pool != nil {
		c.pool = b.pool
	} else {
		if err := c.initDatabase(ctx); err != nil {
			return nil, err
		}
	}

	c.initCollaborators()
	c.initRepositories()

	if b.eventPublisher != nil {
		c.eventPublisher = b.eventPublisher
	}

	c.initUseCases()
	c.initHTTPServer()

	return c, nil
}

// ============================================
// Health Check
// ============================================

// HealthStatus - статус здоровья приложения.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  time.Duration     `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health возвращает статус здоровья приложения.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  "healthy",
		Version: c.config.App.Version,
		Checks:  make(map[string]string),
	}

	// Database check
	if err := c.pool.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "error: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	return status
}
