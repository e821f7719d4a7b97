package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/station-report/internal/application/port"
	"github.com/garyjia/station-report/internal/application/service"
	"github.com/garyjia/station-report/internal/config"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/infrastructure/external/clipboard"
	"github.com/garyjia/station-report/internal/infrastructure/external/lark"
	"github.com/garyjia/station-report/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/station-report/internal/observability"
	"github.com/garyjia/station-report/migrations"
	"github.com/garyjia/station-report/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	database *database.DB
	db       *sqlite.DB
	store    port.PersistenceStore
	sink     port.ClipboardSink

	// Application
	metrics  *observability.Metrics
	resolver *service.StationResolver
	exporter *service.ClipboardExporter
	reports  *service.ReportService

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database and preference store
// 2. Clipboard sink
// 3. Application services, restoring the last station
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized", zap.String("path", c.config.Database.Path))

	if err := c.initSink(); err != nil {
		return fmt.Errorf("failed to initialize clipboard sink: %w", err)
	}
	c.logger.Info("Clipboard sink initialized", zap.String("sink", c.config.Clipboard.Sink))

	if err := c.initServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close releases the database. Services need no cleanup.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	c.closed.Store(true)
	c.ready.Store(false)

	if c.database != nil {
		if err := c.database.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			return fmt.Errorf("close database: %w", err)
		}
		c.logger.Info("Database closed")
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.database != nil && !c.closed.Load() {
		if err := c.database.PingContext(ctx); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	switch sink := c.sink.(type) {
	case nil:
		status.Components["clipboard"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	case *clipboard.SystemSink:
		// A headless host still serves previews, so this does not fail Overall
		if sink.Available() {
			status.Components["clipboard"] = ComponentHealth{Healthy: true, Message: config.SinkSystem}
		} else {
			status.Components["clipboard"] = ComponentHealth{Healthy: false, Message: "system clipboard unsupported"}
		}
	default:
		status.Components["clipboard"] = ComponentHealth{Healthy: true, Message: c.config.Clipboard.Sink}
	}

	return status
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := database.New(database.Config{
		Path:            c.config.Database.Path,
		MaxOpenConns:    c.config.Database.MaxOpenConns,
		MaxIdleConns:    c.config.Database.MaxIdleConns,
		ConnMaxLifetime: c.config.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return err
	}

	if err := database.NewMigrator(db, c.logger).Run(migrations.FS); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.database = db
	c.db = sqlite.NewDB(db.DB, c.logger)
	c.store = sqlite.NewPreferenceStore(c.db, c.logger)
	return nil
}

func (c *Container) initSink() error {
	switch c.config.Clipboard.Sink {
	case config.SinkSystem:
		c.sink = clipboard.NewSystemSink(c.logger)
	case config.SinkMemory:
		c.sink = clipboard.NewMemorySink()
	case config.SinkLark:
		client := lark.NewSDKClient(lark.Config{
			AppID:     c.config.Lark.AppID,
			AppSecret: c.config.Lark.AppSecret,
		}, c.logger)
		c.sink = lark.NewChatSink(
			lark.NewMessageAPI(client, c.logger),
			c.config.Lark.ReceiveIDType,
			c.config.Lark.ReceiveID,
			c.logger,
		)
	default:
		return fmt.Errorf("unknown clipboard sink: %s", c.config.Clipboard.Sink)
	}
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	loc, err := c.config.Location()
	if err != nil {
		return err
	}

	svcLogger := &zapLoggerAdapter{logger: c.logger}

	c.resolver = service.NewStationResolver(c.store, c.config.Station.Options, svcLogger)
	if _, err := c.resolver.Load(ctx); err != nil {
		return fmt.Errorf("failed to restore station: %w", err)
	}

	c.metrics = observability.NewMetrics()
	c.exporter = service.NewClipboardExporter(c.sink, svcLogger)
	c.reports = service.NewReportService(
		c.resolver,
		c.exporter,
		report.NewDateTimeFormatter(loc),
		c.metrics,
		svcLogger,
	)
	return nil
}

// Getters for accessing container components

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Store returns the preference store.
func (c *Container) Store() port.PersistenceStore {
	return c.store
}

// Sink returns the configured clipboard sink.
func (c *Container) Sink() port.ClipboardSink {
	return c.sink
}

// Resolver returns the station resolver.
func (c *Container) Resolver() *service.StationResolver {
	return c.resolver
}

// Exporter returns the clipboard exporter.
func (c *Container) Exporter() *service.ClipboardExporter {
	return c.exporter
}

// Reports returns the report service.
func (c *Container) Reports() *service.ReportService {
	return c.reports
}

// Metrics returns the report metrics.
func (c *Container) Metrics() *observability.Metrics {
	return c.metrics
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// ServiceLogger returns the logger in the form application services take.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
