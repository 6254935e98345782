// Package app provides the dependency injection container that assembles the
// application from configuration. Components are built lazily on first access.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/vaultkeeper/internal/config"
	"github.com/allisson/vaultkeeper/internal/database"
	"github.com/allisson/vaultkeeper/internal/http"
	"github.com/allisson/vaultkeeper/internal/metrics"
)

const driverMongoDB = "mongodb"

// lazy memoizes a component and the error of building it.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = build()
	})
	return l.val, l.err
}

// Container holds all application dependencies.
type Container struct {
	config *config.Config

	loggerInit sync.Once
	logger     *slog.Logger
	logWriter  io.Closer

	db          lazy[*sql.DB]
	mongo       lazy[*mongoStore]
	txManager   lazy[database.TxManager]
	metricsProv lazy[*metrics.Provider]
	bizMetrics  lazy[metrics.BusinessMetrics]

	cryptoComponents
	userComponents
	signingKeyComponents
	authComponents
	secretComponents

	httpServer    lazy[*http.Server]
	metricsServer lazy[*http.MetricsServer]

	mu sync.Mutex
}

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// PingContext lets the readiness probe treat MongoDB like a SQL pool.
func (m *mongoStore) PingContext(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// NewContainer creates a new dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger. When LOG_FILE_PATH is set, records also go
// to a rotating file; if that file cannot be opened the logger falls back to
// stdout only and says so.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// IsMongoDB reports whether the configured store is MongoDB.
func (c *Container) IsMongoDB() bool {
	return c.config.DBDriver == driverMongoDB
}

// DB returns the SQL connection pool. It fails for the mongodb driver.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(func() (*sql.DB, error) {
		if c.IsMongoDB() {
			return nil, errors.New("sql database requested with mongodb driver")
		}
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	})
}

// MongoDatabase returns the MongoDB database handle.
func (c *Container) MongoDatabase() (*mongo.Database, error) {
	store, err := c.mongoStore()
	if err != nil {
		return nil, err
	}
	return store.db, nil
}

func (c *Container) mongoStore() (*mongoStore, error) {
	return c.mongo.get(func() (*mongoStore, error) {
		client, db, err := database.ConnectMongo(context.Background(), database.MongoConfig{
			URI:      c.config.MongoURI,
			Database: c.config.MongoDatabase,
			Timeout:  c.config.MongoTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &mongoStore{client: client, db: db}, nil
	})
}

// TxManager returns the transaction manager. MongoDB repositories only issue
// single-document writes, so that driver gets the no-op manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(func() (database.TxManager, error) {
		if c.IsMongoDB() {
			return database.NewNoopTxManager(), nil
		}
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		return database.NewTxManager(db), nil
	})
}

// EnsureIndexes creates the MongoDB unique indexes the repositories rely on.
// It is a no-op for SQL drivers, whose constraints come from migrations.
func (c *Container) EnsureIndexes(ctx context.Context) error {
	if !c.IsMongoDB() {
		return nil
	}
	db, err := c.MongoDatabase()
	if err != nil {
		return err
	}
	return ensureMongoIndexes(ctx, db)
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProv.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns the business metrics recorder, a no-op one when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.bizMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	})
}

// Shutdown releases every initialized resource and returns the joined errors.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if server := c.httpServer.val; server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if server := c.metricsServer.val; server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if provider := c.metricsProv.val; provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if c.secretCipher.val != nil {
		c.secretCipher.val.Close()
	}
	if db := c.db.val; db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if store := c.mongo.val; store != nil {
		if err := store.client.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}
	if c.logWriter != nil {
		if err := c.logWriter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("log file close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.config.LogLevel)}

	if c.config.LogFilePath == "" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	writer, err := newRotatingWriter(c.config)
	if err != nil {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
		logger.Warn("log file disabled", slog.String("path", c.config.LogFilePath), slog.Any("error", err))
		return logger
	}
	c.logWriter = writer

	return slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, writer), opts))
}

func newRotatingWriter(cfg *config.Config) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o750); err != nil {
		return nil, err
	}
	return rotatelogs.New(
		cfg.LogFilePath+".%Y%m%d%H",
		rotatelogs.WithLinkName(cfg.LogFilePath),
		rotatelogs.WithRotationTime(cfg.LogRotationTime),
		rotatelogs.WithMaxAge(cfg.LogMaxAge),
	)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
