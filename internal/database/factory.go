package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"muhasib-api/internal/config"
	"muhasib-api/internal/repositories"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Connection bundles an open database handle with the driver it was opened
// with, so callers can pick the matching SQL dialect.
type Connection struct {
	DB     *sql.DB
	Driver string
}

// ConnectionFactory creates database connections from a connection string.
// Postgres-style URLs (Neon and friends) get the pgx driver; anything else
// is treated as a SQLite file path.
type ConnectionFactory struct {
	logger *logrus.Logger
}

// NewConnectionFactory creates a new connection factory
func NewConnectionFactory(logger *logrus.Logger) *ConnectionFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionFactory{
		logger: logger,
	}
}

// CreateConnection opens and verifies a database connection
func (f *ConnectionFactory) CreateConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("database connection string is empty")
	}

	if isPostgresURL(cfg.ConnectionString) {
		return f.createPostgresConnection(ctx, cfg)
	}
	return f.createSQLiteConnection(ctx, cfg)
}

// isPostgresURL reports whether the connection string targets postgres
func isPostgresURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") ||
		strings.HasPrefix(connStr, "postgresql://") ||
		strings.Contains(connStr, "host=")
}

// createPostgresConnection opens a pgx-backed connection
func (f *ConnectionFactory) createPostgresConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	f.logger.WithField("driver", "pgx").Info("Creating postgres connection")

	db, err := sql.Open("pgx", cfg.ConnectionString)
	if err != nil {
		return nil, repositories.ConnectionError(fmt.Errorf("failed to open postgres database: %w", err))
	}

	f.configureConnectionPool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, repositories.ConnectionError(fmt.Errorf("failed to ping postgres database: %w", err))
	}

	f.logger.Info("Postgres connection established")
	return &Connection{DB: db, Driver: "pgx"}, nil
}

// createSQLiteConnection opens a SQLite file connection
func (f *ConnectionFactory) createSQLiteConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Connection, error) {
	absPath, err := filepath.Abs(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, repositories.ConnectionError(fmt.Errorf("failed to create database directory: %w", err))
	}

	dsn := absPath + "?_busy_timeout=5000&_journal_mode=WAL"

	f.logger.WithFields(logrus.Fields{
		"driver": "sqlite3",
		"path":   absPath,
	}).Info("Creating SQLite connection")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, repositories.ConnectionError(fmt.Errorf("failed to open SQLite database: %w", err))
	}

	// SQLite works best with a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, repositories.ConnectionError(fmt.Errorf("failed to ping SQLite database: %w", err))
	}

	f.logger.WithField("path", absPath).Info("SQLite connection established")
	return &Connection{DB: db, Driver: "sqlite3"}, nil
}

// configureConnectionPool configures the database connection pool
func (f *ConnectionFactory) configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	f.logger.WithFields(logrus.Fields{
		"max_open_conns": cfg.MaxOpenConns,
		"max_idle_conns": cfg.MaxIdleConns,
	}).Debug("Configured connection pool")
}

// HealthChecker provides health checking capabilities for database connections
type HealthChecker struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sql.DB, logger *logrus.Logger) *HealthChecker {
	if logger == nil {
		logger = logrus.New()
	}
	return &HealthChecker{
		db:     db,
		logger: logger,
	}
}

// CheckHealth performs a basic connectivity check
func (h *HealthChecker) CheckHealth(ctx context.Context) error {
	start := time.Now()
	defer func() {
		h.logger.WithField("duration", time.Since(start)).Debug("Health check completed")
	}()

	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	return nil
}
