package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"muhasib-api/internal/adapters/mailer"
	"muhasib-api/internal/adapters/vision"
	"muhasib-api/internal/config"
	"muhasib-api/internal/database"
	"muhasib-api/internal/repositories/sqldb"
	"muhasib-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *logrus.Logger
	OCRService      services.OCRService
	WaitlistService services.WaitlistService

	db *sql.DB
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	factory := database.NewConnectionFactory(logger)
	conn, err := factory.CreateConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	dialect, err := sqldb.DialectForDriver(conn.Driver)
	if err != nil {
		conn.DB.Close()
		return nil, err
	}

	waitlistRepo := sqldb.NewWaitlistRepository(conn.DB, dialect, logger)
	visionClient := vision.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, logger)
	sender := mailer.NewResendClient(cfg.Resend.APIKey, logger)

	serviceConfig := &services.ServiceConfig{
		NotificationFrom: cfg.Resend.From,
		NotificationTo:   cfg.Resend.NotificationEmail,
		EmailEnabled:     cfg.Resend.APIKey != "",
		BypassNumbers:    cfg.Waitlist.BypassNumbers,
	}

	serviceContainer, err := services.NewServiceContainer(
		visionClient,
		cfg.OpenAI.APIKey != "",
		sender,
		waitlistRepo,
		serviceConfig,
		logger,
	)
	if err != nil {
		conn.DB.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		OCRService:      serviceContainer.OCRService,
		WaitlistService: serviceContainer.WaitlistService,
		db:              conn.DB,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}

// HealthCheck verifies the database connection is alive
func (c *Container) HealthCheck(ctx context.Context) error {
	return database.NewHealthChecker(c.db, c.Logger).CheckHealth(ctx)
}

// newLogger builds the shared application logger
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Environment == "production" || config.IsServerlessMode() {
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}
