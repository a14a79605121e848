package services

import (
	"context"
	"fmt"

	"muhasib-api/internal/adapters/mailer"
	"muhasib-api/internal/adapters/vision"
	"muhasib-api/internal/models"
	"muhasib-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// OCRService extracts structured invoice data from uploaded images
type OCRService interface {
	// Configured reports whether a live vision credential is present.
	// Without one the endpoint serves demo data instead.
	Configured() bool

	// ExtractInvoice runs the live extraction pipeline
	ExtractInvoice(ctx context.Context, req *ExtractInvoiceRequest) (*models.InvoiceRecord, error)

	// DemoInvoice produces a synthetic record derived from the filename
	DemoInvoice(filename string) *models.InvoiceRecord
}

// ExtractInvoiceRequest carries one OCR submission
type ExtractInvoiceRequest struct {
	// Image is raw base64 or a complete data URI
	Image    string `json:"image" validate:"required"`
	Filename string `json:"filename"`
}

// ParseError is returned when the model's reply is not valid JSON for the
// invoice schema. Raw carries the unparsed text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WaitlistService handles waitlist signups
type WaitlistService interface {
	// Join validates and persists a signup, then best-effort notifies by email
	Join(ctx context.Context, req *JoinWaitlistRequest) error

	// List returns recent signups, newest first
	List(ctx context.Context, limit int) ([]*models.WaitlistEntry, error)

	// Count returns the total number of signups, independent of any listing
	// limit.
	Count(ctx context.Context) (int64, error)
}

// JoinWaitlistRequest carries one signup submission
type JoinWaitlistRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Business string `json:"business" validate:"required"`
}

// ErrAlreadyRegistered signals that the phone or email is already on the
// waitlist. It wraps the repository duplicate sentinel, so callers can match
// either this value or repositories.IsDuplicate; the handler maps it to the
// "already_registered" error code.
var ErrAlreadyRegistered = fmt.Errorf("already registered: %w", repositories.ErrDuplicateEntry)

// ServiceConfig holds configuration shared by the services
type ServiceConfig struct {
	// NotificationFrom is the sender identity for waitlist emails
	NotificationFrom string
	// NotificationTo is the recipient for waitlist emails
	NotificationTo string
	// EmailEnabled gates the notification step; false when no email
	// credential is configured.
	EmailEnabled bool
	// BypassNumbers are phone numbers exempted from the duplicate check
	BypassNumbers []string
}

// ServiceContainer wires up all services
type ServiceContainer struct {
	OCRService      OCRService
	WaitlistService WaitlistService
}

// NewServiceContainer creates the services from their dependencies
func NewServiceContainer(
	visionClient vision.Client,
	visionConfigured bool,
	sender mailer.Sender,
	waitlistRepo repositories.WaitlistRepository,
	cfg *ServiceConfig,
	logger *logrus.Logger,
) (*ServiceContainer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("service config cannot be nil")
	}
	if logger == nil {
		logger = logrus.New()
	}

	waitlistService, err := NewWaitlistService(waitlistRepo, sender, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create waitlist service: %w", err)
	}

	return &ServiceContainer{
		OCRService:      NewOCRService(visionClient, visionConfigured, logger),
		WaitlistService: waitlistService,
	}, nil
}
