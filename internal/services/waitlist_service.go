package services

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"muhasib-api/internal/adapters/mailer"
	"muhasib-api/internal/models"
	"muhasib-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// notificationSubject is the subject line for signup notification emails
const notificationSubject = "New Waitlist Signup - Muhasib"

// notificationTemplate renders the HTML summary of a new signup
const notificationTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #10b981;">New Waitlist Signup!</h2>
  <div style="background: #f1f5f9; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Business Type:</strong> {{.Business}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
  </div>
</div>
`

// waitlistService implements the WaitlistService interface
type waitlistService struct {
	repo      repositories.WaitlistRepository
	sender    mailer.Sender
	validator *validator.Validate
	config    *ServiceConfig
	template  *template.Template
	location  *time.Location
	logger    *logrus.Logger
}

// NewWaitlistService creates a new waitlist service
func NewWaitlistService(
	repo repositories.WaitlistRepository,
	sender mailer.Sender,
	cfg *ServiceConfig,
	logger *logrus.Logger,
) (WaitlistService, error) {
	tmpl, err := template.New("waitlist_notification").Parse(notificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification template: %w", err)
	}

	// Signup timestamps in the notification are rendered in Riyadh time
	location, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		location = time.FixedZone("AST", 3*60*60)
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &waitlistService{
		repo:      repo,
		sender:    sender,
		validator: validator.New(),
		config:    cfg,
		template:  tmpl,
		location:  location,
		logger:    logger,
	}, nil
}

// Join validates and persists a signup, then best-effort notifies by email
func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return repositories.ValidationError("waitlist", err)
	}

	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure waitlist schema: %w", err)
	}

	entry := models.NewWaitlistEntry(req.Phone, req.Email, req.Business)

	// Bypass numbers skip the duplicate check so testers can submit freely.
	// The check-then-insert pair is not atomic; concurrent duplicate
	// submissions can both pass. Accepted at current traffic volumes.
	if !s.isBypassNumber(entry.Phone) {
		exists, err := s.repo.ExistsByPhoneOrEmail(ctx, entry.Phone, entry.Email)
		if err != nil {
			return fmt.Errorf("failed to check for existing signup: %w", err)
		}
		if exists {
			return ErrAlreadyRegistered
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":       entry.ID,
		"business": entry.Business,
	}).Info("Waitlist signup recorded")

	// Notification delivery must not fail the signup; log and move on.
	if s.config.EmailEnabled {
		if err := s.notify(ctx, entry); err != nil {
			s.logger.WithError(err).Warn("Failed to send waitlist notification email")
		}
	}

	return nil
}

// List returns recent signups, newest first
func (s *waitlistService) List(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure waitlist schema: %w", err)
	}

	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}

	return entries, nil
}

// Count returns the total number of signups
func (s *waitlistService) Count(ctx context.Context) (int64, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure waitlist schema: %w", err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	return count, nil
}

// isBypassNumber reports whether the phone is exempt from the duplicate check
func (s *waitlistService) isBypassNumber(phone string) bool {
	for _, number := range s.config.BypassNumbers {
		if phone == number {
			return true
		}
	}
	return false
}

// notify renders and sends the signup notification email
func (s *waitlistService) notify(ctx context.Context, entry *models.WaitlistEntry) error {
	data := map[string]string{
		"Phone":    entry.Phone,
		"Email":    entry.Email,
		"Business": entry.Business,
		"Time":     time.Now().In(s.location).Format("02/01/2006, 15:04:05"),
	}

	var body strings.Builder
	if err := s.template.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render notification template: %w", err)
	}

	msg := &mailer.Message{
		From:    s.config.NotificationFrom,
		To:      s.config.NotificationTo,
		Subject: notificationSubject,
		HTML:    body.String(),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	return nil
}
