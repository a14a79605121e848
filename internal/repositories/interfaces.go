package repositories

import (
	"context"

	"muhasib-api/internal/models"
)

// WaitlistRepository defines data access for waitlist signups.
//
// The backing table is provisioned lazily: EnsureSchema must succeed before
// the other operations are meaningful, and is safe to call on every request.
type WaitlistRepository interface {
	// EnsureSchema creates the waitlist table if it is absent and
	// idempotently adds the email column to pre-email schemas.
	EnsureSchema(ctx context.Context) error

	// ExistsByPhoneOrEmail reports whether any row matches the phone or the
	// email of a submission.
	ExistsByPhoneOrEmail(ctx context.Context, phone, email string) (bool, error)

	// Create inserts a new signup and fills in its generated ID
	Create(ctx context.Context, entry *models.WaitlistEntry) error

	// List returns the most recent signups, newest first
	List(ctx context.Context, limit int) ([]*models.WaitlistEntry, error)

	// Count returns the total number of signups
	Count(ctx context.Context) (int64, error)
}
