package models

import (
	"fmt"
	"strings"
	"time"
)

// WaitlistEntry represents a signup row in the waitlist table
type WaitlistEntry struct {
	ID        int64     `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone" validate:"required"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Business  string    `json:"business" db:"business" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewWaitlistEntry creates an entry from submitted fields; ID and CreatedAt
// are assigned by the database on insert.
func NewWaitlistEntry(phone, email, business string) *WaitlistEntry {
	return &WaitlistEntry{
		Phone:    strings.TrimSpace(phone),
		Email:    strings.TrimSpace(email),
		Business: strings.TrimSpace(business),
	}
}

// Validate validates the entry data
func (e *WaitlistEntry) Validate() error {
	if strings.TrimSpace(e.Phone) == "" {
		return fmt.Errorf("phone is required")
	}
	if strings.TrimSpace(e.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(e.Email, "@") {
		return fmt.Errorf("invalid email format: %s", e.Email)
	}
	if strings.TrimSpace(e.Business) == "" {
		return fmt.Errorf("business is required")
	}
	return nil
}
