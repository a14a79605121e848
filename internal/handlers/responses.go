package handlers

import (
	"muhasib-api/internal/models"
)

// ErrorResponse is the generic error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// OCRResponse wraps a successfully extracted invoice
type OCRResponse struct {
	Success bool                  `json:"success"`
	Data    *models.InvoiceRecord `json:"data"`
}

// DemoResponse carries synthetic fallback data when no vision credential is
// configured. The error field flags the incomplete configuration while demo
// marks the payload as synthetic.
type DemoResponse struct {
	Error string                `json:"error"`
	Demo  bool                  `json:"demo"`
	Data  *models.InvoiceRecord `json:"data"`
}

// ParseFailureResponse reports an unparseable model reply; raw carries the
// unparsed text for diagnostics.
type ParseFailureResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// WaitlistResponse acknowledges a successful signup
type WaitlistResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WaitlistListResponse wraps the admin listing. Count is the number of
// entries returned; Total is the full signup count regardless of the limit.
type WaitlistListResponse struct {
	Success bool                    `json:"success"`
	Count   int                     `json:"count"`
	Total   int64                   `json:"total"`
	Data    []*models.WaitlistEntry `json:"data"`
}

// Canonical client-facing messages
const (
	msgMethodNotAllowed   = "Method not allowed"
	msgNoImage            = "No image provided"
	msgKeyNotConfigured   = "OpenAI API key not configured"
	msgProcessingFailed   = "Failed to process image"
	msgParseFailed        = "Failed to parse AI response"
	msgFieldsRequired     = "Phone, email and business type are required"
	msgAlreadyRegistered  = "This phone or email is already on the waitlist"
	msgJoinedWaitlist     = "Successfully joined the waitlist!"
	msgServerError        = "Something went wrong. Please try again."
	codeAlreadyRegistered = "already_registered"
	codeServerError       = "server_error"
)
