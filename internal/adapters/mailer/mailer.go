package mailer

import (
	"context"
)

// Message is a single outbound email
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers notification emails through a transactional email API
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
