package mailer

import (
	"context"
)

// MockSender is a Sender implementation for tests
type MockSender struct {
	Err error

	// Sent records every message passed to Send
	Sent []*Message
}

// Send records the message and returns the configured error
func (m *MockSender) Send(ctx context.Context, msg *Message) error {
	m.Sent = append(m.Sent, msg)
	return m.Err
}
