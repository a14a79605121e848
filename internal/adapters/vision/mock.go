package vision

import (
	"context"
)

// MockClient is a Client implementation for tests
type MockClient struct {
	Response string
	Err      error

	// Calls records the image URLs passed to ExtractInvoice
	Calls []string
}

// ExtractInvoice returns the configured response or error
func (m *MockClient) ExtractInvoice(ctx context.Context, imageURL string) (string, error) {
	m.Calls = append(m.Calls, imageURL)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
