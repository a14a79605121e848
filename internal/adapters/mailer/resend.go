package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultResendBaseURL = "https://api.resend.com"

// ResendClient sends email through the Resend HTTP API
type ResendClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewResendClient creates a Resend-backed sender
func NewResendClient(apiKey string, logger *logrus.Logger) *ResendClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &ResendClient{
		apiKey:  apiKey,
		baseURL: defaultResendBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewResendClientWithBaseURL creates a sender against a custom endpoint,
// used by tests to point at a local server.
func NewResendClientWithBaseURL(apiKey, baseURL string, logger *logrus.Logger) *ResendClient {
	c := NewResendClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// resendError is the error body Resend returns on failure
type resendError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Send delivers one email. The to field is a single recipient, matching the
// waitlist notification use case.
func (c *ResendClient) Send(ctx context.Context, msg *Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("email API key not configured")
	}

	payload := struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr resendError
		detail := string(raw)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			detail = apiErr.Message
		}
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"detail":      detail,
		}).Error("Email API error")
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, detail)
	}

	c.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Notification email sent")

	return nil
}
