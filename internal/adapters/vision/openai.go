package vision

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

// UpstreamError carries the detail reported by the vision API on a
// non-success response, so handlers can surface it to the caller.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("vision API returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("vision API returned status %d", e.StatusCode)
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint with the
// invoice image attached as a high-detail visual input.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewOpenAIClient creates a vision client against the chat completions API
func NewOpenAIClient(apiKey, model, baseURL string, logger *logrus.Logger) *OpenAIClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// chatRequest is the subset of the chat completions request body we send
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

// chatResponse is the subset of the chat completions response body we read
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractInvoice sends one extraction request and returns the model's raw
// textual completion.
func (c *OpenAIClient) ExtractInvoice(ctx context.Context, imgURL string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("vision API key not configured")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: extractionPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: imgURL, Detail: "high"}},
			}},
		},
		MaxTokens:   1000,
		Temperature: 0.1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build vision request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read vision response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":       c.model,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Vision API call completed")

	var parsed chatResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := ""
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil {
			detail = parsed.Error.Message
		}
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"detail":      detail,
		}).Error("Vision API error")
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode vision response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from AI")
	}

	return parsed.Choices[0].Message.Content, nil
}
