package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"muhasib-api/internal/adapters/vision"
	"muhasib-api/internal/models"

	"github.com/sirupsen/logrus"
)

// ocrService implements the OCRService interface
type ocrService struct {
	visionClient vision.Client
	configured   bool
	logger       *logrus.Logger
}

// NewOCRService creates a new OCR service. configured reports whether a live
// vision credential is available; when false, callers should use DemoInvoice.
func NewOCRService(visionClient vision.Client, configured bool, logger *logrus.Logger) OCRService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ocrService{
		visionClient: visionClient,
		configured:   configured,
		logger:       logger,
	}
}

// Configured reports whether live extraction is available
func (s *ocrService) Configured() bool {
	return s.configured
}

// ExtractInvoice forwards the image to the vision model and parses the reply
func (s *ocrService) ExtractInvoice(ctx context.Context, req *ExtractInvoiceRequest) (*models.InvoiceRecord, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, fmt.Errorf("image cannot be empty")
	}

	content, err := s.visionClient.ExtractInvoice(ctx, normalizeImageURL(req.Image))
	if err != nil {
		return nil, err
	}

	record := &models.InvoiceRecord{}
	clean := stripCodeFences(content)
	if err := json.Unmarshal([]byte(clean), record); err != nil {
		s.logger.WithError(err).Error("Failed to parse AI response")
		return nil, &ParseError{Raw: content, Err: err}
	}

	record.StampMetadata(req.Filename, time.Now(), false)

	s.logger.WithFields(logrus.Fields{
		"filename": req.Filename,
		"category": record.Category,
	}).Info("Invoice extracted")

	return record, nil
}

// DemoInvoice produces a synthetic record for the fallback path
func (s *ocrService) DemoInvoice(filename string) *models.InvoiceRecord {
	record := newDemoInvoice(filename, time.Now())

	s.logger.WithFields(logrus.Fields{
		"filename": filename,
		"category": record.Category,
	}).Info("Demo invoice generated")

	return record
}

// normalizeImageURL turns raw base64 into a JPEG data URI; complete data
// URIs pass through unchanged.
func normalizeImageURL(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

// stripCodeFences removes markdown code-fence wrapping that models sometimes
// add despite being told not to.
func stripCodeFences(content string) string {
	clean := strings.ReplaceAll(content, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
