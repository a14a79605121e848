package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"muhasib-api/internal/adapters/vision"
	"muhasib-api/internal/services"
	"muhasib-api/pkg/lambda"
)

// OCRHandler handles invoice extraction requests
type OCRHandler struct {
	ocrService services.OCRService
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(ocrService services.OCRService) *OCRHandler {
	return &OCRHandler{
		ocrService: ocrService,
	}
}

// ProcessImageRequest represents the request body for invoice extraction
type ProcessImageRequest struct {
	// Image is raw base64 or a complete data URI
	Image    string `json:"image"`
	Filename string `json:"filename"`
}

// @Summary Extract invoice data from an image
// @Description Forward an invoice/receipt image to the vision model and return a structured record. Serves synthetic demo data when no API key is configured.
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body ProcessImageRequest true "Invoice image"
// @Success 200 {object} OCRResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/ocr [post]
func (h *OCRHandler) ProcessImage(c *gin.Context) {
	var req ProcessImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgNoImage})
		return
	}

	status, payload := h.process(c.Request.Context(), &req)
	c.JSON(status, payload)
}

// HandleProcess serves the same endpoint behind the serverless adapter
func (h *OCRHandler) HandleProcess(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if req.Method == http.MethodOptions {
		return lambda.EmptyResponse(http.StatusOK), nil
	}
	if req.Method != http.MethodPost {
		return lambda.JSONResponse(http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodNotAllowed}), nil
	}

	var body ProcessImageRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || strings.TrimSpace(body.Image) == "" {
		return lambda.JSONResponse(http.StatusBadRequest, ErrorResponse{Error: msgNoImage}), nil
	}

	status, payload := h.process(ctx, &body)
	return lambda.JSONResponse(status, payload), nil
}

// process runs the extraction flow shared by both hostings and returns the
// status code and response body to send.
func (h *OCRHandler) process(ctx context.Context, req *ProcessImageRequest) (int, interface{}) {
	// Without a credential the endpoint still answers, flagging the
	// incomplete configuration and carrying synthetic data.
	if !h.ocrService.Configured() {
		return http.StatusInternalServerError, DemoResponse{
			Error: msgKeyNotConfigured,
			Demo:  true,
			Data:  h.ocrService.DemoInvoice(req.Filename),
		}
	}

	record, err := h.ocrService.ExtractInvoice(ctx, &services.ExtractInvoiceRequest{
		Image:    req.Image,
		Filename: req.Filename,
	})
	if err != nil {
		var parseErr *services.ParseError
		if errors.As(err, &parseErr) {
			return http.StatusInternalServerError, ParseFailureResponse{
				Error: msgParseFailed,
				Raw:   parseErr.Raw,
			}
		}

		var upstreamErr *vision.UpstreamError
		if errors.As(err, &upstreamErr) {
			details := upstreamErr.Detail
			if details == "" {
				details = "Unknown error"
			}
			return http.StatusInternalServerError, ErrorResponse{
				Error:   msgProcessingFailed,
				Details: details,
			}
		}

		return http.StatusInternalServerError, ErrorResponse{
			Error:   msgProcessingFailed,
			Details: err.Error(),
		}
	}

	return http.StatusOK, OCRResponse{Success: true, Data: record}
}
