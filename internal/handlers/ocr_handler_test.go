package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"muhasib-api/internal/adapters/vision"
	"muhasib-api/internal/models"
	"muhasib-api/internal/services"
	"muhasib-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockOCRService is an OCRService stub for handler tests
type mockOCRService struct {
	configured bool
	record     *models.InvoiceRecord
	err        error
	lastReq    *services.ExtractInvoiceRequest
}

func (m *mockOCRService) Configured() bool { return m.configured }

func (m *mockOCRService) ExtractInvoice(ctx context.Context, req *services.ExtractInvoiceRequest) (*models.InvoiceRecord, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

func (m *mockOCRService) DemoInvoice(filename string) *models.InvoiceRecord {
	vendor := "Unknown Vendor"
	record := &models.InvoiceRecord{
		VendorName: &vendor,
		Category:   models.CategoryMisc,
	}
	record.StampMetadata(filename, time.Now(), true)
	return record
}

func sampleRecord() *models.InvoiceRecord {
	vendor := "ACME Trading"
	subtotal := 100.0
	record := &models.InvoiceRecord{
		VendorName: &vendor,
		Subtotal:   &subtotal,
		Category:   models.CategorySuppliers,
	}
	record.StampMetadata("acme.jpg", time.Now(), false)
	return record
}

func newOCRTestRouter(ocr services.OCRService) *gin.Engine {
	router := gin.New()
	SetupMiddleware(router)
	SetupRoutes(router, &RouterConfig{
		OCRService:      ocr,
		WaitlistService: &mockWaitlistService{},
	})
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProcessImageSuccess(t *testing.T) {
	svc := &mockOCRService{configured: true, record: sampleRecord()}
	router := newOCRTestRouter(svc)

	w := postJSON(router, "/api/ocr", gin.H{"image": "aGVsbG8=", "filename": "acme.jpg"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp OCRResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "ACME Trading", *resp.Data.VendorName)

	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "aGVsbG8=", svc.lastReq.Image)
	assert.Equal(t, "acme.jpg", svc.lastReq.Filename)
}

func TestProcessImageMissingImage(t *testing.T) {
	router := newOCRTestRouter(&mockOCRService{configured: true})

	tests := []struct {
		name    string
		payload interface{}
	}{
		{"empty body", gin.H{}},
		{"empty image", gin.H{"image": ""}},
		{"whitespace image", gin.H{"image": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/ocr", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "No image provided", resp.Error)
		})
	}
}

func TestProcessImageMalformedJSON(t *testing.T) {
	router := newOCRTestRouter(&mockOCRService{configured: true})

	req := httptest.NewRequest(http.MethodPost, "/api/ocr", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessImageDemoFallback(t *testing.T) {
	router := newOCRTestRouter(&mockOCRService{configured: false})

	w := postJSON(router, "/api/ocr", gin.H{"image": "aGVsbG8=", "filename": "supplier.jpg"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp DemoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OpenAI API key not configured", resp.Error)
	assert.True(t, resp.Demo)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.Demo)
	assert.Equal(t, "supplier.jpg", resp.Data.Filename)
}

func TestProcessImageParseFailure(t *testing.T) {
	svc := &mockOCRService{
		configured: true,
		err:        &services.ParseError{Raw: "not json at all", Err: assert.AnError},
	}
	router := newOCRTestRouter(svc)

	w := postJSON(router, "/api/ocr", gin.H{"image": "aGVsbG8="})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ParseFailureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to parse AI response", resp.Error)
	assert.Equal(t, "not json at all", resp.Raw)
}

func TestProcessImageUpstreamError(t *testing.T) {
	svc := &mockOCRService{
		configured: true,
		err:        &vision.UpstreamError{StatusCode: 429, Detail: "Rate limit reached"},
	}
	router := newOCRTestRouter(svc)

	w := postJSON(router, "/api/ocr", gin.H{"image": "aGVsbG8="})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to process image", resp.Error)
	assert.Equal(t, "Rate limit reached", resp.Details)
}

func TestProcessImageUpstreamErrorWithoutDetail(t *testing.T) {
	svc := &mockOCRService{
		configured: true,
		err:        &vision.UpstreamError{StatusCode: 500},
	}
	router := newOCRTestRouter(svc)

	w := postJSON(router, "/api/ocr", gin.H{"image": "aGVsbG8="})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Unknown error", resp.Details)
}

func TestOCRMethodNotAllowed(t *testing.T) {
	router := newOCRTestRouter(&mockOCRService{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/api/ocr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Method not allowed", resp.Error)
}

func TestOCRPreflight(t *testing.T) {
	router := newOCRTestRouter(&mockOCRService{configured: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/ocr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestHandleProcessServerless(t *testing.T) {
	handler := NewOCRHandler(&mockOCRService{configured: true, record: sampleRecord()})

	t.Run("preflight", func(t *testing.T) {
		resp, err := handler.HandleProcess(context.Background(), &lambda.Request{Method: http.MethodOptions})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
		assert.Empty(t, resp.Body)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := handler.HandleProcess(context.Background(), &lambda.Request{Method: http.MethodGet})
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "Method not allowed")
	})

	t.Run("missing image", func(t *testing.T) {
		resp, err := handler.HandleProcess(context.Background(), &lambda.Request{
			Method: http.MethodPost,
			Body:   []byte(`{"filename": "x.jpg"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "No image provided")
	})

	t.Run("success", func(t *testing.T) {
		resp, err := handler.HandleProcess(context.Background(), &lambda.Request{
			Method: http.MethodPost,
			Body:   []byte(`{"image": "aGVsbG8=", "filename": "acme.jpg"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])

		var body OCRResponse
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.True(t, body.Success)
	})
}
