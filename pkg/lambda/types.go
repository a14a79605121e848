package lambda

import (
	"encoding/json"
	"net/http"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// corsHeaders returns the CORS headers every function response carries
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// JSONResponse builds a JSON response with CORS headers attached
func JSONResponse(statusCode int, payload interface{}) *Response {
	headers := corsHeaders()
	headers["Content-Type"] = "application/json"

	body, err := json.Marshal(payload)
	if err != nil {
		return &Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       []byte(`{"error": "Internal server error"}`),
		}
	}

	return &Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}
}

// EmptyResponse builds a bodyless response with CORS headers attached,
// used to answer pre-flight requests.
func EmptyResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    corsHeaders(),
	}
}
