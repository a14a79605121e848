package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"muhasib-api/internal/services"
	"muhasib-api/pkg/lambda"
)

// WaitlistHandler handles waitlist signup requests
type WaitlistHandler struct {
	waitlistService services.WaitlistService
}

// NewWaitlistHandler creates a new waitlist handler
func NewWaitlistHandler(waitlistService services.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistService: waitlistService,
	}
}

// JoinRequest represents the request body for a waitlist signup
type JoinRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Business string `json:"business"`
}

func (r *JoinRequest) complete() bool {
	return strings.TrimSpace(r.Phone) != "" &&
		strings.TrimSpace(r.Email) != "" &&
		strings.TrimSpace(r.Business) != ""
}

// @Summary Join the waitlist
// @Description Register a phone, email and business type on the waitlist and notify the team by email
// @Tags waitlist
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Signup data"
// @Success 200 {object} WaitlistResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.complete() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgFieldsRequired})
		return
	}

	status, payload := h.join(c.Request.Context(), &req)
	c.JSON(status, payload)
}

// HandleJoin serves the same endpoint behind the serverless adapter
func (h *WaitlistHandler) HandleJoin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if req.Method == http.MethodOptions {
		return lambda.EmptyResponse(http.StatusOK), nil
	}
	if req.Method != http.MethodPost {
		return lambda.JSONResponse(http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodNotAllowed}), nil
	}

	var body JoinRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || !body.complete() {
		return lambda.JSONResponse(http.StatusBadRequest, ErrorResponse{Error: msgFieldsRequired}), nil
	}

	status, payload := h.join(ctx, &body)
	return lambda.JSONResponse(status, payload), nil
}

// join runs the signup flow shared by both hostings
func (h *WaitlistHandler) join(ctx context.Context, req *JoinRequest) (int, interface{}) {
	err := h.waitlistService.Join(ctx, &services.JoinWaitlistRequest{
		Phone:    req.Phone,
		Email:    req.Email,
		Business: req.Business,
	})
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRegistered) {
			return http.StatusBadRequest, ErrorResponse{
				Error:   codeAlreadyRegistered,
				Message: msgAlreadyRegistered,
			}
		}
		if isValidationError(err) {
			return http.StatusBadRequest, ErrorResponse{Error: msgFieldsRequired}
		}
		return http.StatusInternalServerError, ErrorResponse{
			Error:   codeServerError,
			Message: msgServerError,
		}
	}

	return http.StatusOK, WaitlistResponse{Success: true, Message: msgJoinedWaitlist}
}

// @Summary List waitlist signups
// @Description Return the most recent waitlist signups. Requires the admin API key.
// @Tags waitlist
// @Produce json
// @Param limit query int false "Maximum entries to return" default(100)
// @Success 200 {object} WaitlistListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 {
			limit = val
		}
	}

	entries, err := h.waitlistService.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   codeServerError,
			Message: msgServerError,
		})
		return
	}

	total, err := h.waitlistService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   codeServerError,
			Message: msgServerError,
		})
		return
	}

	c.JSON(http.StatusOK, WaitlistListResponse{
		Success: true,
		Count:   len(entries),
		Total:   total,
		Data:    entries,
	})
}
