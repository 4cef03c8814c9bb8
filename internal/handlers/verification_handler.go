package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/validators"
	"github.com/bookline/booking-api/internal/verification"
)

type VerificationHandler struct {
	gate *verification.Gate
}

func NewVerificationHandler(gate *verification.Gate) *VerificationHandler {
	return &VerificationHandler{gate: gate}
}

type RequestOtpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type ConfirmOtpRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *VerificationHandler) Request(c *gin.Context) {
	var req RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if !validators.IsValidMobile(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Not a valid mobile number.")
		return
	}

	if err := h.gate.Issue(c.Request.Context(), req.Phone); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VerificationHandler) Confirm(c *gin.Context) {
	var req ConfirmOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if err := h.gate.Confirm(c.Request.Context(), req.Phone, req.Code); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}
