package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
	Active   *bool   `json:"active"`
}

func (h *BusinessHandler) GetMe(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	c.JSON(http.StatusOK, biz)
}

func (h *BusinessHandler) UpdateMe(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil {
		biz.Name = *req.Name
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		biz.Timezone = *req.Timezone
	}
	if req.Active != nil {
		biz.Active = *req.Active
	}

	// The slug is the public routing key; renames go through a dedicated
	// flow, not this endpoint.

	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Could not update business.")
		return
	}

	c.JSON(http.StatusOK, biz)
}
