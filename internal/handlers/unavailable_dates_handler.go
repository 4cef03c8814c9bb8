package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/httpresp"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

type UnavailableDatesHandler struct {
	db    *gorm.DB
	slots *cache.SlotCache
}

func NewUnavailableDatesHandler(db *gorm.DB, slots *cache.SlotCache) *UnavailableDatesHandler {
	return &UnavailableDatesHandler{db: db, slots: slots}
}

type CreateUnavailableDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

func (h *UnavailableDatesHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var blocks []models.UnavailableDate
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("date ASC").
		Find(&blocks).Error; err != nil {
		httperr.Internal(c, "failed_to_list_blocks", "Could not list blocked dates.")
		return
	}

	httpresp.List(c, blocks)
}

func (h *UnavailableDatesHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateUnavailableDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if _, err := time.Parse(timeutil.DateLayout, req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	var count int64
	h.db.Model(&models.UnavailableDate{}).
		Where("business_id = ? AND date = ?", businessID, req.Date).
		Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "date_already_blocked", "That date is already blocked.")
		return
	}

	block := models.UnavailableDate{
		BusinessID: businessID,
		Date:       req.Date,
		Reason:     req.Reason,
	}

	if err := h.db.Create(&block).Error; err != nil {
		httperr.Internal(c, "failed_to_create_block", "Could not block date.")
		return
	}

	h.slots.InvalidateBusiness(c.Request.Context(), businessID)

	c.JSON(http.StatusCreated, block)
}

func (h *UnavailableDatesHandler) Delete(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_block_id", "Invalid id.")
		return
	}

	res := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.UnavailableDate{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_block", "Could not unblock date.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "block_not_found", "Blocked date not found.")
		return
	}

	h.slots.InvalidateBusiness(c.Request.Context(), businessID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
