package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/httpresp"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	var logs []models.AuditLog
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Could not list audit logs.")
		return
	}

	httpresp.List(c, logs)
}
