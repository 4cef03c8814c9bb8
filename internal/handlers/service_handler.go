package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/httpresp"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	PriceCents      *int   `json:"price_cents"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	PriceCents      *int    `json:"price_cents"`
	Active          *bool   `json:"active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var services []models.Service
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.DurationMinutes <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
		return
	}

	svc := models.Service{
		BusinessID:      businessID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Active:          true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// Update also covers deactivation. Deactivating a service never touches
// appointments that already reference it.
func (h *ServiceHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be positive.")
			return
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		svc.PriceCents = req.PriceCents
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	c.JSON(http.StatusOK, svc)
}
