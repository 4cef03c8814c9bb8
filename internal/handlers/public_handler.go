package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
	usecase "github.com/bookline/booking-api/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *usecase.GetAvailability
	admitUC        *usecase.AdmitPublicBooking
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *usecase.GetAvailability,
	admitUC *usecase.AdmitPublicBooking,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
		admitUC:        admitUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

// Field presence is deliberately not enforced by binding tags; the admission
// rules report missing fields with their own code and ordering.
type PublicBookingRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ServiceID   uint   `json:"service_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Note        string `json:"note"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var biz models.Business
	if err := h.db.Where("slug = ? AND active = true", slug).First(&biz).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	var services []models.Service
	if err := h.db.
		Where("business_id = ? AND active = true", biz.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"id":   biz.ID,
			"name": biz.Name,
			"slug": biz.Slug,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	date := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if date == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Date and service are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	result, err := h.availabilityUC.Execute(c.Request.Context(), slug, uint(serviceID), date)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

////////////////////////////////////////////////////////
// BOOKING SUBMISSION
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	slug := c.Param("slug")

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.admitUC.Execute(c.Request.Context(), usecase.AdmitPublicBookingInput{
		BusinessSlug: slug,
		ClientName:   req.ClientName,
		ClientPhone:  req.ClientPhone,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Note:         req.Note,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment_code": ap.Code,
		"date":             ap.Date,
		"time":             ap.StartTime,
		"status":           ap.Status,
	})
}
