package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/httpresp"
	"github.com/bookline/booking-api/internal/middleware"
	usecase "github.com/bookline/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC     *usecase.CreateOwnerAppointment
	rescheduleUC *usecase.RescheduleAppointment
	statusUC     *usecase.ChangeAppointmentStatus
	deleteUC     *usecase.DeleteAppointment
	listByDateUC *usecase.ListAppointmentsByDate
	listMonthUC  *usecase.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	createUC *usecase.CreateOwnerAppointment,
	rescheduleUC *usecase.RescheduleAppointment,
	statusUC *usecase.ChangeAppointmentStatus,
	deleteUC *usecase.DeleteAppointment,
	listByDateUC *usecase.ListAppointmentsByDate,
	listMonthUC *usecase.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:     createUC,
		rescheduleUC: rescheduleUC,
		statusUC:     statusUC,
		deleteUC:     deleteUC,
		listByDateUC: listByDateUC,
		listMonthUC:  listMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type OwnerCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ServiceID   *uint  `json:"service_id"`
	EndTime     string `json:"end_time"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

type RescheduleRequest struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	ServiceID *uint  `json:"service_id"`
	EndTime   string `json:"end_time"`
}

type StatusChangeRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE (owner-direct)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req OwnerCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), usecase.CreateOwnerAppointmentInput{
		BusinessID:  businessID,
		UserID:      userID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		EndTime:     req.EndTime,
		Date:        req.Date,
		Time:        req.Time,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	items, err := h.listByDateUC.Execute(c.Request.Context(), businessID, date)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_month", "Year and month are required.")
		return
	}

	items, err := h.listMonthUC.Execute(c.Request.Context(), businessID, year, month)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// RESCHEDULE / STATUS / DELETE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), usecase.RescheduleAppointmentInput{
		BusinessID:    businessID,
		UserID:        userID,
		AppointmentID: uint(id),
		Date:          req.Date,
		Time:          req.Time,
		ServiceID:     req.ServiceID,
		EndTime:       req.EndTime,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.statusUC.Execute(c.Request.Context(), businessID, userID, uint(id), req.Status)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), businessID, userID, uint(id)); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
