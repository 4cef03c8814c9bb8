package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/bookline/booking-api/internal/domain/booking"
	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/infra/cache"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/models"
	"github.com/bookline/booking-api/internal/timeutil"
)

// AvailabilityHandler manages the weekly rule set. The whole set is
// replaced in one PUT; that is where the non-overlap invariant the engine
// relies on gets enforced.
type AvailabilityHandler struct {
	db    *gorm.DB
	slots *cache.SlotCache
}

func NewAvailabilityHandler(db *gorm.DB, slots *cache.SlotCache) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, slots: slots}
}

type RuleConfig struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    bool   `json:"active"`
}

type AvailabilityUpdateRequest struct {
	Rules []RuleConfig `json:"rules" binding:"required"`
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var rules []models.AvailabilityRule
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rules).Error; err != nil {
		httperr.Internal(c, "failed_to_get_availability", "Could not load availability.")
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	inputs := make([]domain.RuleInput, 0, len(req.Rules))
	for _, r := range req.Rules {
		inputs = append(inputs, domain.RuleInput{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Active:    r.Active,
		})
	}

	if err := domain.ValidateRuleSet(inputs); err != nil {
		httperr.WriteError(c, err)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		var toCreate []models.AvailabilityRule
		for _, r := range req.Rules {
			start, _ := timeutil.Normalize(r.StartTime)
			end, _ := timeutil.Normalize(r.EndTime)
			toCreate = append(toCreate, models.AvailabilityRule{
				BusinessID: businessID,
				DayOfWeek:  r.DayOfWeek,
				StartTime:  start,
				EndTime:    end,
				Active:     r.Active,
			})
		}

		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_availability", "Could not save availability.")
		return
	}

	h.slots.InvalidateBusiness(c.Request.Context(), businessID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
