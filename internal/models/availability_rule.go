package models

import "time"

// AvailabilityRule is one recurring weekly interval during which a business
// accepts bookings. Rules for the same business+day must not overlap; the
// write-time validator in the availability handler enforces that, the engine
// assumes it on read.
type AvailabilityRule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index:idx_rules_business_day" json:"business_id"`

	DayOfWeek int    `gorm:"index:idx_rules_business_day" json:"day_of_week"` // 0..6
	StartTime string `gorm:"size:5;not null" json:"start_time"`               // HH:MM
	EndTime   string `gorm:"size:5;not null" json:"end_time"`                 // HH:MM
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
