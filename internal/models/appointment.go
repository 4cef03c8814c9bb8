package models

import "time"

type Appointment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:36;uniqueIndex" json:"code"`

	BusinessID uint     `gorm:"index:idx_appointments_business_date" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// ServiceID is nil for owner-created appointments that carry an explicit
	// end time instead of a catalog service.
	ServiceID *uint    `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null;index" json:"client_phone"`

	Date      string `gorm:"size:10;not null;index:idx_appointments_business_date" json:"date"` // YYYY-MM-DD
	StartTime string `gorm:"size:5;not null" json:"start_time"`                                 // HH:MM
	EndTime   string `gorm:"size:5;not null" json:"end_time"`                                   // HH:MM

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Note   string `gorm:"size:255" json:"note"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
