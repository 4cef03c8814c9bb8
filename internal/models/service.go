package models

import "time"

type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Description     string `gorm:"size:255" json:"description"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	PriceCents      *int   `json:"price_cents"`
	Active          bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
