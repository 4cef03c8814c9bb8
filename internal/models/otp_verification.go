package models

import "time"

// OtpVerification is an ephemeral per-phone record. A verified row only
// authorizes a booking while it is younger than the configured window, and
// successful consumption prunes everything but the newest verified row.
type OtpVerification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Phone    string `gorm:"size:20;not null;index" json:"phone"`
	Code     string `gorm:"size:6;not null" json:"-"`
	Verified bool   `gorm:"default:false" json:"verified"`
	Attempts int    `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
