package models

import "time"

// UnavailableDate blocks a single calendar date regardless of the weekly
// rules. LegacyUserID carries rows created before blocks were keyed by
// business; the engine only ever reads by BusinessID, and
// scripts/migrate_legacy_blocks reconciles the old rows once.
type UnavailableDate struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index:idx_blocks_business_date" json:"business_id"`

	Date   string `gorm:"size:10;not null;index:idx_blocks_business_date" json:"date"` // YYYY-MM-DD
	Reason string `gorm:"size:255" json:"reason"`

	LegacyUserID *uint `gorm:"index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
