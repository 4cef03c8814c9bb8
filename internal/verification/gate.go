// Package verification gates anonymous booking behind a phone OTP and rate
// limiting. It owns no scheduling logic; admission consults it and moves on.
package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
)

const maxAttempts = 5

// Sender delivers a code to a phone. Actual SMS/voice provider calls are
// out of scope here; delivery is fire-and-forget and never awaited on the
// booking path.
type Sender interface {
	Send(phone, code string)
}

// LogSender is the default Sender: it only logs, which is also what local
// development wants.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) Send(phone, code string) {
	s.Log.Info().Str("phone", phone).Str("code", code).Msg("otp issued")
}

type Gate struct {
	db     *gorm.DB
	sender Sender
	window time.Duration
}

func NewGate(db *gorm.DB, sender Sender, window time.Duration) *Gate {
	return &Gate{db: db, sender: sender, window: window}
}

// Issue creates a fresh code for the phone and hands it to the sender on a
// separate goroutine.
func (g *Gate) Issue(ctx context.Context, phone string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	rec := models.OtpVerification{
		Phone: phone,
		Code:  code,
	}
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return httperr.Transient("store_unavailable")
	}

	go g.sender.Send(phone, code)
	return nil
}

// Confirm matches a submitted code against the newest unverified record
// within the window and marks it verified.
func (g *Gate) Confirm(ctx context.Context, phone, code string) error {
	var rec models.OtpVerification
	err := g.db.WithContext(ctx).
		Where("phone = ? AND verified = false AND created_at > ?", phone, time.Now().Add(-g.window)).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return httperr.Authorization("otp_not_found")
		}
		return httperr.Transient("store_unavailable")
	}

	if rec.Attempts >= maxAttempts {
		return httperr.Authorization("otp_attempts_exceeded")
	}

	if rec.Code != code {
		g.db.WithContext(ctx).
			Model(&rec).
			UpdateColumn("attempts", gorm.Expr("attempts + 1"))
		return httperr.Authorization("otp_mismatch")
	}

	if err := g.db.WithContext(ctx).Model(&rec).Update("verified", true).Error; err != nil {
		return httperr.Transient("store_unavailable")
	}
	return nil
}

// IsVerified reports whether the phone holds a verified record younger than
// the window.
func (g *Gate) IsVerified(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&models.OtpVerification{}).
		Where("phone = ? AND verified = true AND created_at > ?", phone, time.Now().Add(-g.window)).
		Count(&count).Error
	if err != nil {
		return false, httperr.Transient("store_unavailable")
	}
	return count > 0, nil
}

// Consume is called after a successful booking: purge unverified codes for
// the phone and keep only the newest verified record, bounding storage
// growth.
func (g *Gate) Consume(ctx context.Context, phone string) error {
	var newest models.OtpVerification
	err := g.db.WithContext(ctx).
		Where("phone = ? AND verified = true", phone).
		Order("created_at DESC").
		First(&newest).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	return g.db.WithContext(ctx).
		Where("phone = ? AND id <> ?", phone, newest.ID).
		Delete(&models.OtpVerification{}).Error
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
