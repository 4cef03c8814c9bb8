package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bookline/booking-api/internal/httperr"
	"github.com/bookline/booking-api/internal/models"
)

type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
	sent  chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{codes: map[string]string{}, sent: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(phone, code string) {
	s.mu.Lock()
	s.codes[phone] = code
	s.mu.Unlock()
	s.sent <- struct{}{}
}

func (s *recordingSender) lastCode(t *testing.T, phone string) string {
	t.Helper()
	select {
	case <-s.sent:
	case <-time.After(time.Second):
		t.Fatal("sender was never called")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

func newTestGate(t *testing.T, window time.Duration) (*Gate, *gorm.DB, *recordingSender) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection, or every pooled conn gets its own empty :memory: db.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.OtpVerification{}))

	sender := newRecordingSender()
	return NewGate(db, sender, window), db, sender
}

const gatePhone = "09123456789"

func TestGate(t *testing.T) {
	ctx := context.Background()

	t.Run("IssueConfirmVerify", func(t *testing.T) {
		gate, _, sender := newTestGate(t, 5*time.Minute)

		require.NoError(t, gate.Issue(ctx, gatePhone))
		code := sender.lastCode(t, gatePhone)
		require.Len(t, code, 6)

		ok, err := gate.IsVerified(ctx, gatePhone)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, gate.Confirm(ctx, gatePhone, code))

		ok, err = gate.IsVerified(ctx, gatePhone)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("WrongCodeCountsAttempts", func(t *testing.T) {
		gate, db, sender := newTestGate(t, 5*time.Minute)

		require.NoError(t, gate.Issue(ctx, gatePhone))
		code := sender.lastCode(t, gatePhone)

		for i := 0; i < maxAttempts; i++ {
			err := gate.Confirm(ctx, gatePhone, "000000")
			assert.Equal(t, "otp_mismatch", httperr.CodeOf(err))
		}

		// Budget spent; even the right code is refused now.
		err := gate.Confirm(ctx, gatePhone, code)
		assert.Equal(t, "otp_attempts_exceeded", httperr.CodeOf(err))

		var rec models.OtpVerification
		require.NoError(t, db.First(&rec).Error)
		assert.Equal(t, maxAttempts, rec.Attempts)
		assert.False(t, rec.Verified)
	})

	t.Run("ExpiredCodeNotConfirmable", func(t *testing.T) {
		gate, db, sender := newTestGate(t, 5*time.Minute)

		require.NoError(t, gate.Issue(ctx, gatePhone))
		code := sender.lastCode(t, gatePhone)

		// Age the record past the window.
		require.NoError(t, db.Model(&models.OtpVerification{}).
			Where("phone = ?", gatePhone).
			UpdateColumn("created_at", time.Now().Add(-6*time.Minute)).Error)

		err := gate.Confirm(ctx, gatePhone, code)
		assert.Equal(t, "otp_not_found", httperr.CodeOf(err))
	})

	t.Run("VerificationExpiresWithWindow", func(t *testing.T) {
		gate, db, sender := newTestGate(t, 5*time.Minute)

		require.NoError(t, gate.Issue(ctx, gatePhone))
		require.NoError(t, gate.Confirm(ctx, gatePhone, sender.lastCode(t, gatePhone)))

		require.NoError(t, db.Model(&models.OtpVerification{}).
			Where("phone = ?", gatePhone).
			UpdateColumn("created_at", time.Now().Add(-6*time.Minute)).Error)

		ok, err := gate.IsVerified(ctx, gatePhone)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ConsumeKeepsOnlyNewestVerified", func(t *testing.T) {
		gate, db, sender := newTestGate(t, 5*time.Minute)

		// Two issued codes, the second one confirmed, plus stale noise.
		require.NoError(t, gate.Issue(ctx, gatePhone))
		sender.lastCode(t, gatePhone)
		require.NoError(t, gate.Issue(ctx, gatePhone))
		require.NoError(t, gate.Confirm(ctx, gatePhone, sender.lastCode(t, gatePhone)))

		require.NoError(t, gate.Consume(ctx, gatePhone))

		var recs []models.OtpVerification
		require.NoError(t, db.Where("phone = ?", gatePhone).Find(&recs).Error)
		require.Len(t, recs, 1)
		assert.True(t, recs[0].Verified)
	})

	t.Run("ConsumeWithoutVerificationIsNoOp", func(t *testing.T) {
		gate, _, _ := newTestGate(t, 5*time.Minute)
		assert.NoError(t, gate.Consume(ctx, gatePhone))
	})
}
