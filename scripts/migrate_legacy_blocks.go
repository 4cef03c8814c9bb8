// One-shot reconciliation of blocked dates created under the old ownership
// scheme, where rows were keyed by the owner's user id instead of the
// business id. The engine only reads blocks by business id, so legacy rows
// are invisible until this has run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bookline/booking-api/internal/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var (
		dbURL  = flag.String("db", os.Getenv("DATABASE_URL"), "postgres connection url")
		dryRun = flag.Bool("dry-run", false, "report without writing")
	)
	flag.Parse()

	if *dbURL == "" {
		return fmt.Errorf("database url required (flag -db or DATABASE_URL)")
	}

	db, err := gorm.Open(postgres.Open(*dbURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	var legacy []models.UnavailableDate
	if err := db.
		Where("business_id = 0 AND legacy_user_id IS NOT NULL").
		Find(&legacy).Error; err != nil {
		return fmt.Errorf("load legacy blocks: %w", err)
	}

	if len(legacy) == 0 {
		logger.Info().Msg("no legacy blocks to migrate")
		return nil
	}

	migrated := 0
	orphaned := 0
	for _, block := range legacy {
		var user models.User
		if err := db.First(&user, *block.LegacyUserID).Error; err != nil {
			// Owner gone; the block has nothing to attach to.
			orphaned++
			logger.Warn().
				Uint("block_id", block.ID).
				Uint("legacy_user_id", *block.LegacyUserID).
				Msg("orphaned legacy block, skipping")
			continue
		}

		if *dryRun {
			migrated++
			continue
		}

		if err := db.Model(&models.UnavailableDate{}).
			Where("id = ?", block.ID).
			Updates(map[string]any{
				"business_id":    user.BusinessID,
				"legacy_user_id": nil,
			}).Error; err != nil {
			return fmt.Errorf("migrate block %d: %w", block.ID, err)
		}
		migrated++
	}

	logger.Info().
		Int("migrated", migrated).
		Int("orphaned", orphaned).
		Bool("dry_run", *dryRun).
		Msg("legacy block migration finished")

	return nil
}
