package models

import (
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model plus the raw-SQL constraints that
// GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Mission{},
		&MissionSubmission{},
		&Reward{},
		&RedemptionRequest{},
		&Event{},
		&Announcement{},
		&HeroMedia{},
	); err != nil {
		return err
	}

	// At most one open (pending or approved) submission per user+mission.
	// Rejected and reverted rows must not block resubmission, so the unique
	// index is partial. A read-then-write check in handlers is not enough
	// under concurrent requests; this closes the race at the storage layer.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mission_submissions_open ` +
			`ON mission_submissions (user_id, mission_id) ` +
			`WHERE status IN ('pending','approved')`,
	).Error
}
