package services

import (
	"fmt"
	"testing"
	"time"

	"ze-club-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database so tests cannot
// interfere with each other.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, experience, coins int) *models.User {
	t.Helper()
	user := &models.User{
		ID:         uuid.NewString(),
		DiscordID:  uuid.NewString(),
		Username:   "tester-" + uuid.NewString()[:8],
		Role:       models.RoleMember,
		Experience: experience,
		ZeCoins:    coins,
		Points:     experience,
	}
	user.ApplyRankFields()
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMission(t *testing.T, db *gorm.DB, points int, maxCompletions *int) *models.Mission {
	t.Helper()
	mission := &models.Mission{
		ID:             uuid.NewString(),
		Title:          "Mission " + uuid.NewString()[:8],
		Slug:           "mission-" + uuid.NewString()[:8],
		Points:         points,
		Active:         true,
		MaxCompletions: maxCompletions,
	}
	require.NoError(t, db.Create(mission).Error)
	return mission
}

func seedSubmission(t *testing.T, db *gorm.DB, userID, missionID string, status models.SubmissionStatus) *models.MissionSubmission {
	t.Helper()
	sub := &models.MissionSubmission{
		ID:        uuid.NewString(),
		UserID:    userID,
		MissionID: missionID,
		ProofURL:  "https://proof.example/" + uuid.NewString()[:8],
		Status:    status,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func seedReward(t *testing.T, db *gorm.DB, cost, stock int) *models.Reward {
	t.Helper()
	reward := &models.Reward{
		ID:     uuid.NewString(),
		Title:  "Reward " + uuid.NewString()[:8],
		Cost:   cost,
		Stock:  stock,
		Active: true,
	}
	require.NoError(t, db.Create(reward).Error)
	return reward
}

func intPtr(v int) *int { return &v }

func expiredWindow() (*time.Time, *time.Time) {
	start := time.Now().UTC().Add(-48 * time.Hour)
	end := time.Now().UTC().Add(-24 * time.Hour)
	return &start, &end
}
