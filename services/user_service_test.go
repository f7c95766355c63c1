package services

import (
	"testing"

	"ze-club-system/models"

	"github.com/stretchr/testify/require"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)

	first, err := svc.EnsureUser("discord-123", "zephyr")
	require.NoError(t, err)
	require.Equal(t, "Rookie", first.Rank)
	require.Equal(t, models.RoleMember, first.Role)

	second, err := svc.EnsureUser("discord-123", "zephyr")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetDashboardRecomputesFromExperience(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)

	user := seedUser(t, db, 0, 15)

	// Experience moved without the cached columns being refreshed.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).Update("experience", 175).Error)

	dash, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)
	require.Equal(t, 15, dash.ZeCoins)
	require.Equal(t, 175, dash.Experience)
	require.Equal(t, "Contender", dash.Rank)
	require.Equal(t, 50, dash.ProgressToNextRank)
	require.Equal(t, 250, dash.NextRankPoints)
}

func TestSetRole(t *testing.T) {
	db := openTestDB(t)
	svc := NewUserService(db)

	user := seedUser(t, db, 0, 0)

	out, err := svc.SetRole(user.ID, models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, out.Role)

	_, err = svc.SetRole(user.ID, models.UserRole("owner"))
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.SetRole("nonexistent", models.RoleAdmin)
	require.ErrorIs(t, err, ErrUserNotFound)
}
