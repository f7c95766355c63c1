package services

import (
	"testing"

	"ze-club-system/models"

	"github.com/stretchr/testify/require"
)

func TestSubmitCreatesPendingSubmission(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	user := seedUser(t, db, 0, 0)
	mission := seedMission(t, db, 10, nil)

	sub, err := svc.Submit(user.ID, mission.ID, "https://proof.example/clip", "first try")
	require.NoError(t, err)
	require.Equal(t, models.SubmissionPending, sub.Status)
	require.Equal(t, user.ID, sub.UserID)
	require.Equal(t, mission.ID, sub.MissionID)
}

func TestSubmitUnknownMission(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	user := seedUser(t, db, 0, 0)
	_, err := svc.Submit(user.ID, "nonexistent", "https://proof.example/x", "")
	require.ErrorIs(t, err, ErrMissionNotFound)
}

func TestSubmitRefusesExpiredMission(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	user := seedUser(t, db, 0, 0)
	mission := seedMission(t, db, 10, nil)
	start, end := expiredWindow()
	require.NoError(t, db.Model(&models.Mission{}).
		Where("id = ?", mission.ID).
		Updates(map[string]interface{}{
			"is_time_limited": true,
			"start_date":      start,
			"end_date":        end,
		}).Error)

	_, err := svc.Submit(user.ID, mission.ID, "https://proof.example/late", "")
	require.ErrorIs(t, err, ErrMissionUnavailable)
}

func TestSubmitDuplicateWhileOpen(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	user := seedUser(t, db, 0, 0)
	mission := seedMission(t, db, 10, nil)

	_, err := svc.Submit(user.ID, mission.ID, "https://proof.example/1", "")
	require.NoError(t, err)

	// Second open submission for the same mission must bounce off the
	// partial unique index.
	_, err = svc.Submit(user.ID, mission.ID, "https://proof.example/2", "")
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	// A different member is unaffected.
	other := seedUser(t, db, 0, 0)
	_, err = svc.Submit(other.ID, mission.ID, "https://proof.example/3", "")
	require.NoError(t, err)
}

func TestSubmitAgainAfterRejectOrRevert(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)
	ledger := NewLedgerService(db, nil)

	admin := seedUser(t, db, 0, 0)
	user := seedUser(t, db, 0, 0)
	mission := seedMission(t, db, 10, nil)

	first, err := svc.Submit(user.ID, mission.ID, "https://proof.example/1", "")
	require.NoError(t, err)
	_, err = ledger.RejectSubmission(first.ID, admin.ID)
	require.NoError(t, err)

	// Rejected rows don't block a retry.
	second, err := svc.Submit(user.ID, mission.ID, "https://proof.example/2", "")
	require.NoError(t, err)

	_, err = ledger.ApproveSubmission(second.ID, admin.ID)
	require.NoError(t, err)

	// Approved rows do block.
	_, err = svc.Submit(user.ID, mission.ID, "https://proof.example/3", "")
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	_, err = ledger.RevertSubmission(second.ID, admin.ID, "bad proof")
	require.NoError(t, err)

	// Reverted rows don't block either.
	_, err = svc.Submit(user.ID, mission.ID, "https://proof.example/4", "")
	require.NoError(t, err)
}

func TestListForUserAnnotatesState(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	user := seedUser(t, db, 0, 0)
	open := seedMission(t, db, 10, nil)
	done := seedMission(t, db, 10, nil)
	waiting := seedMission(t, db, 10, nil)

	seedSubmission(t, db, user.ID, done.ID, models.SubmissionApproved)
	seedSubmission(t, db, user.ID, waiting.ID, models.SubmissionPending)

	views, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byID := make(map[string]MissionView, len(views))
	for _, v := range views {
		byID[v.Mission.ID] = v
	}

	require.True(t, byID[open.ID].IsAvailable)
	require.False(t, byID[open.ID].IsCompleted)

	require.True(t, byID[done.ID].IsCompleted)
	require.False(t, byID[done.ID].IsAvailable)

	require.True(t, byID[waiting.ID].IsPending)
	require.False(t, byID[waiting.ID].IsAvailable)
}

func TestListByStatusPaginates(t *testing.T) {
	db := openTestDB(t)
	svc := NewSubmissionService(db)

	mission := seedMission(t, db, 10, nil)
	for i := 0; i < 5; i++ {
		u := seedUser(t, db, 0, 0)
		seedSubmission(t, db, u.ID, mission.ID, models.SubmissionPending)
	}

	subs, total, err := svc.ListByStatus(models.SubmissionPending, 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, subs, 2)

	subs, _, err = svc.ListByStatus(models.SubmissionPending, 3, 2)
	require.NoError(t, err)
	require.Len(t, subs, 1)
}
