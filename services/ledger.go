package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ze-club-system/models"

	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyProcessed   = errors.New("submission already processed")
	ErrNotApproved        = errors.New("submission is not approved")
	ErrAlreadyReverted    = errors.New("submission already reverted")
	ErrMissionUnavailable = errors.New("mission is no longer available")
)

// ExperienceMirror receives a member's experience as soon as a ledger
// mutation commits. Satisfied by LeaderboardService.
type ExperienceMirror interface {
	UpdateMember(ctx context.Context, userID, username string, experience int) error
}

// LedgerService applies every coin/experience mutation triggered by
// submission verification. Each operation runs in a single transaction so a
// failed state check never leaves a partial award behind.
type LedgerService struct {
	DB     *gorm.DB
	Mirror ExperienceMirror
}

func NewLedgerService(db *gorm.DB, mirror ExperienceMirror) *LedgerService {
	return &LedgerService{DB: db, Mirror: mirror}
}

// mirrorExperience is best effort: the 30s sync worker repairs a missed push,
// so a mirror failure never fails the ledger operation that already committed.
func (s *LedgerService) mirrorExperience(userID, username string, experience int) {
	if s.Mirror == nil {
		return
	}
	if err := s.Mirror.UpdateMember(context.Background(), userID, username, experience); err != nil {
		log.Printf("[LEDGER] leaderboard mirror update failed for user %s: %v", userID, err)
	}
}

// RevertDetails is returned to the admin so the UI can explain exactly what
// the revert undid.
type RevertDetails struct {
	PointsDeducted int    `json:"points_deducted"`
	CoinsShortfall int    `json:"coins_shortfall"`
	RankChanged    bool   `json:"rank_changed"`
	OldRank        string `json:"old_rank"`
	NewRank        string `json:"new_rank"`
}

// ApproveSubmission marks a pending submission approved and awards the
// mission's points to the member's coins and experience. Approving a
// submission that is not pending returns ErrAlreadyProcessed and awards
// nothing; a mission that has filled its completion cap returns
// ErrMissionUnavailable.
func (s *LedgerService) ApproveSubmission(submissionID, adminID string) (*models.MissionSubmission, error) {
	var out models.MissionSubmission
	var awarded int
	var memberName string
	var memberXP int

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.MissionSubmission
		if err := tx.First(&sub, "id = ?", submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.Status != models.SubmissionPending {
			return ErrAlreadyProcessed
		}

		var mission models.Mission
		if err := tx.First(&mission, "id = ?", sub.MissionID).Error; err != nil {
			return err
		}

		// Conditional increment closes the race against a concurrent approval
		// filling the last completion slot.
		res := tx.Model(&models.Mission{}).
			Where("id = ? AND (max_completions IS NULL OR current_completions < max_completions)", mission.ID).
			Update("current_completions", gorm.Expr("current_completions + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMissionUnavailable
		}

		var user models.User
		if err := tx.First(&user, "id = ?", sub.UserID).Error; err != nil {
			return err
		}
		user.ZeCoins += mission.Points
		user.Experience += mission.Points
		user.Points = user.Experience
		user.ApplyRankFields()
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		memberName = user.Username
		memberXP = user.Experience

		now := time.Now().UTC()
		upd := tx.Model(&models.MissionSubmission{}).
			Where("id = ? AND status = ?", sub.ID, models.SubmissionPending).
			Updates(map[string]interface{}{
				"status":      models.SubmissionApproved,
				"approved_by": adminID,
				"approved_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		sub.Status = models.SubmissionApproved
		sub.ApprovedBy = &adminID
		sub.ApprovedAt = &now
		out = sub
		awarded = mission.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirrorExperience(out.UserID, memberName, memberXP)
	log.Printf("[LEDGER] submission %s approved by %s (+%d coins/xp for user %s)",
		out.ID, adminID, awarded, out.UserID)
	return &out, nil
}

// RejectSubmission marks a pending submission rejected. No ledger movement.
func (s *LedgerService) RejectSubmission(submissionID, adminID string) (*models.MissionSubmission, error) {
	var out models.MissionSubmission

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.MissionSubmission
		if err := tx.First(&sub, "id = ?", submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.Status != models.SubmissionPending {
			return ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		upd := tx.Model(&models.MissionSubmission{}).
			Where("id = ? AND status = ?", sub.ID, models.SubmissionPending).
			Updates(map[string]interface{}{
				"status":      models.SubmissionRejected,
				"rejected_by": adminID,
				"rejected_at": now,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		sub.Status = models.SubmissionRejected
		sub.RejectedBy = &adminID
		sub.RejectedAt = &now
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RevertSubmission reverses a previously approved submission: experience
// comes back off, coins come off floored at zero (they may have been spent),
// rank is recomputed and the mission's completion counter is released.
// Reverting anything that is not currently approved is an explicit error,
// never a silent no-op.
func (s *LedgerService) RevertSubmission(submissionID, adminID, reason string) (*RevertDetails, error) {
	var details RevertDetails
	var memberID, memberName string
	var memberXP int

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.MissionSubmission
		if err := tx.First(&sub, "id = ?", submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		switch sub.Status {
		case models.SubmissionApproved:
			// eligible
		case models.SubmissionReverted:
			return ErrAlreadyReverted
		default:
			return ErrNotApproved
		}

		var mission models.Mission
		if err := tx.First(&mission, "id = ?", sub.MissionID).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", sub.UserID).Error; err != nil {
			return err
		}

		oldRank := user.Rank

		user.Experience -= mission.Points
		if user.Experience < 0 {
			user.Experience = 0
		}

		shortfall := 0
		if user.ZeCoins < mission.Points {
			shortfall = mission.Points - user.ZeCoins
			user.ZeCoins = 0
		} else {
			user.ZeCoins -= mission.Points
		}

		user.Points = user.Experience
		user.ApplyRankFields()
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		memberID = user.ID
		memberName = user.Username
		memberXP = user.Experience

		if err := tx.Model(&models.Mission{}).
			Where("id = ? AND current_completions > 0", mission.ID).
			Update("current_completions", gorm.Expr("current_completions - 1")).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		upd := tx.Model(&models.MissionSubmission{}).
			Where("id = ? AND status = ?", sub.ID, models.SubmissionApproved).
			Updates(map[string]interface{}{
				"status":        models.SubmissionReverted,
				"reverted_by":   adminID,
				"reverted_at":   now,
				"revert_reason": reason,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrNotApproved
		}

		details = RevertDetails{
			PointsDeducted: mission.Points,
			CoinsShortfall: shortfall,
			RankChanged:    oldRank != user.Rank,
			OldRank:        oldRank,
			NewRank:        user.Rank,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mirrorExperience(memberID, memberName, memberXP)
	log.Printf("[LEDGER] submission %s reverted by %s (-%d xp, shortfall %d)",
		submissionID, adminID, details.PointsDeducted, details.CoinsShortfall)
	return &details, nil
}
