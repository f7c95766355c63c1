package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ze-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRewardNotFound      = errors.New("reward not found")
	ErrRewardInactive      = errors.New("reward is not available")
	ErrOutOfStock          = errors.New("reward is out of stock")
	ErrInsufficientCoins   = errors.New("insufficient ZE Coins")
	ErrRankTooLow          = errors.New("rank requirement not met")
	ErrNotTopThree         = errors.New("reward is exclusive to the top 3")
	ErrRedemptionNotFound  = errors.New("redemption request not found")
	ErrRedemptionProcessed = errors.New("redemption request already processed")
)

// discountRank is the minimum tier from which discountable rewards get the
// member discount.
const (
	discountRank    = "Vanguard"
	discountPercent = 10
)

// TopThreeChecker reports whether a member currently sits in the top 3 of
// the experience leaderboard. Satisfied by LeaderboardService.
type TopThreeChecker interface {
	IsTopThree(ctx context.Context, userID string) (bool, error)
}

// RedemptionService spends ZE Coins on rewards. Stock and balance are
// mutated with conditional single-statement updates so concurrent
// redemptions can neither oversell stock nor double-spend a balance.
type RedemptionService struct {
	DB       *gorm.DB
	TopThree TopThreeChecker
}

func NewRedemptionService(db *gorm.DB, topThree TopThreeChecker) *RedemptionService {
	return &RedemptionService{DB: db, TopThree: topThree}
}

// CostFor returns the cost the member actually pays for a reward.
func CostFor(user *models.User, reward *models.Reward) int {
	cost := reward.Cost
	if reward.Discountable && models.RankIndexOf(user.Rank) >= models.RankIndexOf(discountRank) {
		cost -= cost * discountPercent / 100
	}
	return cost
}

// RewardView is a reward annotated for the requesting member.
type RewardView struct {
	models.Reward
	CostForYou int  `json:"cost_for_you"`
	CanAfford  bool `json:"can_afford"`
	Eligible   bool `json:"eligible"`
}

// ListForUser returns active rewards annotated with the member's effective
// cost and eligibility. Top-3 exclusivity is evaluated here for display only;
// Redeem re-checks it.
func (s *RedemptionService) ListForUser(ctx context.Context, user *models.User) ([]RewardView, error) {
	var rewards []models.Reward
	if err := s.DB.Where("active = ?", true).Order("cost ASC").Find(&rewards).Error; err != nil {
		return nil, err
	}

	topThree := false
	if s.TopThree != nil {
		if ok, err := s.TopThree.IsTopThree(ctx, user.ID); err == nil {
			topThree = ok
		}
	}

	views := make([]RewardView, 0, len(rewards))
	for _, r := range rewards {
		cost := CostFor(user, &r)
		eligible := r.Stock > 0
		if r.RequiredRank != nil && models.RankIndexOf(user.Rank) < models.RankIndexOf(*r.RequiredRank) {
			eligible = false
		}
		if r.ExclusiveToTop3 && !topThree {
			eligible = false
		}
		views = append(views, RewardView{
			Reward:     r,
			CostForYou: cost,
			CanAfford:  user.ZeCoins >= cost,
			Eligible:   eligible,
		})
	}
	return views, nil
}

// Redeem spends coins on a reward and files a pending RedemptionRequest.
// Stock decrement and coin deduction are both conditional updates; zero rows
// affected on either one aborts the transaction, so nothing partial ever
// lands.
func (s *RedemptionService) Redeem(ctx context.Context, userID, rewardID string) (*models.RedemptionRequest, error) {
	var request models.RedemptionRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var reward models.Reward
		if err := tx.First(&reward, "id = ?", rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		if !reward.Active {
			return ErrRewardInactive
		}
		if reward.RequiredRank != nil &&
			models.RankIndexOf(user.Rank) < models.RankIndexOf(*reward.RequiredRank) {
			return ErrRankTooLow
		}
		if reward.ExclusiveToTop3 {
			if s.TopThree == nil {
				return ErrNotTopThree
			}
			ok, err := s.TopThree.IsTopThree(ctx, userID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotTopThree
			}
		}

		cost := CostFor(&user, &reward)

		res := tx.Model(&models.Reward{}).
			Where("id = ? AND stock > 0", reward.ID).
			Update("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		res = tx.Model(&models.User{}).
			Where("id = ? AND ze_coins >= ?", user.ID, cost).
			Update("ze_coins", gorm.Expr("ze_coins - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCoins
		}

		request = models.RedemptionRequest{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			RewardID:   reward.ID,
			CostPaid:   cost,
			Discounted: cost < reward.Cost,
			Status:     models.RedemptionPending,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[REDEEM] user %s redeemed reward %s for %d coins", userID, rewardID, request.CostPaid)
	return &request, nil
}

// Fulfill marks a pending redemption request as handed out.
func (s *RedemptionService) Fulfill(requestID, adminID string, notes *string) (*models.RedemptionRequest, error) {
	return s.resolve(requestID, adminID, models.RedemptionFulfilled, notes, false)
}

// Reject refuses a pending redemption request, refunding the coins actually
// paid and restoring the reward's stock.
func (s *RedemptionService) Reject(requestID, adminID string, notes *string) (*models.RedemptionRequest, error) {
	return s.resolve(requestID, adminID, models.RedemptionRejected, notes, true)
}

func (s *RedemptionService) resolve(requestID, adminID string, status models.RedemptionStatus, notes *string, refund bool) (*models.RedemptionRequest, error) {
	var out models.RedemptionRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var req models.RedemptionRequest
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRedemptionNotFound
			}
			return err
		}
		if req.Status != models.RedemptionPending {
			return ErrRedemptionProcessed
		}

		now := time.Now().UTC()
		upd := tx.Model(&models.RedemptionRequest{}).
			Where("id = ? AND status = ?", req.ID, models.RedemptionPending).
			Updates(map[string]interface{}{
				"status":     status,
				"handled_by": adminID,
				"handled_at": now,
				"notes":      notes,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrRedemptionProcessed
		}

		if refund {
			if err := tx.Model(&models.User{}).
				Where("id = ?", req.UserID).
				Update("ze_coins", gorm.Expr("ze_coins + ?", req.CostPaid)).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Reward{}).
				Where("id = ?", req.RewardID).
				Update("stock", gorm.Expr("stock + 1")).Error; err != nil {
				return err
			}
		}

		req.Status = status
		req.HandledBy = &adminID
		req.HandledAt = &now
		req.Notes = notes
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForUser returns a member's own redemption requests, newest first.
func (s *RedemptionService) ListRequestsForUser(userID string) ([]models.RedemptionRequest, error) {
	var requests []models.RedemptionRequest
	err := s.DB.Preload("Reward").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ListRequests returns the admin queue, optionally filtered by status.
func (s *RedemptionService) ListRequests(status models.RedemptionStatus) ([]models.RedemptionRequest, error) {
	query := s.DB.Preload("Reward").Preload("User").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.RedemptionRequest
	err := query.Find(&requests).Error
	return requests, err
}
