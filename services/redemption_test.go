package services

import (
	"context"
	"testing"

	"ze-club-system/models"

	"github.com/stretchr/testify/require"
)

// stubTopThree lets redemption tests control top-3 membership without Redis.
type stubTopThree struct {
	ids map[string]bool
}

func (s *stubTopThree) IsTopThree(_ context.Context, userID string) (bool, error) {
	return s.ids[userID], nil
}

func TestRedeemHappyPath(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	user := seedUser(t, db, 0, 100)
	reward := seedReward(t, db, 60, 3)

	req, err := svc.Redeem(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)
	require.Equal(t, models.RedemptionPending, req.Status)
	require.Equal(t, 60, req.CostPaid)
	require.False(t, req.Discounted)

	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, "id = ?", user.ID).Error)
	require.Equal(t, 40, reloadedUser.ZeCoins)

	var reloadedReward models.Reward
	require.NoError(t, db.First(&reloadedReward, "id = ?", reward.ID).Error)
	require.Equal(t, 2, reloadedReward.Stock)
}

func TestRedeemOutOfStock(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	user := seedUser(t, db, 0, 100)
	reward := seedReward(t, db, 10, 0)

	_, err := svc.Redeem(context.Background(), user.ID, reward.ID)
	require.ErrorIs(t, err, ErrOutOfStock)

	// Nothing was deducted.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.Equal(t, 100, reloaded.ZeCoins)
}

func TestRedeemInsufficientCoinsRollsBackStock(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	user := seedUser(t, db, 0, 5)
	reward := seedReward(t, db, 50, 2)

	_, err := svc.Redeem(context.Background(), user.ID, reward.ID)
	require.ErrorIs(t, err, ErrInsufficientCoins)

	// The stock decrement inside the failed transaction must not stick.
	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, "id = ?", reward.ID).Error)
	require.Equal(t, 2, reloaded.Stock)
}

func TestRedeemInactiveReward(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	user := seedUser(t, db, 0, 100)
	reward := seedReward(t, db, 10, 5)
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", reward.ID).Update("active", false).Error)

	_, err := svc.Redeem(context.Background(), user.ID, reward.ID)
	require.ErrorIs(t, err, ErrRewardInactive)
}

func TestRedeemRankGate(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	rookie := seedUser(t, db, 0, 1000)
	gladiator := seedUser(t, db, 300, 1000)

	reward := seedReward(t, db, 100, 5)
	required := "Gladiator"
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", reward.ID).Update("required_rank", required).Error)

	_, err := svc.Redeem(context.Background(), rookie.ID, reward.ID)
	require.ErrorIs(t, err, ErrRankTooLow)

	_, err = svc.Redeem(context.Background(), gladiator.ID, reward.ID)
	require.NoError(t, err)
}

func TestRedeemTopThreeExclusive(t *testing.T) {
	db := openTestDB(t)

	insider := seedUser(t, db, 500, 1000)
	outsider := seedUser(t, db, 500, 1000)
	svc := NewRedemptionService(db, &stubTopThree{ids: map[string]bool{insider.ID: true}})

	reward := seedReward(t, db, 100, 5)
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", reward.ID).Update("exclusive_to_top3", true).Error)

	_, err := svc.Redeem(context.Background(), outsider.ID, reward.ID)
	require.ErrorIs(t, err, ErrNotTopThree)

	_, err = svc.Redeem(context.Background(), insider.ID, reward.ID)
	require.NoError(t, err)
}

func TestRedeemDiscountForHighRanks(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	vanguard := seedUser(t, db, 600, 1000)
	reward := seedReward(t, db, 100, 5)
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", reward.ID).Update("discountable", true).Error)

	req, err := svc.Redeem(context.Background(), vanguard.ID, reward.ID)
	require.NoError(t, err)
	require.Equal(t, 90, req.CostPaid)
	require.True(t, req.Discounted)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", vanguard.ID).Error)
	require.Equal(t, 910, reloaded.ZeCoins)
}

func TestRejectRefundsExactCostAndStock(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	admin := seedUser(t, db, 0, 0)
	vanguard := seedUser(t, db, 600, 100)
	reward := seedReward(t, db, 100, 1)
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", reward.ID).Update("discountable", true).Error)

	req, err := svc.Redeem(context.Background(), vanguard.ID, reward.ID)
	require.NoError(t, err)
	require.Equal(t, 90, req.CostPaid)

	out, err := svc.Reject(req.ID, admin.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.RedemptionRejected, out.Status)

	// Refund is the discounted amount actually paid, not the list price.
	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, "id = ?", vanguard.ID).Error)
	require.Equal(t, 100, reloadedUser.ZeCoins)

	var reloadedReward models.Reward
	require.NoError(t, db.First(&reloadedReward, "id = ?", reward.ID).Error)
	require.Equal(t, 1, reloadedReward.Stock)
}

func TestFulfillOnlyOnce(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, nil)

	admin := seedUser(t, db, 0, 0)
	user := seedUser(t, db, 0, 100)
	reward := seedReward(t, db, 10, 5)

	req, err := svc.Redeem(context.Background(), user.ID, reward.ID)
	require.NoError(t, err)

	out, err := svc.Fulfill(req.ID, admin.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.RedemptionFulfilled, out.Status)
	require.Equal(t, admin.ID, *out.HandledBy)

	_, err = svc.Fulfill(req.ID, admin.ID, nil)
	require.ErrorIs(t, err, ErrRedemptionProcessed)
	_, err = svc.Reject(req.ID, admin.ID, nil)
	require.ErrorIs(t, err, ErrRedemptionProcessed)
}

func TestListForUserAnnotatesEligibility(t *testing.T) {
	db := openTestDB(t)
	svc := NewRedemptionService(db, &stubTopThree{})

	user := seedUser(t, db, 120, 50)

	affordable := seedReward(t, db, 40, 5)
	tooExpensive := seedReward(t, db, 500, 5)
	soldOut := seedReward(t, db, 10, 0)
	topOnly := seedReward(t, db, 10, 5)
	require.NoError(t, db.Model(&models.Reward{}).
		Where("id = ?", topOnly.ID).Update("exclusive_to_top3", true).Error)

	var member models.User
	require.NoError(t, db.First(&member, "id = ?", user.ID).Error)

	views, err := svc.ListForUser(context.Background(), &member)
	require.NoError(t, err)
	require.Len(t, views, 4)

	byID := make(map[string]RewardView, len(views))
	for _, v := range views {
		byID[v.Reward.ID] = v
	}

	require.True(t, byID[affordable.ID].CanAfford)
	require.True(t, byID[affordable.ID].Eligible)
	require.False(t, byID[tooExpensive.ID].CanAfford)
	require.False(t, byID[soldOut.ID].Eligible)
	require.False(t, byID[topOnly.ID].Eligible)
}
