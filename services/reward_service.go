package services

import (
	"errors"

	"ze-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardService is the admin back-office side of the rewards catalog.
// Member-facing listing and spending live in RedemptionService.
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// RewardInput is the typed configuration for creating or updating a reward.
type RewardInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image_url"`
	Cost            int     `json:"cost" validate:"required,min=1"`
	Stock           *int    `json:"stock" validate:"omitempty,min=0"`
	RequiredRank    *string `json:"required_rank" validate:"omitempty,oneof=Rookie Contender Gladiator Vanguard 'Errorless Legend'"`
	ExclusiveToTop3 *bool   `json:"exclusive_to_top3"`
	Discountable    *bool   `json:"discountable"`
	Active          *bool   `json:"active"`
}

func (s *RewardService) Create(in RewardInput) (*models.Reward, error) {
	reward := &models.Reward{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Cost:         in.Cost,
		RequiredRank: in.RequiredRank,
		Active:       true,
	}
	if in.Stock != nil {
		reward.Stock = *in.Stock
	}
	if in.ExclusiveToTop3 != nil {
		reward.ExclusiveToTop3 = *in.ExclusiveToTop3
	}
	if in.Discountable != nil {
		reward.Discountable = *in.Discountable
	}
	if in.Active != nil {
		reward.Active = *in.Active
	}

	if err := s.DB.Create(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

func (s *RewardService) Update(rewardID string, in RewardInput) (*models.Reward, error) {
	var reward models.Reward
	if err := s.DB.First(&reward, "id = ?", rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}

	if in.Title != "" {
		reward.Title = in.Title
	}
	if in.Description != "" {
		reward.Description = in.Description
	}
	if in.ImageURL != "" {
		reward.ImageURL = in.ImageURL
	}
	if in.Cost > 0 {
		reward.Cost = in.Cost
	}
	if in.Stock != nil {
		reward.Stock = *in.Stock
	}
	if in.RequiredRank != nil {
		reward.RequiredRank = in.RequiredRank
	}
	if in.ExclusiveToTop3 != nil {
		reward.ExclusiveToTop3 = *in.ExclusiveToTop3
	}
	if in.Discountable != nil {
		reward.Discountable = *in.Discountable
	}
	if in.Active != nil {
		reward.Active = *in.Active
	}

	if err := s.DB.Save(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// Deactivate pulls a reward from the catalog without touching past
// redemptions.
func (s *RewardService) Deactivate(rewardID string) error {
	res := s.DB.Model(&models.Reward{}).
		Where("id = ?", rewardID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// ListAll returns the full catalog including inactive rewards (admin view).
func (s *RewardService) ListAll() ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.DB.Order("created_at DESC").Find(&rewards).Error
	return rewards, err
}
