package services

import (
	"errors"

	"ze-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// UserService manages club member records and the dashboard view.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// EnsureUser returns the member record for a gateway identity, creating it
// on first contact (idempotent).
func (s *UserService) EnsureUser(discordID, username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("discord_id = ?", discordID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		ID:        uuid.NewString(),
		DiscordID: discordID,
		Username:  username,
		Role:      models.RoleMember,
	}
	user.ApplyRankFields()
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a member by primary key.
func (s *UserService) GetByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Dashboard is the club landing payload: balance plus the derived rank view.
type Dashboard struct {
	ZeCoins            int    `json:"ze_coins"`
	Experience         int    `json:"experience"`
	Rank               string `json:"rank"`
	RankIcon           string `json:"rank_icon"`
	ProgressToNextRank int    `json:"progress_to_next_rank"`
	NextRankPoints     int    `json:"next_rank_points"`
	CurrentRankPoints  int    `json:"current_rank_points"`
}

// GetDashboard recomputes the rank view from live experience rather than
// trusting the cached columns.
func (s *UserService) GetDashboard(userID string) (*Dashboard, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	p := models.RankProgressFor(user.Experience)
	return &Dashboard{
		ZeCoins:            user.ZeCoins,
		Experience:         user.Experience,
		Rank:               p.Rank,
		RankIcon:           p.RankIcon,
		ProgressToNextRank: p.Progress,
		NextRankPoints:     p.NextRankPoints,
		CurrentRankPoints:  p.CurrentRankPoints,
	}, nil
}

// SetRole changes a member's role (admin back-office).
func (s *UserService) SetRole(userID string, role models.UserRole) (*models.User, error) {
	if role != models.RoleMember && role != models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// List returns a paginated member roster for the admin back-office.
func (s *UserService) List(page, size int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := s.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.DB.Order("experience DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&users).Error
	return users, total, err
}
