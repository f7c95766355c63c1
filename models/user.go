package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User is a club member. Experience is monotonically non-decreasing under
// normal operation and is the sole determinant of Rank; ZeCoins is the
// spendable balance. Points mirrors Experience for older clients.
type User struct {
	ID        string   `gorm:"primaryKey;type:uuid" json:"id"`
	DiscordID string   `gorm:"uniqueIndex;not null" json:"discord_id"`
	Username  string   `gorm:"index;not null" json:"username"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
	Role      UserRole `gorm:"not null;default:'member'" json:"role"`

	ZeCoins    int `gorm:"default:0" json:"ze_coins"`
	Experience int `gorm:"default:0;index" json:"experience"`
	Points     int `gorm:"default:0" json:"points"` // legacy, kept in sync with Experience

	// Cached rank fields, recomputed whenever Experience changes.
	Rank               string `gorm:"default:'Rookie'" json:"rank"`
	RankIcon           string `json:"rank_icon"`
	ProgressToNextRank int    `json:"progress_to_next_rank"`
	NextRankPoints     int    `json:"next_rank_points"`
	CurrentRankPoints  int    `json:"current_rank_points"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplyRankFields recomputes the cached rank columns from Experience.
func (u *User) ApplyRankFields() {
	p := RankProgressFor(u.Experience)
	u.Rank = p.Rank
	u.RankIcon = p.RankIcon
	u.ProgressToNextRank = p.Progress
	u.NextRankPoints = p.NextRankPoints
	u.CurrentRankPoints = p.CurrentRankPoints
}
