package models

import (
	"time"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionRejected  RedemptionStatus = "rejected"
)

// RedemptionRequest records a member spending coins on a reward. CostPaid is
// the amount actually deducted (after any discount) so a rejection can refund
// exactly what was taken.
type RedemptionRequest struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"index;not null" json:"user_id"`
	RewardID string `gorm:"index;not null" json:"reward_id"`

	CostPaid   int              `gorm:"not null" json:"cost_paid"`
	Discounted bool             `gorm:"default:false" json:"discounted"`
	Status     RedemptionStatus `gorm:"not null;default:'pending';index" json:"status"`
	Notes      *string          `gorm:"type:text" json:"notes,omitempty"`

	HandledBy *string    `json:"handled_by,omitempty"`
	HandledAt *time.Time `json:"handled_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}
