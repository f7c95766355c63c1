package models

import (
	"time"

	"gorm.io/gorm"
)

// Reward is a catalog item redeemable with ZE Coins. Stock is decremented
// atomically with the creation of a RedemptionRequest.
type Reward struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:text" json:"image_url"`

	Cost  int `gorm:"not null" json:"cost"`
	Stock int `gorm:"default:0" json:"stock"`

	RequiredRank    *string `json:"required_rank,omitempty"` // minimum tier name, nil = any
	ExclusiveToTop3 bool    `gorm:"default:false" json:"exclusive_to_top3"`
	Discountable    bool    `gorm:"default:false" json:"discountable"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
