package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is a short news post shown on the site and in the club area.
type Announcement struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	Pinned    bool   `gorm:"default:false;index" json:"pinned"`
	Active    bool   `gorm:"default:true" json:"active"`
	CreatedBy string `json:"created_by"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
