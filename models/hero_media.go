package models

import (
	"time"

	"gorm.io/gorm"
)

type HeroMediaKind string

const (
	HeroMediaImage HeroMediaKind = "image"
	HeroMediaVideo HeroMediaKind = "video"
)

// HeroMedia is an entry in the landing-page hero carousel. Files are stored
// in R2 with a local-disk fallback; URL points at wherever the upload landed.
type HeroMedia struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	Kind      HeroMediaKind `gorm:"not null" json:"kind"`
	URL       string        `gorm:"type:text;not null" json:"url"`
	Headline  string        `json:"headline"`
	SortOrder int           `gorm:"default:0;index" json:"sort_order"`
	Active    bool          `gorm:"default:true" json:"active"`
	CreatedBy string        `json:"created_by"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
