package models

import (
	"time"

	"gorm.io/gorm"
)

// EventStatus indicates the publishing status of an event page.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// Event is a public event page (tournaments, watch parties, meetups).
// Scheduled events are auto-published by the scheduler once PublishAt passes.
type Event struct {
	ID            string      `gorm:"primaryKey;type:uuid" json:"id"`
	Title         string      `gorm:"not null" json:"title"`
	Slug          string      `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string      `gorm:"type:text" json:"description"`
	Location      string      `json:"location"`
	Game          string      `json:"game"`
	CoverImageURL string      `gorm:"type:text" json:"cover_image_url"`
	StartsAt      *time.Time  `json:"starts_at,omitempty"`
	EndsAt        *time.Time  `json:"ends_at,omitempty"`
	PublishAt     *time.Time  `json:"publish_at,omitempty"`
	Status        EventStatus `gorm:"not null;default:'draft';index" json:"status"`
	CreatedBy     string      `json:"created_by"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
