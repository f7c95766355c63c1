package models

import (
	"time"

	"gorm.io/gorm"
)

// Mission is a club task carrying a point award and an availability window.
// Missions are soft-deactivated (DeactivatedAt/DeactivatedBy) rather than
// physically deleted so approved submissions keep a valid reference.
type Mission struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:text" json:"image_url"`
	Points      int    `gorm:"not null" json:"points"`

	Active   bool `gorm:"default:true" json:"active"`
	Featured bool `gorm:"default:false" json:"featured"`

	IsTimeLimited bool       `gorm:"default:false" json:"is_time_limited"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	DaysAvailable *int       `json:"days_available,omitempty"`

	MaxCompletions     *int `json:"max_completions,omitempty"` // nil = unlimited
	CurrentCompletions int  `gorm:"default:0" json:"current_completions"`

	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	DeactivatedBy *string    `json:"deactivated_by,omitempty"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WindowEnd resolves the end of the availability window: an explicit EndDate
// wins, otherwise StartDate+DaysAvailable, otherwise the window never closes.
func (m *Mission) WindowEnd() *time.Time {
	if m.EndDate != nil {
		return m.EndDate
	}
	if m.StartDate != nil && m.DaysAvailable != nil {
		end := m.StartDate.AddDate(0, 0, *m.DaysAvailable)
		return &end
	}
	return nil
}

// IsAvailableAt reports whether the mission accepts submissions at t.
// Callers must re-check this at submission time, not only when listing.
func (m *Mission) IsAvailableAt(t time.Time) bool {
	if !m.Active || m.DeactivatedAt != nil {
		return false
	}
	if m.IsTimeLimited {
		if m.StartDate != nil && t.Before(*m.StartDate) {
			return false
		}
		if end := m.WindowEnd(); end != nil && t.After(*end) {
			return false
		}
	}
	if m.MaxCompletions != nil && m.CurrentCompletions >= *m.MaxCompletions {
		return false
	}
	return true
}
