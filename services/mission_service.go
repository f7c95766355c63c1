package services

import (
	"errors"
	"time"

	"ze-club-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MissionService is the admin back-office side of missions. Member-facing
// listing and intake live in SubmissionService.
type MissionService struct {
	DB *gorm.DB
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{DB: db}
}

// MissionInput is the typed configuration for creating or updating a
// mission; pointer fields are optional and left untouched when nil on
// update.
type MissionInput struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"image_url"`
	Points         int        `json:"points" validate:"required,min=1"`
	Active         *bool      `json:"active"`
	Featured       *bool      `json:"featured"`
	IsTimeLimited  *bool      `json:"is_time_limited"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	DaysAvailable  *int       `json:"days_available" validate:"omitempty,min=1"`
	MaxCompletions *int       `json:"max_completions" validate:"omitempty,min=1"`
}

// Create builds a mission with a unique slug derived from the title.
func (s *MissionService) Create(in MissionInput) (*models.Mission, error) {
	mission := &models.Mission{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        s.uniqueSlug(in.Title),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Points:      in.Points,
		Active:      true,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if in.Active != nil {
		mission.Active = *in.Active
	}
	if in.Featured != nil {
		mission.Featured = *in.Featured
	}
	if in.IsTimeLimited != nil {
		mission.IsTimeLimited = *in.IsTimeLimited
	}
	mission.DaysAvailable = in.DaysAvailable
	mission.MaxCompletions = in.MaxCompletions

	if err := s.DB.Create(mission).Error; err != nil {
		return nil, err
	}
	return mission, nil
}

// Update applies the provided fields to an existing mission.
func (s *MissionService) Update(missionID string, in MissionInput) (*models.Mission, error) {
	var mission models.Mission
	if err := s.DB.First(&mission, "id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	if in.Title != "" && in.Title != mission.Title {
		mission.Title = in.Title
		mission.Slug = s.uniqueSlug(in.Title)
	}
	if in.Description != "" {
		mission.Description = in.Description
	}
	if in.ImageURL != "" {
		mission.ImageURL = in.ImageURL
	}
	if in.Points > 0 {
		mission.Points = in.Points
	}
	if in.Active != nil {
		mission.Active = *in.Active
	}
	if in.Featured != nil {
		mission.Featured = *in.Featured
	}
	if in.IsTimeLimited != nil {
		mission.IsTimeLimited = *in.IsTimeLimited
	}
	if in.StartDate != nil {
		mission.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		mission.EndDate = in.EndDate
	}
	if in.DaysAvailable != nil {
		mission.DaysAvailable = in.DaysAvailable
	}
	if in.MaxCompletions != nil {
		mission.MaxCompletions = in.MaxCompletions
	}

	if err := s.DB.Save(&mission).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

// Deactivate soft-deletes a mission: it disappears from the club area but
// approved submissions keep pointing at it.
func (s *MissionService) Deactivate(missionID, adminID string) (*models.Mission, error) {
	var mission models.Mission
	if err := s.DB.First(&mission, "id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	mission.Active = false
	mission.DeactivatedAt = &now
	mission.DeactivatedBy = &adminID
	if err := s.DB.Save(&mission).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

// ListAll returns every mission including deactivated ones (admin view).
func (s *MissionService) ListAll() ([]models.Mission, error) {
	var missions []models.Mission
	err := s.DB.Order("created_at DESC").Find(&missions).Error
	return missions, err
}

// uniqueSlug appends a short id suffix when the natural slug is taken.
func (s *MissionService) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	s.DB.Model(&models.Mission{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}
