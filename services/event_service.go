package services

import (
	"errors"
	"time"

	"ze-club-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

// EventService manages public event pages.
type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// EventInput is the typed configuration for creating or updating an event.
type EventInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Game        string     `json:"game"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	PublishAt   *time.Time `json:"publish_at"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published archived"`
}

func (s *EventService) Create(in EventInput, adminID string) (*models.Event, error) {
	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        s.uniqueSlug(in.Title),
		Description: in.Description,
		Location:    in.Location,
		Game:        in.Game,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		PublishAt:   in.PublishAt,
		Status:      models.EventStatusDraft,
		CreatedBy:   adminID,
	}
	if in.Status != "" {
		event.Status = models.EventStatus(in.Status)
	}
	if err := s.DB.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Update(eventID string, in EventInput) (*models.Event, error) {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if in.Title != "" && in.Title != event.Title {
		event.Title = in.Title
		event.Slug = s.uniqueSlug(in.Title)
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if in.Location != "" {
		event.Location = in.Location
	}
	if in.Game != "" {
		event.Game = in.Game
	}
	if in.StartsAt != nil {
		event.StartsAt = in.StartsAt
	}
	if in.EndsAt != nil {
		event.EndsAt = in.EndsAt
	}
	if in.PublishAt != nil {
		event.PublishAt = in.PublishAt
	}
	if in.Status != "" {
		event.Status = models.EventStatus(in.Status)
	}

	if err := s.DB.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// SetCoverImage stores the uploaded cover URL on the event.
func (s *EventService) SetCoverImage(eventID, url string) (*models.Event, error) {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	event.CoverImageURL = url
	if err := s.DB.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Archive retires an event from the public site.
func (s *EventService) Archive(eventID string) error {
	res := s.DB.Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("status", models.EventStatusArchived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListPublished returns the public event feed, soonest first.
func (s *EventService) ListPublished() ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Where("status = ?", models.EventStatusPublished).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

// GetBySlug returns one published event for its public page.
func (s *EventService) GetBySlug(eventSlug string) (*models.Event, error) {
	var event models.Event
	err := s.DB.Where("slug = ? AND status = ?", eventSlug, models.EventStatusPublished).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListAll returns every event for the admin back-office.
func (s *EventService) ListAll() ([]models.Event, error) {
	var events []models.Event
	err := s.DB.Order("created_at DESC").Find(&events).Error
	return events, err
}

func (s *EventService) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	s.DB.Model(&models.Event{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}
