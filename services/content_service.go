package services

import (
	"errors"

	"ze-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrHeroMediaNotFound    = errors.New("hero media not found")
)

// ContentService manages announcements and the hero carousel.
type ContentService struct {
	DB *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{DB: db}
}

// --- Announcements ---

type AnnouncementInput struct {
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required"`
	Pinned *bool  `json:"pinned"`
	Active *bool  `json:"active"`
}

func (s *ContentService) CreateAnnouncement(in AnnouncementInput, adminID string) (*models.Announcement, error) {
	a := &models.Announcement{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Body:      in.Body,
		Active:    true,
		CreatedBy: adminID,
	}
	if in.Pinned != nil {
		a.Pinned = *in.Pinned
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.DB.Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ContentService) UpdateAnnouncement(id string, in AnnouncementInput) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.DB.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	if in.Title != "" {
		a.Title = in.Title
	}
	if in.Body != "" {
		a.Body = in.Body
	}
	if in.Pinned != nil {
		a.Pinned = *in.Pinned
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.DB.Save(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ContentService) DeleteAnnouncement(id string) error {
	res := s.DB.Delete(&models.Announcement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

// ListAnnouncements returns the public feed, pinned posts first.
func (s *ContentService) ListAnnouncements() ([]models.Announcement, error) {
	var items []models.Announcement
	err := s.DB.Where("active = ?", true).
		Order("pinned DESC, created_at DESC").
		Find(&items).Error
	return items, err
}

// ListAllAnnouncements returns everything for the admin back-office.
func (s *ContentService) ListAllAnnouncements() ([]models.Announcement, error) {
	var items []models.Announcement
	err := s.DB.Order("created_at DESC").Find(&items).Error
	return items, err
}

// --- Hero media ---

type HeroMediaInput struct {
	Kind      string `json:"kind" validate:"required,oneof=image video"`
	Headline  string `json:"headline"`
	SortOrder *int   `json:"sort_order"`
	Active    *bool  `json:"active"`
}

func (s *ContentService) CreateHeroMedia(in HeroMediaInput, url, adminID string) (*models.HeroMedia, error) {
	h := &models.HeroMedia{
		ID:        uuid.NewString(),
		Kind:      models.HeroMediaKind(in.Kind),
		URL:       url,
		Headline:  in.Headline,
		Active:    true,
		CreatedBy: adminID,
	}
	if in.SortOrder != nil {
		h.SortOrder = *in.SortOrder
	}
	if in.Active != nil {
		h.Active = *in.Active
	}
	if err := s.DB.Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func (s *ContentService) UpdateHeroMedia(id string, in HeroMediaInput) (*models.HeroMedia, error) {
	var h models.HeroMedia
	if err := s.DB.First(&h, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHeroMediaNotFound
		}
		return nil, err
	}
	if in.Kind != "" {
		h.Kind = models.HeroMediaKind(in.Kind)
	}
	if in.Headline != "" {
		h.Headline = in.Headline
	}
	if in.SortOrder != nil {
		h.SortOrder = *in.SortOrder
	}
	if in.Active != nil {
		h.Active = *in.Active
	}
	if err := s.DB.Save(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *ContentService) DeleteHeroMedia(id string) error {
	res := s.DB.Delete(&models.HeroMedia{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHeroMediaNotFound
	}
	return nil
}

// ListHeroMedia returns the active carousel in display order.
func (s *ContentService) ListHeroMedia() ([]models.HeroMedia, error) {
	var items []models.HeroMedia
	err := s.DB.Where("active = ?", true).
		Order("sort_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}
