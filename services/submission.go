package services

import (
	"errors"
	"strings"
	"time"

	"ze-club-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMissionNotFound     = errors.New("mission not found")
	ErrDuplicateSubmission = errors.New("an open submission already exists for this mission")
)

// SubmissionService handles member-facing mission listing and submission
// intake. Duplicate prevention is delegated to the partial unique index on
// mission_submissions; this service only translates the violation.
type SubmissionService struct {
	DB *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{DB: db}
}

// MissionView is a mission annotated for the requesting member.
type MissionView struct {
	models.Mission
	IsAvailable bool `json:"is_available"`
	IsCompleted bool `json:"is_completed"`
	IsPending   bool `json:"is_pending"`
}

// Submit creates a pending submission after re-checking availability at
// submission time (the mission may have expired or filled since listing).
func (s *SubmissionService) Submit(userID, missionID, proofURL, note string) (*models.MissionSubmission, error) {
	var mission models.Mission
	if err := s.DB.First(&mission, "id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	if !mission.IsAvailableAt(time.Now().UTC()) {
		return nil, ErrMissionUnavailable
	}

	sub := &models.MissionSubmission{
		ID:        uuid.NewString(),
		UserID:    userID,
		MissionID: missionID,
		ProofURL:  proofURL,
		Note:      note,
		Status:    models.SubmissionPending,
	}
	if err := s.DB.Create(sub).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, err
	}
	return sub, nil
}

// ListForUser returns every non-deactivated mission annotated with the
// requesting member's availability and submission state, featured first.
func (s *SubmissionService) ListForUser(userID string) ([]MissionView, error) {
	var missions []models.Mission
	if err := s.DB.Where("deactivated_at IS NULL").
		Order("featured DESC, created_at DESC").
		Find(&missions).Error; err != nil {
		return nil, err
	}

	var subs []models.MissionSubmission
	if err := s.DB.Where("user_id = ? AND status IN ?", userID,
		[]models.SubmissionStatus{models.SubmissionPending, models.SubmissionApproved}).
		Find(&subs).Error; err != nil {
		return nil, err
	}

	pending := make(map[string]bool, len(subs))
	completed := make(map[string]bool, len(subs))
	for _, sub := range subs {
		switch sub.Status {
		case models.SubmissionPending:
			pending[sub.MissionID] = true
		case models.SubmissionApproved:
			completed[sub.MissionID] = true
		}
	}

	now := time.Now().UTC()
	views := make([]MissionView, 0, len(missions))
	for _, m := range missions {
		views = append(views, MissionView{
			Mission:     m,
			IsAvailable: m.IsAvailableAt(now) && !pending[m.ID] && !completed[m.ID],
			IsCompleted: completed[m.ID],
			IsPending:   pending[m.ID],
		})
	}
	return views, nil
}

// ListSubmissionsForUser returns a member's own submission history.
func (s *SubmissionService) ListSubmissionsForUser(userID string) ([]models.MissionSubmission, error) {
	var subs []models.MissionSubmission
	err := s.DB.Preload("Mission").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// ListByStatus returns submissions for the admin review queue.
func (s *SubmissionService) ListByStatus(status models.SubmissionStatus, page, size int) ([]models.MissionSubmission, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	query := s.DB.Model(&models.MissionSubmission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.MissionSubmission
	err := query.Preload("Mission").Preload("User").
		Order("created_at ASC").
		Limit(size).Offset((page - 1) * size).
		Find(&subs).Error
	return subs, total, err
}

// isUniqueViolation matches the unique-index error across Postgres (prod)
// and SQLite (tests).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
