package models

import (
	"time"
)

// SubmissionStatus is the lifecycle state of a mission submission.
// pending -> approved | rejected; approved -> reverted. Rejected and
// reverted rows do not block resubmission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
	SubmissionReverted SubmissionStatus = "reverted"
)

// MissionSubmission is a member's proof-of-completion record for a mission.
// At most one pending or approved row may exist per (user, mission) pair;
// that invariant lives in a partial unique index created by Migrate, not in
// application code.
type MissionSubmission struct {
	ID        string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string           `gorm:"index;not null" json:"user_id"`
	MissionID string           `gorm:"index;not null" json:"mission_id"`
	ProofURL  string           `gorm:"type:text" json:"proof_url"`
	Note      string           `gorm:"type:text" json:"note"`
	Status    SubmissionStatus `gorm:"not null;default:'pending';index" json:"status"`

	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	RejectedBy *string    `json:"rejected_by,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`

	RevertedBy   *string    `json:"reverted_by,omitempty"`
	RevertedAt   *time.Time `json:"reverted_at,omitempty"`
	RevertReason *string    `json:"revert_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Mission *Mission `gorm:"foreignKey:MissionID" json:"mission,omitempty"`
}
