package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is the proof artifact filed for a task assignment.
// ReviewedAt is stamped exactly once; the review transition arbitrates
// duplicate review calls on it.
type Submission struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	TaskAssignmentID uint           `gorm:"not null;index" json:"task_assignment_id"`
	ScreenshotURL    string         `gorm:"size:512" json:"screenshot_url,omitempty"`
	Notes            string         `gorm:"type:text" json:"notes,omitempty"`
	SubmittedAt      time.Time      `gorm:"not null" json:"submitted_at"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	ReviewedBy       *uint          `json:"reviewed_by,omitempty"`
	Decision         string         `gorm:"size:20" json:"decision,omitempty"` // APPROVE | REJECT once reviewed
	DecisionNotes    string         `gorm:"type:text" json:"decision_notes,omitempty"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	TaskAssignment TaskAssignment `gorm:"foreignKey:TaskAssignmentID" json:"task_assignment,omitempty"`
}

func (Submission) TableName() string { return "submissions" }
