package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskAssignment is one user's attempt at one task.
// Lifecycle: PENDING -> SUBMITTED -> COMPLETED | REJECTED (terminal).
// PointsEarned is set exactly when the terminal state is COMPLETED and
// equals the task's point value at approval time.
//
// Open is set while the assignment is non-terminal and NULLed on the
// transition to COMPLETED or REJECTED. The unique index over
// (user_id, task_id, open) admits at most one open assignment per pair;
// NULLs don't collide, so any number of terminal attempts may accumulate.
type TaskAssignment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;uniqueIndex:uniq_open_assignment" json:"user_id"`
	TaskID       uint           `gorm:"not null;uniqueIndex:uniq_open_assignment" json:"task_id"`
	Open         *bool          `gorm:"uniqueIndex:uniq_open_assignment" json:"-"`
	Status       string         `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	PointsEarned *int64         `json:"points_earned,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (TaskAssignment) TableName() string { return "task_assignments" }
