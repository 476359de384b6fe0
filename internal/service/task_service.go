package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"rewardly/internal/domain"
	"rewardly/internal/models"
	"rewardly/internal/repository"

	"gorm.io/gorm"
)

// TaskService runs the task workflow state machine:
// PENDING -> SUBMITTED -> {COMPLETED, REJECTED}. Every state-mutating step is
// a guarded UPDATE inside a transaction, so duplicate or racing calls resolve
// deterministically against exactly one winner and points are credited once.
type TaskService struct {
	db       *gorm.DB
	taskRepo *repository.TaskRepository
	accounts *repository.AccountRepository
}

func NewTaskService(db *gorm.DB, taskRepo *repository.TaskRepository, accounts *repository.AccountRepository) *TaskService {
	return &TaskService{db: db, taskRepo: taskRepo, accounts: accounts}
}

// StartTask creates a PENDING assignment for the (user, task) pair. A
// non-terminal assignment already in flight fails with ErrAlreadyStarted;
// a COMPLETED or REJECTED one does not block a fresh attempt.
func (s *TaskService) StartTask(userID, taskID uint) (*models.TaskAssignment, error) {
	task, err := s.taskRepo.GetTask(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !task.Active {
		return nil, domain.ErrTaskInactive
	}
	if _, err := s.taskRepo.FindOpenAssignment(userID, taskID); err == nil {
		return nil, domain.ErrAlreadyStarted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	open := true
	a := &models.TaskAssignment{
		UserID: userID,
		TaskID: taskID,
		Status: domain.AssignmentPending,
		Open:   &open,
	}
	if err := s.db.Create(a).Error; err != nil {
		// The unique index on (user_id, task_id, open) resolves the race
		// between two concurrent starts; the loser lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyStarted
		}
		return nil, err
	}
	return a, nil
}

// SubmitTask files a proof artifact and moves the assignment to SUBMITTED.
// Only valid from PENDING; tasks that require media reject an empty
// screenshot before any state changes.
func (s *TaskService) SubmitTask(assignmentID uint, screenshotURL, notes string) (*models.Submission, error) {
	var sub *models.Submission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var a models.TaskAssignment
		if err := tx.First(&a, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if a.Status != domain.AssignmentPending {
			return domain.ErrInvalidState
		}
		var task models.Task
		if err := tx.First(&task, a.TaskID).Error; err != nil {
			return err
		}
		if task.RequiredMedia && screenshotURL == "" {
			return domain.ErrMissingRequiredMedia
		}
		sub = &models.Submission{
			TaskAssignmentID: a.ID,
			ScreenshotURL:    screenshotURL,
			Notes:            notes,
			SubmittedAt:      time.Now(),
		}
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		// Guarded transition: a concurrent submit for the same assignment
		// matches no row and loses.
		res := tx.Model(&models.TaskAssignment{}).
			Where("id = ? AND status = ?", a.ID, domain.AssignmentPending).
			Update("status", domain.AssignmentSubmitted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ReviewOutcome is the result of an admin decision on a submission.
type ReviewOutcome struct {
	State        string `json:"state"`
	PointsEarned *int64 `json:"points_earned,omitempty"`
}

// ReviewSubmission applies an admin decision exactly once. The guarded
// reviewed_at IS NULL update arbitrates duplicate or racing review calls;
// the loser sees ErrAlreadyReviewed and no balance change. Approval credits
// the task's point value as of approval time.
func (s *TaskService) ReviewSubmission(submissionID uint, decision string, reviewerID uint, notes string) (*ReviewOutcome, error) {
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidState, decision)
	}
	out := &ReviewOutcome{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.Submission
		if err := tx.First(&sub, submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		now := time.Now()
		res := tx.Model(&models.Submission{}).
			Where("id = ? AND reviewed_at IS NULL", submissionID).
			Updates(map[string]interface{}{
				"reviewed_at":    now,
				"reviewed_by":    reviewerID,
				"decision":       decision,
				"decision_notes": notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyReviewed
		}

		var a models.TaskAssignment
		if err := tx.First(&a, sub.TaskAssignmentID).Error; err != nil {
			return err
		}
		if decision == domain.DecisionReject {
			resA := tx.Model(&models.TaskAssignment{}).
				Where("id = ? AND status = ?", a.ID, domain.AssignmentSubmitted).
				Updates(map[string]interface{}{
					"status": domain.AssignmentRejected,
					"open":   nil,
				})
			if resA.Error != nil {
				return resA.Error
			}
			if resA.RowsAffected == 0 {
				return domain.ErrInvalidState
			}
			out.State = domain.AssignmentRejected
			return nil
		}

		var task models.Task
		if err := tx.First(&task, a.TaskID).Error; err != nil {
			return err
		}
		earned := task.Points
		resA := tx.Model(&models.TaskAssignment{}).
			Where("id = ? AND status = ?", a.ID, domain.AssignmentSubmitted).
			Updates(map[string]interface{}{
				"status":        domain.AssignmentCompleted,
				"points_earned": earned,
				"completed_at":  now,
				"open":          nil,
			})
		if resA.Error != nil {
			return resA.Error
		}
		if resA.RowsAffected == 0 {
			return domain.ErrInvalidState
		}
		if err := s.accounts.Credit(tx, a.UserID, earned, domain.PointsTxTaskReward,
			fmt.Sprintf("assignment_%d", a.ID)); err != nil {
			return err
		}
		out.State = domain.AssignmentCompleted
		out.PointsEarned = &earned
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[review] submission %d %s by admin %d", submissionID, decision, reviewerID)
	return out, nil
}

// CompleteTask finishes an AUTOMATIC-verification assignment directly from
// PENDING. Idempotent: a repeat call on a COMPLETED assignment reports the
// prior points without a second credit. Only the caller that wins the
// guarded PENDING -> COMPLETED transition credits the account.
func (s *TaskService) CompleteTask(assignmentID uint) (int64, error) {
	var earned int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var a models.TaskAssignment
		if err := tx.First(&a, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var task models.Task
		if err := tx.First(&task, a.TaskID).Error; err != nil {
			return err
		}
		if task.VerificationType != domain.VerificationAutomatic {
			return domain.ErrInvalidState
		}
		res := tx.Model(&models.TaskAssignment{}).
			Where("id = ? AND status = ?", a.ID, domain.AssignmentPending).
			Updates(map[string]interface{}{
				"status":        domain.AssignmentCompleted,
				"points_earned": task.Points,
				"completed_at":  time.Now(),
				"open":          nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Repeat call (or lost race): report the prior outcome.
			if err := tx.First(&a, assignmentID).Error; err != nil {
				return err
			}
			if a.Status == domain.AssignmentCompleted && a.PointsEarned != nil {
				earned = *a.PointsEarned
				return nil
			}
			return domain.ErrInvalidState
		}
		earned = task.Points
		return s.accounts.Credit(tx, a.UserID, earned, domain.PointsTxTaskReward,
			fmt.Sprintf("assignment_%d", a.ID))
	})
	if err != nil {
		return 0, err
	}
	return earned, nil
}
