package repository

import (
	"rewardly/internal/domain"
	"rewardly/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetTask(id uint) (*models.Task, error) {
	var t models.Task
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListActiveTasks(limit, offset int) ([]models.Task, error) {
	var list []models.Task
	err := r.db.Where("active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TaskRepository) GetAssignment(id uint) (*models.TaskAssignment, error) {
	var a models.TaskAssignment
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOpenAssignment returns the non-terminal assignment for a (user, task)
// pair, if any. Terminal assignments don't block a fresh start.
func (r *TaskRepository) FindOpenAssignment(userID, taskID uint) (*models.TaskAssignment, error) {
	var a models.TaskAssignment
	err := r.db.Where("user_id = ? AND task_id = ? AND status IN ?",
		userID, taskID, []string{domain.AssignmentPending, domain.AssignmentSubmitted}).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *TaskRepository) ListAssignmentsByUser(userID uint, limit, offset int) ([]models.TaskAssignment, error) {
	var list []models.TaskAssignment
	err := r.db.Where("user_id = ?", userID).
		Preload("Task").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TaskRepository) GetSubmission(id uint) (*models.Submission, error) {
	var s models.Submission
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListPendingSubmissions returns unreviewed submissions for the admin queue,
// oldest first, with the assignment and task preloaded.
func (r *TaskRepository) ListPendingSubmissions(limit, offset int) ([]models.Submission, error) {
	var list []models.Submission
	err := r.db.Where("reviewed_at IS NULL").
		Preload("TaskAssignment").
		Preload("TaskAssignment.Task").
		Order("submitted_at ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
