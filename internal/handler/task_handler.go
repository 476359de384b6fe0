package handler

import (
	"net/http"
	"strconv"

	"rewardly/internal/middleware"
	"rewardly/internal/repository"
	"rewardly/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskSvc  *service.TaskService
	taskRepo *repository.TaskRepository
}

func NewTaskHandler(taskSvc *service.TaskService, taskRepo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc, taskRepo: taskRepo}
}

// List returns active tasks.
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	tasks, err := h.taskRepo.ListActiveTasks(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Start creates a PENDING assignment for the authenticated user.
// POST /tasks/:id/start
func (h *TaskHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	a, err := h.taskSvc.StartTask(userID, uint(taskID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment_id": a.ID, "state": a.Status})
}

type submitRequest struct {
	ScreenshotURL string `json:"screenshot_url"`
	Notes         string `json:"notes"`
}

// Submit files proof for an assignment.
// POST /assignments/:id/submit
func (h *TaskHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}
	if !h.ownsAssignment(c, userID, uint(assignmentID)) {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.taskSvc.SubmitTask(uint(assignmentID), req.ScreenshotURL, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission_id": sub.ID})
}

// Complete finishes an automatic-verification assignment. Safe to retry:
// a repeat reports the prior outcome without a second credit.
// POST /assignments/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}
	if !h.ownsAssignment(c, userID, uint(assignmentID)) {
		return
	}
	earned, err := h.taskSvc.CompleteTask(uint(assignmentID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points_earned": earned})
}

// ListMine returns the authenticated user's assignments with tasks preloaded.
// GET /me/assignments
func (h *TaskHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.taskRepo.ListAssignmentsByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list})
}

// ownsAssignment rejects calls against another user's assignment.
func (h *TaskHandler) ownsAssignment(c *gin.Context, userID, assignmentID uint) bool {
	a, err := h.taskRepo.GetAssignment(assignmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found", "code": "NOT_FOUND"})
		return false
	}
	if a.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your assignment"})
		return false
	}
	return true
}
