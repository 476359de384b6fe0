package handler

import (
	"net/http"
	"strconv"
	"strings"

	"rewardly/internal/middleware"
	"rewardly/internal/repository"
	"rewardly/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the review gateway: authenticated admin operations feeding
// decisions into the task workflow, plus settings management.
type AdminHandler struct {
	taskSvc     *service.TaskService
	taskRepo    *repository.TaskRepository
	settingRepo *repository.SettingRepository
}

func NewAdminHandler(taskSvc *service.TaskService, taskRepo *repository.TaskRepository, settingRepo *repository.SettingRepository) *AdminHandler {
	return &AdminHandler{taskSvc: taskSvc, taskRepo: taskRepo, settingRepo: settingRepo}
}

// ListSubmissions returns the unreviewed submission queue, oldest first.
// GET /admin/submissions
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.taskRepo.ListPendingSubmissions(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": list})
}

type reviewRequest struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes"`
}

// Review applies an approve/reject decision to a submission. A duplicate
// click or retried call gets ALREADY_REVIEWED and changes nothing.
// POST /admin/submissions/:id/review
func (h *AdminHandler) Review(c *gin.Context) {
	reviewerID := middleware.GetUserID(c)
	submissionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decision := strings.ToUpper(strings.TrimSpace(req.Decision))
	out, err := h.taskSvc.ReviewSubmission(uint(submissionID), decision, reviewerID, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetSettings returns all system settings.
// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

type updateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// UpdateSetting upserts a setting value (e.g. referral bonus points).
// PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}
