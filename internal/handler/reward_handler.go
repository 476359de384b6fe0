package handler

import (
	"net/http"
	"strconv"

	"rewardly/internal/middleware"
	"rewardly/internal/repository"
	"rewardly/internal/service"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	redemptionSvc *service.RedemptionService
	rewardRepo    *repository.RewardRepository
}

func NewRewardHandler(redemptionSvc *service.RedemptionService, rewardRepo *repository.RewardRepository) *RewardHandler {
	return &RewardHandler{redemptionSvc: redemptionSvc, rewardRepo: rewardRepo}
}

// List returns active rewards, cheapest first.
// GET /rewards
func (h *RewardHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	rewards, err := h.rewardRepo.ListActive(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rewards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// Redeem exchanges points for a reward.
// POST /rewards/:id/redeem
func (h *RewardHandler) Redeem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}
	res, err := h.redemptionSvc.Redeem(userID, uint(rewardID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine returns the authenticated user's redemption history.
// GET /me/redemptions
func (h *RewardHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.rewardRepo.ListRedemptionsByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list redemptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": list})
}
