package handler

import (
	"net/http"
	"strconv"

	"rewardly/internal/middleware"
	"rewardly/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
}

func NewReferralHandler(referralSvc *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// GetMyCode returns the authenticated user's referral code, creating one if
// it doesn't exist yet.
// GET /me/referral-code
func (h *ReferralHandler) GetMyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rc, err := h.referralSvc.GetOrCreateCode(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get referral code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":       rc.Code,
		"created_at": rc.CreatedAt,
	})
}

type applyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCode applies someone else's referral code on behalf of the
// authenticated user. One lifetime application per user.
// POST /me/referral-code/apply
func (h *ReferralHandler) ApplyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req applyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.referralSvc.ApplyCode(userID, req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine returns the users the authenticated user has referred.
// GET /me/referrals
func (h *ReferralHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	referrals, err := h.referralSvc.ListReferrals(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list referrals"})
		return
	}
	out := make([]gin.H, 0, len(referrals))
	for _, ref := range referrals {
		username := ref.ReferredUser.Username
		if username == "" {
			username = ref.ReferredUser.Email
		}
		out = append(out, gin.H{
			"referred_user":  gin.H{"username": username},
			"code_used":      ref.CodeUsed,
			"points_awarded": ref.PointsAwarded,
			"created_at":     ref.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"referrals": out, "total": len(out)})
}
