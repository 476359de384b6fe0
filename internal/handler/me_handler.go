package handler

import (
	"net/http"
	"strconv"

	"rewardly/internal/middleware"
	"rewardly/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo    *repository.UserRepository
	accountRepo *repository.AccountRepository
}

func NewMeHandler(userRepo *repository.UserRepository, accountRepo *repository.AccountRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, accountRepo: accountRepo}
}

// GetProfile returns the authenticated user's profile and point balance.
// The balance is always read from the store at call time; clients must not
// authorize against a cached copy.
func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"points":   u.Points,
		"tier":     u.Tier,
		"status":   u.Status,
	})
}

// GetTransactions returns the user's points ledger, newest first.
func (h *MeHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.accountRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list transactions"})
		return
	}
	balance, err := h.accountRepo.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "balance": balance})
}
