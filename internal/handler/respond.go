package handler

import (
	"errors"
	"net/http"

	"rewardly/internal/domain"

	"github.com/gin-gonic/gin"
)

// errorCodes gives the UI a stable machine-readable code per failure kind.
var errorCodes = map[error]string{
	domain.ErrInvalidState:         "INVALID_STATE",
	domain.ErrTaskInactive:         "TASK_INACTIVE",
	domain.ErrRewardInactive:       "REWARD_INACTIVE",
	domain.ErrInvalidCode:          "INVALID_CODE",
	domain.ErrSelfReferral:         "SELF_REFERRAL",
	domain.ErrMissingRequiredMedia: "MISSING_REQUIRED_MEDIA",
	domain.ErrAlreadyStarted:       "ALREADY_STARTED",
	domain.ErrAlreadyReviewed:      "ALREADY_REVIEWED",
	domain.ErrAlreadyReferred:      "ALREADY_REFERRED",
	domain.ErrOutOfStock:           "OUT_OF_STOCK",
	domain.ErrInsufficientBalance:  "INSUFFICIENT_BALANCE",
	domain.ErrNotFound:             "NOT_FOUND",
}

// fail maps an engine error onto HTTP: 404 for missing entities, 409 when a
// race or repeat was resolved against the caller, 400 for precondition
// failures, 500 for everything else (the transaction has rolled back whole).
func fail(c *gin.Context, err error) {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, domain.ErrNotFound):
				status = http.StatusNotFound
			case domain.IsConflict(err):
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": sentinel.Error(), "code": code})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
}
