package domain

import "errors"

// Precondition errors: deterministic rejections, safe to show to the user.
var (
	ErrInvalidState         = errors.New("operation not valid in current state")
	ErrTaskInactive         = errors.New("task is not active")
	ErrRewardInactive       = errors.New("reward is not active")
	ErrInvalidCode          = errors.New("invalid referral code")
	ErrSelfReferral         = errors.New("cannot use your own referral code")
	ErrMissingRequiredMedia = errors.New("task requires a screenshot")
)

// Conflict errors: a race or repeat resolved against the caller.
var (
	ErrAlreadyStarted      = errors.New("task already started")
	ErrAlreadyReviewed     = errors.New("submission already reviewed")
	ErrAlreadyReferred     = errors.New("user already referred")
	ErrOutOfStock          = errors.New("reward out of stock")
	ErrInsufficientBalance = errors.New("insufficient point balance")
)

var ErrNotFound = errors.New("not found")

// IsConflict reports whether err is a race/repeat outcome rather than a
// plain precondition failure, so callers can surface the two differently.
func IsConflict(err error) bool {
	for _, e := range []error{ErrAlreadyStarted, ErrAlreadyReviewed, ErrAlreadyReferred, ErrOutOfStock, ErrInsufficientBalance} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
