package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	TierFree    = "FREE"
	TierPremium = "PREMIUM"
)

const (
	StatusNormal     = "NORMAL"
	StatusInfluencer = "INFLUENCER"
)

const (
	AssignmentPending   = "PENDING"
	AssignmentSubmitted = "SUBMITTED"
	AssignmentCompleted = "COMPLETED"
	AssignmentRejected  = "REJECTED"
)

const (
	VerificationAutomatic = "AUTOMATIC"
	VerificationManual    = "MANUAL"
)

const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

const (
	RedemptionPending   = "PENDING"
	RedemptionFulfilled = "FULFILLED"
	RedemptionCancelled = "CANCELLED"
)

// Points ledger entry types
const (
	PointsTxTaskReward    = "TASK_REWARD"
	PointsTxRedemption    = "REWARD_REDEMPTION"
	PointsTxReferralBonus = "REFERRAL_BONUS"
)

// Admin-configurable setting keys (system_settings table)
const (
	SettingReferralBonusPoints          = "referral_bonus_points"
	SettingReferralInfluencerMultiplier = "referral_influencer_multiplier"
)
