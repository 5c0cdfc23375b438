package service

import "errors"

// 业务错误定义，处理器通过 errors.Is 映射为接口响应。
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUserDisabled       = errors.New("user disabled")

	ErrReferralCodeInvalid = errors.New("referral code invalid")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusInvalid  = errors.New("order status invalid")
	ErrOrderNotCompleted   = errors.New("order not completed")
	ErrPlanNotFound        = errors.New("hosting plan not found")
	ErrPlanInactive        = errors.New("hosting plan inactive")
	ErrPlanInvalid         = errors.New("hosting plan invalid")
	ErrServerStatusInvalid = errors.New("server status invalid")

	ErrEarningNotFound      = errors.New("earning not found")
	ErrEarningStatusInvalid = errors.New("earning status invalid")
	ErrRuleNotFound         = errors.New("commission rule not found")
	ErrRuleInvalid          = errors.New("commission rule invalid")

	ErrPayoutNotFound        = errors.New("payout not found")
	ErrPayoutStatusInvalid   = errors.New("payout status invalid")
	ErrPayoutActionInvalid   = errors.New("payout action invalid")
	ErrPayoutAlreadyPending  = errors.New("payout already pending")
	ErrMinimumPayoutNotMet   = errors.New("minimum payout amount not met")
	ErrInsufficientBalance   = errors.New("insufficient payable balance")
	ErrPayoutAmountInvalid   = errors.New("payout amount invalid")
	ErrPaymentReferenceEmpty = errors.New("payment reference required")
	ErrRejectReasonEmpty     = errors.New("reject reason required")
)
