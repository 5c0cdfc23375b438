package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// 套餐计费类型常量
const (
	PlanTypeRecurring = "recurring"
	PlanTypeLongterm  = "longterm"
)

// 服务器状态常量
const (
	ServerStatusProvisioning = "provisioning"
	ServerStatusActive       = "active"
	ServerStatusSuspended    = "suspended"
	ServerStatusTerminated   = "terminated"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 推荐佣金状态常量
const (
	EarningStatusPending  = "pending"
	EarningStatusApproved = "approved"
	EarningStatusPaid     = "paid"
	EarningStatusRejected = "rejected"
)

// 佣金规则计算方式常量
const (
	CommissionTypePercentage = "percentage"
	CommissionTypeFixed      = "fixed"
)

// 推荐层级常量
const (
	ReferralLevelMin = 1
	ReferralLevelMax = 3
)

// 提现结算单状态常量
const (
	PayoutStatusRequested = "requested"
	PayoutStatusApproved  = "approved"
	PayoutStatusRejected  = "rejected"
	PayoutStatusCompleted = "completed"
)

// 提现审核动作常量
const (
	PayoutActionApprove  = "approve"
	PayoutActionReject   = "reject"
	PayoutActionComplete = "complete"
)

// 异步任务名称常量
const (
	TaskReferralPostCommissions = "referral:post_commissions"
	TaskReferralStatsRecompute  = "referral:stats_recompute"
)

// 队列名称常量
const (
	QueueDefault = "default"
)
