package queue

import (
	"encoding/json"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReferralPostCommissions 订单完成后的佣金入账任务
	TaskReferralPostCommissions = constants.TaskReferralPostCommissions
	// TaskReferralStatsRecompute 推荐统计重算任务
	TaskReferralStatsRecompute = constants.TaskReferralStatsRecompute
)

// ReferralPostCommissionsPayload 佣金入账任务载荷
type ReferralPostCommissionsPayload struct {
	OrderID uint `json:"order_id"`
}

// ReferralStatsRecomputePayload 统计重算任务载荷
type ReferralStatsRecomputePayload struct {
	UserID uint `json:"user_id"`
}

// NewReferralPostCommissionsTask 创建佣金入账任务
func NewReferralPostCommissionsTask(payload ReferralPostCommissionsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralPostCommissions, body), nil
}

// NewReferralStatsRecomputeTask 创建统计重算任务
func NewReferralStatsRecomputeTask(payload ReferralStatsRecomputePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralStatsRecompute, body), nil
}
