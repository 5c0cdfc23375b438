package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/provider"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/queue"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReferralPostCommissions, c.handleReferralPostCommissions)
	mux.HandleFunc(queue.TaskReferralStatsRecompute, c.handleReferralStatsRecompute)
}

func (c *Consumer) handleReferralPostCommissions(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_referral_post_commissions_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferralPostCommissionsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_referral_post_commissions_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_referral_post_commissions_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_referral_post_commissions_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	earnings, err := c.ReferralService.PostCommissions(payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_referral_post_commissions_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderNotCompleted):
			logger.Debugw("worker_referral_post_commissions_skip_order_not_completed", "order_id", payload.OrderID)
			return nil
		default:
			logger.Warnw("worker_referral_post_commissions_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	// 入账成功后刷新每个受益人的统计
	for _, earning := range earnings {
		if err := c.enqueueStatsRecompute(earning.UserID); err != nil {
			logger.Warnw("worker_referral_post_commissions_stats_dispatch_failed",
				"order_id", payload.OrderID,
				"user_id", earning.UserID,
				"error", err,
			)
		}
	}
	return nil
}

func (c *Consumer) enqueueStatsRecompute(userID uint) error {
	if c.QueueClient.Enabled() {
		return c.QueueClient.EnqueueReferralStatsRecompute(queue.ReferralStatsRecomputePayload{UserID: userID})
	}
	if c.StatsService == nil {
		return nil
	}
	_, err := c.StatsService.Recompute(userID)
	return err
}

func (c *Consumer) handleReferralStatsRecompute(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_referral_stats_recompute_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferralStatsRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_referral_stats_recompute_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_referral_stats_recompute_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.StatsService == nil {
		logger.Warnw("worker_referral_stats_recompute_skip_service_nil", "user_id", payload.UserID)
		return nil
	}
	if _, err := c.StatsService.Recompute(payload.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_referral_stats_recompute_skip_user_not_found", "user_id", payload.UserID)
			return nil
		default:
			logger.Warnw("worker_referral_stats_recompute_failed", "user_id", payload.UserID, "error", err)
			return err
		}
	}
	return nil
}
