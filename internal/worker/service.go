package worker

import (
	"context"
	"errors"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultStatsSyncInterval = time.Hour

// Service 异步队列服务
type Service struct {
	name              string
	server            *asynq.Server
	mux               *asynq.ServeMux
	consumer          *Consumer
	statsSyncInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	interval := defaultStatsSyncInterval
	if cfg.Referral.StatsSyncIntervalMinutes > 0 {
		interval = time.Duration(cfg.Referral.StatsSyncIntervalMinutes) * time.Minute
	}
	return &Service{
		name:              "worker",
		server:            server,
		mux:               mux,
		consumer:          consumer,
		statsSyncInterval: interval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.StatsService != nil {
		go s.runStatsSyncLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runStatsSyncLoop 周期性全量对账统计快照
func (s *Service) runStatsSyncLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.StatsService == nil {
		return
	}
	runOnce := func() {
		count, err := s.consumer.StatsService.RecomputeAll()
		if err != nil {
			logger.Warnw("worker_stats_sync_failed", "error", err)
			return
		}
		logger.Debugw("worker_stats_sync_done", "recomputed", count)
	}
	runOnce()

	ticker := time.NewTicker(s.statsSyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
