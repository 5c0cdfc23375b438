package provider

import (
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/cache"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/queue"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	PlanRepo     repository.PlanRepository
	ServerRepo   repository.ServerRepository
	OrderRepo    repository.OrderRepository
	RuleRepo     repository.CommissionRuleRepository
	ReferralRepo repository.ReferralRepository

	// Services
	AuthService           *service.AuthService
	UserAuthService       *service.UserAuthService
	PlanService           *service.PlanService
	ServerService         *service.ServerService
	CommissionRuleService *service.CommissionRuleService
	ReferralService       *service.ReferralService
	StatsService          *service.StatsService
	PayoutService         *service.PayoutService
	OrderService          *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.ServerRepo = repository.NewServerRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.RuleRepo = repository.NewCommissionRuleRepository(db)
	c.ReferralRepo = repository.NewReferralRepository(db)
}

func (c *Container) initServices() {
	maxLevels := c.Config.Referral.MaxLevels

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.PlanService = service.NewPlanService(c.PlanRepo)
	c.ServerService = service.NewServerService(c.ServerRepo, c.PlanRepo)
	c.CommissionRuleService = service.NewCommissionRuleService(c.RuleRepo)
	c.ReferralService = service.NewReferralService(c.ReferralRepo, c.RuleRepo, c.UserRepo, c.OrderRepo, maxLevels)
	c.StatsService = service.NewStatsService(c.ReferralRepo, c.UserRepo, c.OrderRepo, maxLevels)
	c.PayoutService = service.NewPayoutService(c.ReferralRepo, c.UserRepo, c.Config.Referral)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.PlanRepo, c.UserRepo, c.ReferralService, c.StatsService, c.ServerService, c.QueueClient)
}
