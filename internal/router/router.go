package router

import (
	"fmt"
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/cache"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	adminhandlers "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/admin"
	publichandlers "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/public"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "rh"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/plans", publicHandler.GetPlans)
			public.GET("/plans/:slug", publicHandler.GetPlanBySlug)
			public.GET("/referral/validate-code", publicHandler.ValidateReferralCode)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)

			user.GET("/me/referral", publicHandler.GetMyReferralSummary)
			user.GET("/me/referral/stats", publicHandler.GetMyReferralStats)
			user.GET("/me/referral/earnings", publicHandler.GetMyReferralEarnings)
			user.GET("/me/referral/team", publicHandler.GetMyReferralTeam)
			user.GET("/me/referral/balance", publicHandler.GetMyReferralBalance)
			user.POST("/me/referral/payouts", publicHandler.RequestPayout)
			user.GET("/me/referral/payouts", publicHandler.GetMyPayouts)
			user.GET("/me/referral/payouts/:id", publicHandler.GetMyPayout)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.POST("/orders/:id/complete", publicHandler.CompleteOrder)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.GET("/servers", publicHandler.ListMyServers)
			user.GET("/servers/:id", publicHandler.GetMyServer)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)

				// 套餐管理
				authorized.GET("/plans", adminHandler.GetAdminPlans)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)

				// 佣金规则管理
				authorized.GET("/commission-rules", adminHandler.GetCommissionRules)
				authorized.POST("/commission-rules", adminHandler.CreateCommissionRule)
				authorized.PUT("/commission-rules/:id", adminHandler.UpdateCommissionRule)
				authorized.POST("/commission-rules/:id/deactivate", adminHandler.DeactivateCommissionRule)

				// 佣金流水管理
				authorized.GET("/earnings", adminHandler.GetAdminEarnings)
				authorized.POST("/earnings/:id/approve", adminHandler.ApproveEarning)
				authorized.POST("/earnings/:id/reject", adminHandler.RejectEarning)
				authorized.POST("/earnings/bulk-approve", adminHandler.BulkApproveEarnings)

				// 提现管理
				authorized.GET("/payouts", adminHandler.GetAdminPayouts)
				authorized.POST("/payouts/:id/process", adminHandler.ProcessPayout)

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.POST("/orders/:id/complete", adminHandler.AdminCompleteOrder)

				// 服务器管理
				authorized.GET("/servers", adminHandler.GetAdminServers)
				authorized.PATCH("/servers/:id/status", adminHandler.UpdateServerStatus)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.GET("/users/:id/referral/stats", adminHandler.GetAdminUserReferralStats)
				authorized.POST("/users/:id/referral/stats/recompute", adminHandler.RecomputeUserReferralStats)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
