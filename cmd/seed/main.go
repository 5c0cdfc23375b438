package main

import (
	"log"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"

	"github.com/shopspring/decimal"
)

// 初始化基础数据：示例套餐与默认三级佣金规则。
// 重复执行是幂等的，已存在的数据不会被覆盖。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	seedPlans(stdLog)
	seedCommissionRules(stdLog)
	stdLog.Println("基础数据初始化完成")
}

func seedPlans(stdLog *log.Logger) {
	plans := []models.HostingPlan{
		{
			Name:         "Starter Cloud",
			Slug:         "starter-cloud",
			PlanType:     constants.PlanTypeRecurring,
			ProductType:  "cloud_hosting",
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(499)),
			BillingCycle: "monthly",
			Description:  "入门级云主机套餐",
			IsActive:     true,
		},
		{
			Name:         "Business Cloud",
			Slug:         "business-cloud",
			PlanType:     constants.PlanTypeRecurring,
			ProductType:  "cloud_hosting",
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(1499)),
			BillingCycle: "monthly",
			Description:  "商用云主机套餐",
			IsActive:     true,
		},
		{
			Name:         "Dedicated 5Y",
			Slug:         "dedicated-5y",
			PlanType:     constants.PlanTypeLongterm,
			ProductType:  "dedicated_server",
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(49999)),
			BillingCycle: "yearly",
			Description:  "长期独立服务器套餐",
			IsActive:     true,
		},
	}
	for i := range plans {
		plan := plans[i]
		var count int64
		if err := models.DB.Model(&models.HostingPlan{}).Where("slug = ?", plan.Slug).Count(&count).Error; err != nil {
			stdLog.Fatalf("查询套餐失败: %v", err)
		}
		if count > 0 {
			continue
		}
		if err := models.DB.Create(&plan).Error; err != nil {
			stdLog.Fatalf("创建套餐失败: %v", err)
		}
		stdLog.Printf("已创建套餐: %s", plan.Slug)
	}
}

func seedCommissionRules(stdLog *log.Logger) {
	type ruleSeed struct {
		productType string
		level       int
		percent     int64
	}
	seeds := []ruleSeed{
		{"cloud_hosting", 1, 5},
		{"cloud_hosting", 2, 1},
		{"cloud_hosting", 3, 1},
		{"dedicated_server", 1, 15},
		{"dedicated_server", 2, 3},
		{"dedicated_server", 3, 2},
	}
	for _, seed := range seeds {
		var count int64
		err := models.DB.Model(&models.CommissionRule{}).
			Where("level = ? AND product_type = ?", seed.level, seed.productType).
			Count(&count).Error
		if err != nil {
			stdLog.Fatalf("查询佣金规则失败: %v", err)
		}
		if count > 0 {
			continue
		}
		rule := models.CommissionRule{
			Level:           seed.level,
			ProductType:     seed.productType,
			CommissionType:  constants.CommissionTypePercentage,
			CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(seed.percent)),
			IsActive:        true,
		}
		if err := models.DB.Create(&rule).Error; err != nil {
			stdLog.Fatalf("创建佣金规则失败: %v", err)
		}
		stdLog.Printf("已创建佣金规则: L%d %s %d%%", seed.level, seed.productType, seed.percent)
	}
}
