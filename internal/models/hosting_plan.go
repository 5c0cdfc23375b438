package models

import (
	"time"

	"gorm.io/gorm"
)

// HostingPlan 主机套餐表
type HostingPlan struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                // 主键
	Name         string         `gorm:"not null" json:"name"`                                // 套餐名称
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`                    // 标识符
	PlanType     string         `gorm:"index;not null" json:"plan_type"`                     // 计费类型（recurring/longterm）
	ProductType  string         `gorm:"index;not null" json:"product_type"`                  // 产品类型（vps/shared/dedicated 等）
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 价格
	BillingCycle string         `gorm:"default:'monthly'" json:"billing_cycle"`              // 计费周期
	Description  string         `gorm:"type:text" json:"description"`                        // 套餐描述
	IsActive     bool           `gorm:"index;default:true" json:"is_active"`                 // 是否上架
	CreatedAt    time.Time      `json:"created_at"`                                          // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (HostingPlan) TableName() string {
	return "hosting_plans"
}
