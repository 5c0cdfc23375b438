package models

import (
	"time"

	"gorm.io/gorm"
)

// CommissionRule 佣金规则表
// 同一 (level, product_type) 允许存在多条规则，取 priority 最高者；
// priority 相同时取创建时间最新者。
type CommissionRule struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Level           int            `gorm:"index:idx_rule_level_product;not null" json:"level"`             // 推荐层级（1-3）
	ProductType     string         `gorm:"index:idx_rule_level_product;not null" json:"product_type"`      // 产品类型
	CommissionType  string         `gorm:"not null;default:'percentage'" json:"commission_type"`           // 计算方式（percentage/fixed）
	CommissionValue Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_value"`  // 百分比数值或固定金额
	IsActive        bool           `gorm:"index;default:true" json:"is_active"`                            // 是否启用
	Priority        int            `gorm:"index;default:0" json:"priority"`                                // 优先级（大者优先）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (CommissionRule) TableName() string {
	return "commission_rules"
}
