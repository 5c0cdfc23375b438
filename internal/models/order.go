package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                 // 订单编号
	UserID      uint           `gorm:"index;not null" json:"user_id"`                        // 下单用户ID
	PlanID      uint           `gorm:"index;not null" json:"plan_id"`                        // 套餐ID
	ProductType string         `gorm:"index;not null" json:"product_type"`                   // 产品类型（下单时快照）
	PlanType    string         `gorm:"index;not null" json:"plan_type"`                      // 计费类型（下单时快照）
	Amount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`  // 订单金额
	Status      string         `gorm:"index;not null" json:"status"`                         // 订单状态
	CompletedAt *time.Time     `gorm:"index" json:"completed_at"`                            // 完成时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	// 关联
	Plan *HostingPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"` // 套餐
	User *User        `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
