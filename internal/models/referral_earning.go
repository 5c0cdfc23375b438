package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralEarning 推荐佣金流水表
// 唯一约束 (user_id, order_id, level) 保证同一订单对同一受益人同一层级只入账一次；
// commission_amount 一经写入不再随规则变动。
type ReferralEarning struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                            // 主键
	UserID           uint           `gorm:"uniqueIndex:idx_earning_user_order_level;not null" json:"user_id"`                // 受益人用户ID（上级）
	SourceUserID     uint           `gorm:"index;not null" json:"source_user_id"`                                            // 产生佣金的下级用户ID
	OrderID          uint           `gorm:"uniqueIndex:idx_earning_user_order_level;not null" json:"order_id"`               // 来源订单ID
	Level            int            `gorm:"uniqueIndex:idx_earning_user_order_level;not null" json:"level"`                  // 推荐层级（1-3）
	OrderAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"order_amount"`                       // 订单金额快照
	CommissionRate   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_rate"`                    // 入账时使用的比例或固定额
	CommissionType   string         `gorm:"not null;default:'percentage'" json:"commission_type"`                            // 计算方式快照
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"`                  // 佣金金额（不可变）
	Status           string         `gorm:"index;not null;default:'pending'" json:"status"`                                  // 佣金状态
	EarnedAt         time.Time      `gorm:"index" json:"earned_at"`                                                          // 入账时间
	PaidAt           *time.Time     `json:"paid_at"`                                                                         // 结清时间
	CreatedAt        time.Time      `json:"created_at"`                                                                      // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                                      // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                                  // 软删除时间

	// 关联
	SourceUser *User  `gorm:"foreignKey:SourceUserID" json:"source_user,omitempty"` // 下级用户
	Order      *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`            // 来源订单
}

// TableName 指定表名
func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
