package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralPayout 佣金提现结算单表
// 税费在申请时刻按配置税率固化，后续调整税率不影响已有结算单。
type ReferralPayout struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                        // 主键
	PayoutNo         string         `gorm:"uniqueIndex;not null" json:"payout_no"`                       // 结算单编号
	UserID           uint           `gorm:"index;not null" json:"user_id"`                               // 申请用户ID
	GrossAmount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"gross_amount"`   // 申请总额
	TDSAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tds_amount"`     // 源头扣税（TDS）
	ServiceTaxAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"service_tax_amount"` // 服务税
	NetAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"net_amount"`     // 实付净额
	Status           string         `gorm:"index;not null;default:'requested'" json:"status"`            // 结算单状态
	PaymentReference string         `gorm:"size:128" json:"payment_reference"`                           // 支付凭证号
	RejectReason     string         `gorm:"size:255" json:"reject_reason"`                               // 驳回原因
	RequestedAt      time.Time      `gorm:"index" json:"requested_at"`                                   // 申请时间
	ProcessedAt      *time.Time     `json:"processed_at"`                                                // 处理时间
	CreatedAt        time.Time      `json:"created_at"`                                                  // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 申请用户
}

// TableName 指定表名
func (ReferralPayout) TableName() string {
	return "referral_payouts"
}
