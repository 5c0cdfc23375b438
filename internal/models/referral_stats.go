package models

import "time"

// ReferralStats 推荐统计快照表
// 该表是佣金流水与用户关系的派生缓存，整行重建，流水才是事实来源。
type ReferralStats struct {
	ID                   uint      `gorm:"primarykey" json:"id"`                                               // 主键
	UserID               uint      `gorm:"uniqueIndex;not null" json:"user_id"`                                // 用户ID
	Level1Count          int64     `gorm:"default:0" json:"level1_count"`                                      // 一级下线数
	Level2Count          int64     `gorm:"default:0" json:"level2_count"`                                      // 二级下线数
	Level3Count          int64     `gorm:"default:0" json:"level3_count"`                                      // 三级下线数
	TotalTeamCount       int64     `gorm:"default:0" json:"total_team_count"`                                  // 团队总人数
	ActiveLevel1Count    int64     `gorm:"default:0" json:"active_level1_count"`                               // 一级活跃下线数
	ActiveLevel2Count    int64     `gorm:"default:0" json:"active_level2_count"`                               // 二级活跃下线数
	ActiveLevel3Count    int64     `gorm:"default:0" json:"active_level3_count"`                               // 三级活跃下线数
	PendingCommission    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"pending_commission"`    // 待审核佣金
	ApprovedCommission   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"approved_commission"`   // 已审核佣金
	PaidCommission       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"paid_commission"`       // 已结清佣金
	TotalCommission      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_commission"`      // 佣金总额（不含驳回）
	LastComputedAt       time.Time `json:"last_computed_at"`                                                   // 最近重算时间
	CreatedAt            time.Time `json:"created_at"`                                                         // 创建时间
	UpdatedAt            time.Time `json:"updated_at"`                                                         // 更新时间
}

// TableName 指定表名
func (ReferralStats) TableName() string {
	return "referral_stats"
}
