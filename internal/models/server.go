package models

import (
	"time"

	"gorm.io/gorm"
)

// Server 已开通服务器表
type Server struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`          // 归属用户ID
	PlanID    uint           `gorm:"index;not null" json:"plan_id"`          // 套餐ID
	OrderID   uint           `gorm:"index" json:"order_id"`                  // 来源订单ID
	Hostname  string         `gorm:"not null" json:"hostname"`               // 主机名
	IPAddress string         `gorm:"size:64" json:"ip_address"`              // IP 地址
	Status    string         `gorm:"index;default:'provisioning'" json:"status"` // 服务器状态
	ExpiresAt *time.Time     `gorm:"index" json:"expires_at"`                // 到期时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	// 关联
	Plan *HostingPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"` // 套餐
	User *User        `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户
}

// TableName 指定表名
func (Server) TableName() string {
	return "servers"
}
