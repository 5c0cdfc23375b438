package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                       // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`          // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                          // 密码哈希（不返回给前端）
	FullName     string         `gorm:"default:''" json:"full_name"`                // 姓名
	Status       string         `gorm:"default:'active'" json:"status"`             // 账号状态
	ReferralCode string         `gorm:"uniqueIndex;size:16" json:"referral_code"`   // 推荐码
	ReferredBy   *uint          `gorm:"index" json:"referred_by,omitempty"`         // 推荐人用户ID（弱引用，可为空）
	LastLoginAt  *time.Time     `json:"last_login_at"`                              // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
