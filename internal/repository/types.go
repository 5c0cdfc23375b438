package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	ReferredBy  uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PlanListFilter 查询主机套餐列表的过滤条件
type PlanListFilter struct {
	Page        int
	PageSize    int
	PlanType    string
	ProductType string
	Search      string
	OnlyActive  bool
}

// ServerListFilter 查询服务器列表的过滤条件
type ServerListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	PlanID   uint
	Status   string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CommissionRuleListFilter 查询佣金规则列表的过滤条件
type CommissionRuleListFilter struct {
	Page        int
	PageSize    int
	Level       int
	ProductType string
	OnlyActive  bool
}

// EarningListFilter 查询佣金流水列表的过滤条件
type EarningListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	SourceID    uint
	OrderID     uint
	Level       int
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PayoutListFilter 查询提现结算单列表的过滤条件
type PayoutListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	PayoutNo    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
