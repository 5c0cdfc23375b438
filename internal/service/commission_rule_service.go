package service

import (
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/shopspring/decimal"
)

// CommissionRuleService 佣金规则业务服务
type CommissionRuleService struct {
	repo repository.CommissionRuleRepository
}

// NewCommissionRuleService 创建佣金规则服务
func NewCommissionRuleService(repo repository.CommissionRuleRepository) *CommissionRuleService {
	return &CommissionRuleService{repo: repo}
}

// RateFor 查询某层级某产品类型当前生效的规则
// 无生效规则返回 ErrRuleNotFound，由调用方决定跳过或报错。
func (s *CommissionRuleService) RateFor(level int, productType string) (*models.CommissionRule, error) {
	rule, err := s.repo.GetActiveRule(level, productType)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

// CommissionRuleInput 佣金规则创建/更新输入
type CommissionRuleInput struct {
	Level           int             `json:"level"`
	ProductType     string          `json:"product_type"`
	CommissionType  string          `json:"commission_type"`
	CommissionValue decimal.Decimal `json:"commission_value"`
	IsActive        *bool           `json:"is_active"`
	Priority        int             `json:"priority"`
}

func validateRuleInput(input CommissionRuleInput) error {
	if input.Level < constants.ReferralLevelMin || input.Level > constants.ReferralLevelMax {
		return ErrRuleInvalid
	}
	if strings.TrimSpace(input.ProductType) == "" {
		return ErrRuleInvalid
	}
	switch strings.TrimSpace(input.CommissionType) {
	case constants.CommissionTypePercentage, constants.CommissionTypeFixed:
	default:
		return ErrRuleInvalid
	}
	if input.CommissionValue.IsNegative() {
		return ErrRuleInvalid
	}
	if strings.TrimSpace(input.CommissionType) == constants.CommissionTypePercentage &&
		input.CommissionValue.GreaterThan(decimal.NewFromInt(100)) {
		return ErrRuleInvalid
	}
	return nil
}

// Create 创建佣金规则
func (s *CommissionRuleService) Create(input CommissionRuleInput) (*models.CommissionRule, error) {
	if err := validateRuleInput(input); err != nil {
		return nil, err
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	rule := &models.CommissionRule{
		Level:           input.Level,
		ProductType:     strings.TrimSpace(input.ProductType),
		CommissionType:  strings.TrimSpace(input.CommissionType),
		CommissionValue: models.NewMoneyFromDecimal(input.CommissionValue),
		IsActive:        isActive,
		Priority:        input.Priority,
	}
	if err := s.repo.Create(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update 更新佣金规则
// 规则只影响之后的入账，已写入的佣金流水不回溯。
func (s *CommissionRuleService) Update(ruleID uint, input CommissionRuleInput) (*models.CommissionRule, error) {
	if ruleID == 0 {
		return nil, ErrRuleNotFound
	}
	if err := validateRuleInput(input); err != nil {
		return nil, err
	}
	rule, err := s.repo.GetByID(ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	rule.Level = input.Level
	rule.ProductType = strings.TrimSpace(input.ProductType)
	rule.CommissionType = strings.TrimSpace(input.CommissionType)
	rule.CommissionValue = models.NewMoneyFromDecimal(input.CommissionValue)
	rule.Priority = input.Priority
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	if err := s.repo.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Deactivate 停用佣金规则
func (s *CommissionRuleService) Deactivate(ruleID uint) (*models.CommissionRule, error) {
	if ruleID == 0 {
		return nil, ErrRuleNotFound
	}
	rule, err := s.repo.GetByID(ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	if !rule.IsActive {
		return rule, nil
	}
	rule.IsActive = false
	if err := s.repo.Update(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// List 查询佣金规则列表
func (s *CommissionRuleService) List(filter repository.CommissionRuleListFilter) ([]models.CommissionRule, int64, error) {
	return s.repo.List(filter)
}
