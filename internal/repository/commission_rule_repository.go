package repository

import (
	"errors"
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"

	"gorm.io/gorm"
)

// CommissionRuleRepository 佣金规则数据访问接口
type CommissionRuleRepository interface {
	GetByID(id uint) (*models.CommissionRule, error)
	GetActiveRule(level int, productType string) (*models.CommissionRule, error)
	Create(rule *models.CommissionRule) error
	Update(rule *models.CommissionRule) error
	List(filter CommissionRuleListFilter) ([]models.CommissionRule, int64, error)
}

// GormCommissionRuleRepository GORM 佣金规则仓储
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewCommissionRuleRepository 创建佣金规则仓储
func NewCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

// GetByID 按ID获取规则
func (r *GormCommissionRuleRepository) GetByID(id uint) (*models.CommissionRule, error) {
	if id == 0 {
		return nil, nil
	}
	var rule models.CommissionRule
	if err := r.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// GetActiveRule 查询某层级某产品类型当前生效的规则
// priority 大者优先，优先级相同时取最新创建的一条。
func (r *GormCommissionRuleRepository) GetActiveRule(level int, productType string) (*models.CommissionRule, error) {
	normalized := strings.TrimSpace(productType)
	if level <= 0 || normalized == "" {
		return nil, nil
	}
	var rule models.CommissionRule
	err := r.db.Where("level = ? AND product_type = ? AND is_active = ?", level, normalized, true).
		Order("priority DESC, created_at DESC, id DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// Create 创建规则
func (r *GormCommissionRuleRepository) Create(rule *models.CommissionRule) error {
	return r.db.Create(rule).Error
}

// Update 更新规则
func (r *GormCommissionRuleRepository) Update(rule *models.CommissionRule) error {
	return r.db.Save(rule).Error
}

// List 查询规则列表
func (r *GormCommissionRuleRepository) List(filter CommissionRuleListFilter) ([]models.CommissionRule, int64, error) {
	query := r.db.Model(&models.CommissionRule{})
	if filter.Level > 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if productType := strings.TrimSpace(filter.ProductType); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.CommissionRule
	if err := query.Order("level asc, priority desc, id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
