package repository

import (
	"errors"
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"

	"gorm.io/gorm"
)

// PlanRepository 主机套餐数据访问接口
type PlanRepository interface {
	GetByID(id uint) (*models.HostingPlan, error)
	GetBySlug(slug string) (*models.HostingPlan, error)
	Create(plan *models.HostingPlan) error
	Update(plan *models.HostingPlan) error
	List(filter PlanListFilter) ([]models.HostingPlan, int64, error)
}

// GormPlanRepository GORM 主机套餐仓储
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建主机套餐仓储
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// GetByID 按ID获取套餐
func (r *GormPlanRepository) GetByID(id uint) (*models.HostingPlan, error) {
	if id == 0 {
		return nil, nil
	}
	var plan models.HostingPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetBySlug 按标识符获取套餐
func (r *GormPlanRepository) GetBySlug(slug string) (*models.HostingPlan, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil, nil
	}
	var plan models.HostingPlan
	if err := r.db.Where("slug = ?", normalized).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Create 创建套餐
func (r *GormPlanRepository) Create(plan *models.HostingPlan) error {
	return r.db.Create(plan).Error
}

// Update 更新套餐
func (r *GormPlanRepository) Update(plan *models.HostingPlan) error {
	return r.db.Save(plan).Error
}

// List 查询套餐列表
func (r *GormPlanRepository) List(filter PlanListFilter) ([]models.HostingPlan, int64, error) {
	query := r.db.Model(&models.HostingPlan{})
	if planType := strings.TrimSpace(filter.PlanType); planType != "" {
		query = query.Where("plan_type = ?", planType)
	}
	if productType := strings.TrimSpace(filter.ProductType); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(name LIKE ? OR slug LIKE ?)", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.HostingPlan
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
