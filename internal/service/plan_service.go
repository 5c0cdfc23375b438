package service

import (
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/shopspring/decimal"
)

// PlanService 主机套餐业务服务
type PlanService struct {
	repo repository.PlanRepository
}

// NewPlanService 创建主机套餐服务
func NewPlanService(repo repository.PlanRepository) *PlanService {
	return &PlanService{repo: repo}
}

// PlanInput 套餐创建/更新输入
type PlanInput struct {
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	PlanType     string          `json:"plan_type"`
	ProductType  string          `json:"product_type"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle string          `json:"billing_cycle"`
	Description  string          `json:"description"`
	IsActive     *bool           `json:"is_active"`
}

func validatePlanInput(input PlanInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Slug) == "" {
		return ErrPlanInvalid
	}
	switch strings.TrimSpace(input.PlanType) {
	case constants.PlanTypeRecurring, constants.PlanTypeLongterm:
	default:
		return ErrPlanInvalid
	}
	if strings.TrimSpace(input.ProductType) == "" {
		return ErrPlanInvalid
	}
	if input.Price.IsNegative() {
		return ErrPlanInvalid
	}
	return nil
}

// Create 创建套餐
func (s *PlanService) Create(input PlanInput) (*models.HostingPlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	plan := &models.HostingPlan{
		Name:         strings.TrimSpace(input.Name),
		Slug:         strings.ToLower(strings.TrimSpace(input.Slug)),
		PlanType:     strings.TrimSpace(input.PlanType),
		ProductType:  strings.TrimSpace(input.ProductType),
		Price:        models.NewMoneyFromDecimal(input.Price),
		BillingCycle: strings.TrimSpace(input.BillingCycle),
		Description:  input.Description,
		IsActive:     isActive,
	}
	if err := s.repo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update 更新套餐
func (s *PlanService) Update(planID uint, input PlanInput) (*models.HostingPlan, error) {
	if planID == 0 {
		return nil, ErrPlanNotFound
	}
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}
	plan, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	plan.Name = strings.TrimSpace(input.Name)
	plan.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	plan.PlanType = strings.TrimSpace(input.PlanType)
	plan.ProductType = strings.TrimSpace(input.ProductType)
	plan.Price = models.NewMoneyFromDecimal(input.Price)
	plan.BillingCycle = strings.TrimSpace(input.BillingCycle)
	plan.Description = input.Description
	if input.IsActive != nil {
		plan.IsActive = *input.IsActive
	}
	if err := s.repo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan 按ID查询套餐
func (s *PlanService) GetPlan(planID uint) (*models.HostingPlan, error) {
	plan, err := s.repo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// GetPlanBySlug 按标识符查询套餐
func (s *PlanService) GetPlanBySlug(slug string) (*models.HostingPlan, error) {
	plan, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// List 查询套餐列表
func (s *PlanService) List(filter PlanListFilterInput) ([]models.HostingPlan, int64, error) {
	return s.repo.List(repository.PlanListFilter{
		Page:        filter.Page,
		PageSize:    filter.PageSize,
		PlanType:    strings.TrimSpace(filter.PlanType),
		ProductType: strings.TrimSpace(filter.ProductType),
		Search:      strings.TrimSpace(filter.Search),
		OnlyActive:  filter.OnlyActive,
	})
}

// PlanListFilterInput 套餐列表查询输入
type PlanListFilterInput struct {
	Page        int
	PageSize    int
	PlanType    string
	ProductType string
	Search      string
	OnlyActive  bool
}
