package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
)

// ServerService 服务器业务服务
type ServerService struct {
	repo     repository.ServerRepository
	planRepo repository.PlanRepository
}

// NewServerService 创建服务器服务
func NewServerService(repo repository.ServerRepository, planRepo repository.PlanRepository) *ServerService {
	return &ServerService{repo: repo, planRepo: planRepo}
}

// ProvisionForOrder 为已完成订单开通服务器记录
func (s *ServerService) ProvisionForOrder(order *models.Order) (*models.Server, error) {
	if order == nil || order.ID == 0 {
		return nil, ErrOrderNotFound
	}
	plan, err := s.planRepo.GetByID(order.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	expiresAt := resolveExpiry(plan.BillingCycle, time.Now())
	server := &models.Server{
		UserID:    order.UserID,
		PlanID:    order.PlanID,
		OrderID:   order.ID,
		Hostname:  fmt.Sprintf("%s-%d", plan.Slug, order.ID),
		Status:    constants.ServerStatusProvisioning,
		ExpiresAt: &expiresAt,
	}
	if err := s.repo.Create(server); err != nil {
		return nil, err
	}
	return server, nil
}

func resolveExpiry(billingCycle string, from time.Time) time.Time {
	switch strings.ToLower(strings.TrimSpace(billingCycle)) {
	case "yearly":
		return from.AddDate(1, 0, 0)
	case "quarterly":
		return from.AddDate(0, 3, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// GetServer 按ID查询服务器
func (s *ServerService) GetServer(serverID uint) (*models.Server, error) {
	server, err := s.repo.GetByID(serverID)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, ErrNotFound
	}
	return server, nil
}

// UpdateStatus 更新服务器状态
func (s *ServerService) UpdateStatus(serverID uint, rawStatus string) (*models.Server, error) {
	status := strings.TrimSpace(rawStatus)
	switch status {
	case constants.ServerStatusProvisioning, constants.ServerStatusActive,
		constants.ServerStatusSuspended, constants.ServerStatusTerminated:
	default:
		return nil, ErrServerStatusInvalid
	}
	server, err := s.repo.GetByID(serverID)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, ErrNotFound
	}
	server.Status = status
	if err := s.repo.Update(server); err != nil {
		return nil, err
	}
	return server, nil
}

// ListServers 查询服务器列表
func (s *ServerService) ListServers(filter repository.ServerListFilter) ([]models.Server, int64, error) {
	return s.repo.List(filter)
}
