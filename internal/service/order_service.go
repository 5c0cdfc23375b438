package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/queue"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	planRepo        repository.PlanRepository
	userRepo        repository.UserRepository
	referralService *ReferralService
	statsService    *StatsService
	serverService   *ServerService
	queueClient     *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	referralService *ReferralService,
	statsService *StatsService,
	serverService *ServerService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		planRepo:        planRepo,
		userRepo:        userRepo,
		referralService: referralService,
		statsService:    statsService,
		serverService:   serverService,
		queueClient:     queueClient,
	}
}

// CreateOrder 创建订单（套餐快照随单固化）
func (s *OrderService) CreateOrder(userID, planID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.IsActive {
		return nil, ErrPlanInactive
	}

	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      userID,
		PlanID:      plan.ID,
		ProductType: plan.ProductType,
		PlanType:    plan.PlanType,
		Amount:      plan.Price,
		Status:      constants.OrderStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), suffix)
}

// CompleteOrder 标记订单完成并触发佣金入账
// 状态翻转在事务内完成；佣金入账优先走异步队列，队列关闭时同步兜底。
// 重复完成同一订单是幂等操作。
func (s *OrderService) CompleteOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	var order *models.Order
	alreadyCompleted := false
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.orderRepo.WithTx(tx)
		row, err := txRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrOrderNotFound
		}
		switch row.Status {
		case constants.OrderStatusCompleted:
			alreadyCompleted = true
			order = row
			return nil
		case constants.OrderStatusPending:
		default:
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		row.Status = constants.OrderStatusCompleted
		row.CompletedAt = &now
		if err := txRepo.Update(row); err != nil {
			return err
		}
		order = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyCompleted && s.serverService != nil {
		if _, err := s.serverService.ProvisionForOrder(order); err != nil {
			logger.Warnw("order_provision_server_failed", "order_id", order.ID, "error", err)
		}
	}

	s.dispatchCommissions(order.ID)
	return order, nil
}

// dispatchCommissions 触发订单佣金入账（队列优先，同步兜底）
func (s *OrderService) dispatchCommissions(orderID uint) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueReferralPostCommissions(queue.ReferralPostCommissionsPayload{OrderID: orderID})
		if err == nil {
			return
		}
		logger.Warnw("order_enqueue_post_commissions_failed", "order_id", orderID, "error", err)
	}
	if s.referralService == nil {
		return
	}
	created, err := s.referralService.PostCommissions(orderID)
	if err != nil {
		logger.Warnw("order_sync_post_commissions_failed", "order_id", orderID, "error", err)
		return
	}
	if s.statsService == nil {
		return
	}
	for _, earning := range created {
		if _, err := s.statsService.Recompute(earning.UserID); err != nil {
			logger.Warnw("order_sync_stats_recompute_failed", "user_id", earning.UserID, "error", err)
		}
	}
}

// CancelOrder 取消订单（仅 pending 可取消）
func (s *OrderService) CancelOrder(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	var order *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.orderRepo.WithTx(tx)
		row, err := txRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrOrderNotFound
		}
		if row.Status != constants.OrderStatusPending {
			return ErrOrderStatusInvalid
		}
		row.Status = constants.OrderStatusCancelled
		if err := txRepo.Update(row); err != nil {
			return err
		}
		order = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder 按ID查询订单
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByOrderNo 按订单编号查询订单
func (s *OrderService) GetOrderByOrderNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 查询订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}
