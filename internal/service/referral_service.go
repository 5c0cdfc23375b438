package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// uplineWalkHardCap 上级链遍历的硬上限，防御脏数据形成的环
	uplineWalkHardCap = 32
)

// ReferralService 推荐佣金业务服务
type ReferralService struct {
	repo      repository.ReferralRepository
	ruleRepo  repository.CommissionRuleRepository
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	maxLevels int
}

// NewReferralService 创建推荐佣金服务
func NewReferralService(
	repo repository.ReferralRepository,
	ruleRepo repository.CommissionRuleRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	maxLevels int,
) *ReferralService {
	if maxLevels <= 0 || maxLevels > constants.ReferralLevelMax {
		maxLevels = constants.ReferralLevelMax
	}
	return &ReferralService{
		repo:      repo,
		ruleRepo:  ruleRepo,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		maxLevels: maxLevels,
	}
}

// UplineEntry 上级链中的一个祖先
type UplineEntry struct {
	User  models.User `json:"user"`
	Level int         `json:"level"`
}

// ResolveUpline 解析用户的上级链（最多 maxLevels 层）
// referred_by 是弱引用：指向的用户不存在时链在此截断。
// 已访问集合加硬上限兜底，循环数据不会导致死循环。
func (s *ReferralService) ResolveUpline(userID uint) ([]UplineEntry, error) {
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

	visited := map[uint]bool{userID: true}
	upline := make([]UplineEntry, 0, s.maxLevels)
	current := user
	for level := 1; level <= s.maxLevels && level <= uplineWalkHardCap; level++ {
		if current.ReferredBy == nil || *current.ReferredBy == 0 {
			break
		}
		parentID := *current.ReferredBy
		if visited[parentID] {
			logger.Warnw("referral_upline_cycle_detected", "user_id", userID, "ancestor_id", parentID)
			break
		}
		parent, err := s.userRepo.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		visited[parentID] = true
		upline = append(upline, UplineEntry{User: *parent, Level: level})
		current = parent
	}
	return upline, nil
}

// PostCommissions 为已完成订单入账各层级佣金
// 单事务全量提交：任一流水写入失败则整体回滚。重复投递依赖
// (user_id, order_id, level) 唯一约束跳过已入账的流水。
// 某层级无生效规则时该层级跳过，不视为错误。
func (s *ReferralService) PostCommissions(orderID uint) ([]models.ReferralEarning, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCompleted {
		return nil, ErrOrderNotCompleted
	}

	upline, err := s.ResolveUpline(order.UserID)
	if err != nil {
		return nil, err
	}
	if len(upline) == 0 {
		return []models.ReferralEarning{}, nil
	}

	now := time.Now()
	pending := make([]models.ReferralEarning, 0, len(upline))
	for _, entry := range upline {
		rule, err := s.ruleRepo.GetActiveRule(entry.Level, order.ProductType)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			logger.Debugw("referral_post_skip_no_rule",
				"order_id", order.ID, "level", entry.Level, "product_type", order.ProductType)
			continue
		}
		amount := commissionAmount(order.Amount.Decimal, rule)
		if amount.LessThanOrEqual(decimal.Zero) {
			logger.Debugw("referral_post_skip_zero_amount", "order_id", order.ID, "level", entry.Level)
			continue
		}
		pending = append(pending, models.ReferralEarning{
			UserID:           entry.User.ID,
			SourceUserID:     order.UserID,
			OrderID:          order.ID,
			Level:            entry.Level,
			OrderAmount:      order.Amount,
			CommissionRate:   rule.CommissionValue,
			CommissionType:   rule.CommissionType,
			CommissionAmount: models.NewMoneyFromDecimal(amount),
			Status:           constants.EarningStatusPending,
			EarnedAt:         now,
		})
	}
	if len(pending) == 0 {
		return []models.ReferralEarning{}, nil
	}

	created := make([]models.ReferralEarning, 0, len(pending))
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for i := range pending {
			inserted, err := txRepo.CreateEarning(&pending[i])
			if err != nil {
				return err
			}
			if inserted {
				created = append(created, pending[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// commissionAmount 按规则计算佣金金额
func commissionAmount(orderAmount decimal.Decimal, rule *models.CommissionRule) decimal.Decimal {
	if rule == nil {
		return decimal.Zero
	}
	switch rule.CommissionType {
	case constants.CommissionTypeFixed:
		return rule.CommissionValue.Decimal.Round(2)
	default:
		return orderAmount.Mul(rule.CommissionValue.Decimal).Div(decimal.NewFromInt(100)).Round(2)
	}
}

// ApproveEarning 审核通过单笔佣金（仅 pending 可审核）
func (s *ReferralService) ApproveEarning(earningID uint) (*models.ReferralEarning, error) {
	return s.transitionEarning(earningID, constants.EarningStatusApproved)
}

// RejectEarning 驳回单笔佣金（仅 pending 可驳回）
func (s *ReferralService) RejectEarning(earningID uint) (*models.ReferralEarning, error) {
	return s.transitionEarning(earningID, constants.EarningStatusRejected)
}

func (s *ReferralService) transitionEarning(earningID uint, nextStatus string) (*models.ReferralEarning, error) {
	if earningID == 0 {
		return nil, ErrEarningNotFound
	}
	var result *models.ReferralEarning
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		earning, err := txRepo.GetEarningByIDForUpdate(earningID)
		if err != nil {
			return err
		}
		if earning == nil {
			return ErrEarningNotFound
		}
		if earning.Status != constants.EarningStatusPending {
			return ErrEarningStatusInvalid
		}
		earning.Status = nextStatus
		if err := txRepo.UpdateEarning(earning); err != nil {
			return err
		}
		result = earning
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkApproveFailure 批量审核中的单条失败记录
type BulkApproveFailure struct {
	EarningID uint   `json:"earning_id"`
	Reason    string `json:"reason"`
}

// BulkApproveResult 批量审核结果（成功与失败分账）
type BulkApproveResult struct {
	Approved []uint               `json:"approved"`
	Failed   []BulkApproveFailure `json:"failed"`
}

// BulkApproveEarnings 批量审核佣金
// 逐条独立处理：单条失败不影响其余，返回成功/失败分账结果。
func (s *ReferralService) BulkApproveEarnings(earningIDs []uint) (*BulkApproveResult, error) {
	result := &BulkApproveResult{
		Approved: make([]uint, 0, len(earningIDs)),
		Failed:   make([]BulkApproveFailure, 0),
	}
	seen := make(map[uint]bool, len(earningIDs))
	for _, id := range earningIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.ApproveEarning(id); err != nil {
			result.Failed = append(result.Failed, BulkApproveFailure{
				EarningID: id,
				Reason:    err.Error(),
			})
			continue
		}
		result.Approved = append(result.Approved, id)
	}
	return result, nil
}

// ListUserEarnings 查询用户佣金流水
func (s *ReferralService) ListUserEarnings(userID uint, status string, page, pageSize int) ([]models.ReferralEarning, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotFound
	}
	return s.repo.ListEarnings(repository.EarningListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	})
}

// ListEarnings 管理端查询佣金流水
func (s *ReferralService) ListEarnings(filter repository.EarningListFilter) ([]models.ReferralEarning, int64, error) {
	return s.repo.ListEarnings(filter)
}

// ReferralTeamMember 直推团队成员视图
type ReferralTeamMember struct {
	UserID       uint      `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Level        int       `json:"level"`
	JoinedAt     time.Time `json:"joined_at"`
	ReferralCode string    `json:"referral_code"`
}

// ListTeam 查询用户的下级团队（按层级展开，最多 maxLevels 层）
func (s *ReferralService) ListTeam(userID uint) ([]ReferralTeamMember, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	members := make([]ReferralTeamMember, 0)
	frontier := []uint{userID}
	for level := 1; level <= s.maxLevels; level++ {
		rows, err := s.userRepo.ListByReferrers(frontier)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		next := make([]uint, 0, len(rows))
		for _, row := range rows {
			members = append(members, ReferralTeamMember{
				UserID:       row.ID,
				Email:        row.Email,
				FullName:     row.FullName,
				Level:        level,
				JoinedAt:     row.CreatedAt,
				ReferralCode: row.ReferralCode,
			})
			next = append(next, row.ID)
		}
		frontier = next
	}
	return members, nil
}

// ValidateReferralCode 校验推荐码并返回持有人
func (s *ReferralService) ValidateReferralCode(code string) (*models.User, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrReferralCodeInvalid
	}
	user, err := s.userRepo.GetByReferralCode(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrReferralCodeInvalid
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrReferralCodeInvalid
	}
	return user, nil
}

// FormatReferralCode 按用户ID生成推荐码
func FormatReferralCode(userID uint) string {
	return fmt.Sprintf("REF%04d", userID)
}
