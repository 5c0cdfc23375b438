package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutService 佣金提现业务服务
type PayoutService struct {
	repo            repository.ReferralRepository
	userRepo        repository.UserRepository
	tdsRate         decimal.Decimal
	serviceTaxRate  decimal.Decimal
	minPayoutAmount decimal.Decimal
}

// NewPayoutService 创建佣金提现服务
func NewPayoutService(repo repository.ReferralRepository, userRepo repository.UserRepository, cfg config.ReferralConfig) *PayoutService {
	return &PayoutService{
		repo:            repo,
		userRepo:        userRepo,
		tdsRate:         decimal.NewFromFloat(cfg.TDSRate),
		serviceTaxRate:  decimal.NewFromFloat(cfg.ServiceTaxRate),
		minPayoutAmount: decimal.NewFromFloat(cfg.MinPayoutAmount),
	}
}

// AvailableBalance 查询用户当前可提余额
// 已审核佣金总额减去未完结结算单占用额。
func (s *PayoutService) AvailableBalance(userID uint) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, ErrNotFound
	}
	approved, err := s.repo.SumEarningsByUser(userID, []string{constants.EarningStatusApproved})
	if err != nil {
		return decimal.Zero, err
	}
	reserved, err := s.repo.SumOpenPayoutGross(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return approved.Sub(reserved).Round(2), nil
}

// RequestPayout 申请提现
// 事务内先对用户的已审核佣金集合加行锁，再做单开单与余额校验，
// 并发申请在锁上串行化，后到者会看到先到者占用的余额或未完结结算单。
// 税费按申请时刻的税率固化。
func (s *PayoutService) RequestPayout(userID uint, gross decimal.Decimal) (*models.ReferralPayout, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	gross = gross.Round(2)
	if gross.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPayoutAmountInvalid
	}
	if gross.LessThan(s.minPayoutAmount) {
		return nil, ErrMinimumPayoutNotMet
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

	var payout *models.ReferralPayout
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		earnings, err := txRepo.ListApprovedEarningsForUpdate(userID)
		if err != nil {
			return err
		}

		openCount, err := txRepo.CountOpenPayoutsForUpdate(userID)
		if err != nil {
			return err
		}
		if openCount > 0 {
			return ErrPayoutAlreadyPending
		}

		approved := decimal.Zero
		for _, earning := range earnings {
			approved = approved.Add(earning.CommissionAmount.Decimal)
		}
		reserved, err := txRepo.SumOpenPayoutGross(userID)
		if err != nil {
			return err
		}
		available := approved.Sub(reserved)
		if gross.GreaterThan(available) {
			return ErrInsufficientBalance
		}

		now := time.Now()
		tds := gross.Mul(s.tdsRate).Round(2)
		serviceTax := gross.Mul(s.serviceTaxRate).Round(2)
		net := gross.Sub(tds).Sub(serviceTax).Round(2)
		payout = &models.ReferralPayout{
			PayoutNo:         fmt.Sprintf("PAY-%d-%d", now.Unix(), userID),
			UserID:           userID,
			GrossAmount:      models.NewMoneyFromDecimal(gross),
			TDSAmount:        models.NewMoneyFromDecimal(tds),
			ServiceTaxAmount: models.NewMoneyFromDecimal(serviceTax),
			NetAmount:        models.NewMoneyFromDecimal(net),
			Status:           constants.PayoutStatusRequested,
			RequestedAt:      now,
		}
		return txRepo.CreatePayout(payout)
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

// PayoutProcessInput 提现审核输入
type PayoutProcessInput struct {
	Action           string `json:"action"`
	PaymentReference string `json:"payment_reference"`
	RejectReason     string `json:"reject_reason"`
}

// ProcessPayout 管理端处理提现结算单
// approve: requested -> approved，需要支付凭证号；
// reject: requested -> rejected，需要驳回原因（释放占用余额）；
// complete: approved -> completed，并按入账先后将已审核佣金结清至申请总额。
func (s *PayoutService) ProcessPayout(payoutID uint, input PayoutProcessInput) (*models.ReferralPayout, error) {
	if payoutID == 0 {
		return nil, ErrPayoutNotFound
	}
	action := strings.TrimSpace(input.Action)

	var result *models.ReferralPayout
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		payout, err := txRepo.GetPayoutByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrPayoutNotFound
		}

		now := time.Now()
		switch action {
		case constants.PayoutActionApprove:
			if payout.Status != constants.PayoutStatusRequested {
				return ErrPayoutStatusInvalid
			}
			reference := strings.TrimSpace(input.PaymentReference)
			if reference == "" {
				return ErrPaymentReferenceEmpty
			}
			payout.Status = constants.PayoutStatusApproved
			payout.PaymentReference = reference
			payout.ProcessedAt = &now

		case constants.PayoutActionReject:
			if payout.Status != constants.PayoutStatusRequested {
				return ErrPayoutStatusInvalid
			}
			reason := strings.TrimSpace(input.RejectReason)
			if reason == "" {
				return ErrRejectReasonEmpty
			}
			payout.Status = constants.PayoutStatusRejected
			payout.RejectReason = reason
			payout.ProcessedAt = &now

		case constants.PayoutActionComplete:
			if payout.Status != constants.PayoutStatusApproved {
				return ErrPayoutStatusInvalid
			}
			if ref := strings.TrimSpace(input.PaymentReference); ref != "" {
				payout.PaymentReference = ref
			}
			if err := s.settleEarnings(txRepo, payout, now); err != nil {
				return err
			}
			payout.Status = constants.PayoutStatusCompleted
			payout.ProcessedAt = &now

		default:
			return ErrPayoutActionInvalid
		}

		if err := txRepo.UpdatePayout(payout); err != nil {
			return err
		}
		result = payout
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settleEarnings 按入账先后将已审核佣金标记为已结清，直至覆盖申请总额
func (s *PayoutService) settleEarnings(txRepo repository.ReferralRepository, payout *models.ReferralPayout, now time.Time) error {
	earnings, err := txRepo.ListApprovedEarningsForUpdate(payout.UserID)
	if err != nil {
		return err
	}
	remaining := payout.GrossAmount.Decimal
	ids := make([]uint, 0, len(earnings))
	for _, earning := range earnings {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		ids = append(ids, earning.ID)
		remaining = remaining.Sub(earning.CommissionAmount.Decimal)
	}
	if len(ids) == 0 {
		return nil
	}
	return txRepo.BatchUpdateEarnings(ids, map[string]interface{}{
		"status":     constants.EarningStatusPaid,
		"paid_at":    now,
		"updated_at": now,
	})
}

// GetPayout 按ID查询提现结算单
func (s *PayoutService) GetPayout(payoutID uint) (*models.ReferralPayout, error) {
	payout, err := s.repo.GetPayoutByID(payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// ListUserPayouts 查询用户的提现记录
func (s *PayoutService) ListUserPayouts(userID uint, status string, page, pageSize int) ([]models.ReferralPayout, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotFound
	}
	return s.repo.ListPayouts(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(status),
	})
}

// ListPayouts 管理端查询提现记录
func (s *PayoutService) ListPayouts(filter repository.PayoutListFilter) ([]models.ReferralPayout, int64, error) {
	return s.repo.ListPayouts(filter)
}
