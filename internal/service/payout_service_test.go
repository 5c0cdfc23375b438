package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/config"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPayoutServiceTest(t *testing.T) (*PayoutService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:payout_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.HostingPlan{},
		&models.Order{},
		&models.ReferralEarning{},
		&models.ReferralPayout{},
	); err != nil {
		t.Fatalf("migrate test db failed: %v", err)
	}

	svc := NewPayoutService(
		repository.NewReferralRepository(db),
		repository.NewUserRepository(db),
		config.ReferralConfig{
			TDSRate:         0.10,
			ServiceTaxRate:  0.18,
			MinPayoutAmount: 500,
		},
	)
	return svc, db
}

func createPayoutTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user failed: %v", err)
	}
	user.ReferralCode = FormatReferralCode(user.ID)
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("backfill referral code failed: %v", err)
	}
	return user
}

// createApprovedTestEarning 直接写入一笔已审核佣金，earnedAt 控制结清顺序
func createApprovedTestEarning(t *testing.T, db *gorm.DB, userID, orderID uint, amount int64, earnedAt time.Time) *models.ReferralEarning {
	t.Helper()
	earning := &models.ReferralEarning{
		UserID:           userID,
		SourceUserID:     userID + 1000,
		OrderID:          orderID,
		Level:            1,
		OrderAmount:      models.NewMoneyFromDecimal(decimal.NewFromInt(amount * 10)),
		CommissionRate:   models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CommissionType:   constants.CommissionTypePercentage,
		CommissionAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(amount)),
		Status:           constants.EarningStatusApproved,
		EarnedAt:         earnedAt,
	}
	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("create test earning failed: %v", err)
	}
	return earning
}

func TestRequestPayoutTaxBreakdown(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}
	if !payout.GrossAmount.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("gross want 500 got %s", payout.GrossAmount.String())
	}
	if !payout.TDSAmount.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("tds want 50 got %s", payout.TDSAmount.String())
	}
	if !payout.ServiceTaxAmount.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("service tax want 90 got %s", payout.ServiceTaxAmount.String())
	}
	if !payout.NetAmount.Decimal.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("net want 360 got %s", payout.NetAmount.String())
	}
	if payout.Status != constants.PayoutStatusRequested {
		t.Fatalf("initial status want requested got %s", payout.Status)
	}
	if !strings.HasPrefix(payout.PayoutNo, "PAY-") {
		t.Fatalf("payout no format unexpected: %s", payout.PayoutNo)
	}
}

func TestRequestPayoutBelowMinimum(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(100)); !errors.Is(err, ErrMinimumPayoutNotMet) {
		t.Fatalf("below minimum want ErrMinimumPayoutNotMet got %v", err)
	}
	if _, err := svc.RequestPayout(user.ID, decimal.Zero); !errors.Is(err, ErrPayoutAmountInvalid) {
		t.Fatalf("zero amount want ErrPayoutAmountInvalid got %v", err)
	}
	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(-10)); !errors.Is(err, ErrPayoutAmountInvalid) {
		t.Fatalf("negative amount want ErrPayoutAmountInvalid got %v", err)
	}
}

func TestRequestPayoutInsufficientBalance(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(700)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("over balance want ErrInsufficientBalance got %v", err)
	}
}

func TestRequestPayoutSingleOpenPayout(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 1200, time.Now())

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500)); !errors.Is(err, ErrPayoutAlreadyPending) {
		t.Fatalf("with open payout want ErrPayoutAlreadyPending got %v", err)
	}
}

// 提现全生命周期内总额不得超过已审核佣金：
// 500 佣金结清后再次申请 500 必须被余额校验拒绝。
func TestRequestPayoutCannotOverdrawApprovedEarnings(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 500, time.Now())

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionApprove, PaymentReference: "UTR-100"}); err != nil {
		t.Fatalf("approve payout failed: %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionComplete}); err != nil {
		t.Fatalf("complete payout failed: %v", err)
	}

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("second request want ErrInsufficientBalance got %v", err)
	}

	balance, err := svc.AvailableBalance(user.ID)
	if err != nil {
		t.Fatalf("query balance failed: %v", err)
	}
	if !balance.Equal(decimal.Zero) {
		t.Fatalf("balance after settlement want 0 got %s", balance)
	}
}

func TestAvailableBalanceReservesOpenPayout(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 1200, time.Now())

	balance, err := svc.AvailableBalance(user.ID)
	if err != nil {
		t.Fatalf("query balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("initial balance want 1200 got %s", balance)
	}

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	balance, err = svc.AvailableBalance(user.ID)
	if err != nil {
		t.Fatalf("query balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("balance after request want 700 got %s", balance)
	}
}

func TestProcessPayoutCompleteSettlesEarningsInOrder(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	now := time.Now()
	// 三笔 300，按入账先后排列；500 的结算单应结清最早两笔，最新一笔保持已审核
	oldest := createApprovedTestEarning(t, db, user.ID, 1, 300, now.Add(-3*time.Hour))
	middle := createApprovedTestEarning(t, db, user.ID, 2, 300, now.Add(-2*time.Hour))
	newest := createApprovedTestEarning(t, db, user.ID, 3, 300, now.Add(-1*time.Hour))

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionApprove, PaymentReference: "UTR-001"}); err != nil {
		t.Fatalf("approve payout failed: %v", err)
	}
	completed, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionComplete})
	if err != nil {
		t.Fatalf("complete payout failed: %v", err)
	}
	if completed.Status != constants.PayoutStatusCompleted {
		t.Fatalf("status after complete want completed got %s", completed.Status)
	}
	if completed.PaymentReference != "UTR-001" {
		t.Fatalf("payment reference want UTR-001 got %s", completed.PaymentReference)
	}

	for _, id := range []uint{oldest.ID, middle.ID} {
		var earning models.ReferralEarning
		if err := db.First(&earning, id).Error; err != nil {
			t.Fatalf("reload earning failed: %v", err)
		}
		if earning.Status != constants.EarningStatusPaid {
			t.Fatalf("earning %d want paid got %s", id, earning.Status)
		}
		if earning.PaidAt == nil {
			t.Fatalf("earning %d missing paid_at", id)
		}
	}

	var remaining models.ReferralEarning
	if err := db.First(&remaining, newest.ID).Error; err != nil {
		t.Fatalf("reload earning failed: %v", err)
	}
	if remaining.Status != constants.EarningStatusApproved {
		t.Fatalf("newest earning want approved got %s", remaining.Status)
	}
	if remaining.PaidAt != nil {
		t.Fatalf("newest earning should not carry paid_at")
	}
}

func TestProcessPayoutApproveRequiresReference(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionApprove}); !errors.Is(err, ErrPaymentReferenceEmpty) {
		t.Fatalf("approve without reference want ErrPaymentReferenceEmpty got %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionApprove, PaymentReference: "  "}); !errors.Is(err, ErrPaymentReferenceEmpty) {
		t.Fatalf("blank reference want ErrPaymentReferenceEmpty got %v", err)
	}

	approved, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionApprove, PaymentReference: "UTR-042"})
	if err != nil {
		t.Fatalf("approve payout failed: %v", err)
	}
	if approved.Status != constants.PayoutStatusApproved {
		t.Fatalf("status after approve want approved got %s", approved.Status)
	}
	if approved.PaymentReference != "UTR-042" {
		t.Fatalf("payment reference want UTR-042 got %s", approved.PaymentReference)
	}
}

func TestProcessPayoutRejectReleasesBalance(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionReject}); !errors.Is(err, ErrRejectReasonEmpty) {
		t.Fatalf("empty reject reason want ErrRejectReasonEmpty got %v", err)
	}

	rejected, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{
		Action:       constants.PayoutActionReject,
		RejectReason: "bank details mismatch",
	})
	if err != nil {
		t.Fatalf("reject payout failed: %v", err)
	}
	if rejected.Status != constants.PayoutStatusRejected {
		t.Fatalf("status after reject want rejected got %s", rejected.Status)
	}

	balance, err := svc.AvailableBalance(user.ID)
	if err != nil {
		t.Fatalf("query balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("balance after reject want 600 got %s", balance)
	}
}

func TestProcessPayoutInvalidTransitions(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	payout, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("request payout failed: %v", err)
	}

	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: constants.PayoutActionComplete}); !errors.Is(err, ErrPayoutStatusInvalid) {
		t.Fatalf("complete on requested want ErrPayoutStatusInvalid got %v", err)
	}
	if _, err := svc.ProcessPayout(payout.ID, PayoutProcessInput{Action: "unknown"}); !errors.Is(err, ErrPayoutActionInvalid) {
		t.Fatalf("unknown action want ErrPayoutActionInvalid got %v", err)
	}
	if _, err := svc.ProcessPayout(99999, PayoutProcessInput{Action: constants.PayoutActionApprove}); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("missing payout want ErrPayoutNotFound got %v", err)
	}
}

func TestRequestPayoutDisabledUser(t *testing.T) {
	svc, db := setupPayoutServiceTest(t)
	user := createPayoutTestUser(t, db, "payee@test.local")
	createApprovedTestEarning(t, db, user.ID, 1, 600, time.Now())

	user.Status = constants.UserStatusDisabled
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("disable test user failed: %v", err)
	}

	if _, err := svc.RequestPayout(user.ID, decimal.NewFromInt(500)); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user payout want ErrUserDisabled got %v", err)
	}
}
