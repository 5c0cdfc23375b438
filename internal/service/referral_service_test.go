package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupReferralServiceTest(t *testing.T) (*ReferralService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:referral_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.HostingPlan{},
		&models.Order{},
		&models.CommissionRule{},
		&models.ReferralEarning{},
		&models.ReferralPayout{},
		&models.ReferralStats{},
	); err != nil {
		t.Fatalf("migrate test db failed: %v", err)
	}

	svc := NewReferralService(
		repository.NewReferralRepository(db),
		repository.NewCommissionRuleRepository(db),
		repository.NewUserRepository(db),
		repository.NewOrderRepository(db),
		3,
	)
	return svc, db
}

func createReferralTestUser(t *testing.T, db *gorm.DB, email string, referredBy *uint) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
		ReferredBy:   referredBy,
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

func createReferralTestRule(t *testing.T, db *gorm.DB, level int, productType string, percent int64) *models.CommissionRule {
	t.Helper()
	rule := &models.CommissionRule{
		Level:           level,
		ProductType:     productType,
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(percent)),
		IsActive:        true,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create test rule failed: %v", err)
	}
	return rule
}

func createReferralTestOrder(t *testing.T, db *gorm.DB, userID uint, amount int64, status, productType string) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("ORD-%d", time.Now().UnixNano()),
		UserID:      userID,
		PlanID:      1,
		ProductType: productType,
		PlanType:    constants.PlanTypeRecurring,
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromInt(amount)),
		Status:      status,
	}
	if status == constants.OrderStatusCompleted {
		order.CompletedAt = &now
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create test order failed: %v", err)
	}
	return order
}

// 搭建 A <- B <- C <- D 四级推荐链，返回 [A, B, C, D]
func createReferralTestChain(t *testing.T, db *gorm.DB) []*models.User {
	t.Helper()
	a := createReferralTestUser(t, db, "a@test.local", nil)
	b := createReferralTestUser(t, db, "b@test.local", &a.ID)
	c := createReferralTestUser(t, db, "c@test.local", &b.ID)
	d := createReferralTestUser(t, db, "d@test.local", &c.ID)
	return []*models.User{a, b, c, d}
}

func TestPostCommissionsThreeLevelChain(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	chain := createReferralTestChain(t, db)
	a, b, c, d := chain[0], chain[1], chain[2], chain[3]

	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	createReferralTestRule(t, db, 2, "cloud_hosting", 5)
	createReferralTestRule(t, db, 3, "cloud_hosting", 2)
	order := createReferralTestOrder(t, db, d.ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")

	created, err := svc.PostCommissions(order.ID)
	if err != nil {
		t.Fatalf("post commissions failed: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("earnings count want 3 got %d", len(created))
	}

	byLevel := make(map[int]models.ReferralEarning, len(created))
	for _, earning := range created {
		byLevel[earning.Level] = earning
	}
	cases := []struct {
		level  int
		userID uint
		amount string
	}{
		{1, c.ID, "100"},
		{2, b.ID, "50"},
		{3, a.ID, "20"},
	}
	for _, tc := range cases {
		earning, ok := byLevel[tc.level]
		if !ok {
			t.Fatalf("missing L%d earning", tc.level)
		}
		if earning.UserID != tc.userID {
			t.Fatalf("L%d beneficiary want %d got %d", tc.level, tc.userID, earning.UserID)
		}
		if !earning.CommissionAmount.Decimal.Equal(decimal.RequireFromString(tc.amount)) {
			t.Fatalf("L%d commission want %s got %s", tc.level, tc.amount, earning.CommissionAmount.String())
		}
		if earning.SourceUserID != d.ID {
			t.Fatalf("L%d source user want %d got %d", tc.level, d.ID, earning.SourceUserID)
		}
		if earning.Status != constants.EarningStatusPending {
			t.Fatalf("L%d status want pending got %s", tc.level, earning.Status)
		}
	}
}

func TestPostCommissionsIdempotent(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	chain := createReferralTestChain(t, db)

	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	createReferralTestRule(t, db, 2, "cloud_hosting", 5)
	createReferralTestRule(t, db, 3, "cloud_hosting", 2)
	order := createReferralTestOrder(t, db, chain[3].ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")

	first, err := svc.PostCommissions(order.ID)
	if err != nil {
		t.Fatalf("first posting failed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("first posting count want 3 got %d", len(first))
	}

	second, err := svc.PostCommissions(order.ID)
	if err != nil {
		t.Fatalf("redelivery should not error: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("redelivery inserted rows want 0 got %d", len(second))
	}

	var count int64
	if err := db.Model(&models.ReferralEarning{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count earnings failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("total earnings for order want 3 got %d", count)
	}
}

func TestPostCommissionsMissingRuleSkipsLevel(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	chain := createReferralTestChain(t, db)

	// 只配置 L1/L2 规则，L3 应静默跳过
	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	createReferralTestRule(t, db, 2, "cloud_hosting", 5)
	order := createReferralTestOrder(t, db, chain[3].ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")

	created, err := svc.PostCommissions(order.ID)
	if err != nil {
		t.Fatalf("post commissions failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("earnings count want 2 got %d", len(created))
	}
	for _, earning := range created {
		if earning.Level == 3 {
			t.Fatalf("L3 earning should not be posted without an L3 rule")
		}
	}
}

func TestPostCommissionsOrderNotCompleted(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	chain := createReferralTestChain(t, db)

	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	order := createReferralTestOrder(t, db, chain[3].ID, 1000, constants.OrderStatusPending, "cloud_hosting")

	if _, err := svc.PostCommissions(order.ID); !errors.Is(err, ErrOrderNotCompleted) {
		t.Fatalf("pending order want ErrOrderNotCompleted got %v", err)
	}
	if _, err := svc.PostCommissions(99999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestPostCommissionsRuleEditDoesNotRewriteHistory(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	a := createReferralTestUser(t, db, "a@test.local", nil)
	b := createReferralTestUser(t, db, "b@test.local", &a.ID)

	rule := createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	order := createReferralTestOrder(t, db, b.ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")

	created, err := svc.PostCommissions(order.ID)
	if err != nil {
		t.Fatalf("post commissions failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("earnings count want 1 got %d", len(created))
	}

	// 入账后调高规则比例，历史流水金额不应变化
	rule.CommissionValue = models.NewMoneyFromDecimal(decimal.NewFromInt(50))
	if err := db.Save(rule).Error; err != nil {
		t.Fatalf("update rule failed: %v", err)
	}

	var earning models.ReferralEarning
	if err := db.First(&earning, created[0].ID).Error; err != nil {
		t.Fatalf("reload earning failed: %v", err)
	}
	if !earning.CommissionAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("posted commission want 100 got %s", earning.CommissionAmount.String())
	}
	if !earning.CommissionRate.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("rate snapshot want 10 got %s", earning.CommissionRate.String())
	}
}

func TestResolveUplineStopsOnCycle(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	a := createReferralTestUser(t, db, "a@test.local", nil)
	b := createReferralTestUser(t, db, "b@test.local", &a.ID)

	// 人为构造 A <-> B 环，遍历应在访问过的节点处截断
	a.ReferredBy = &b.ID
	if err := db.Save(a).Error; err != nil {
		t.Fatalf("create cyclic data failed: %v", err)
	}

	upline, err := svc.ResolveUpline(b.ID)
	if err != nil {
		t.Fatalf("resolve upline failed: %v", err)
	}
	if len(upline) != 1 {
		t.Fatalf("cyclic chain depth want 1 got %d", len(upline))
	}
	if upline[0].User.ID != a.ID {
		t.Fatalf("L1 ancestor want %d got %d", a.ID, upline[0].User.ID)
	}
}

func TestEarningStatusTransitions(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	a := createReferralTestUser(t, db, "a@test.local", nil)
	b := createReferralTestUser(t, db, "b@test.local", &a.ID)

	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	order1 := createReferralTestOrder(t, db, b.ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")
	order2 := createReferralTestOrder(t, db, b.ID, 2000, constants.OrderStatusCompleted, "cloud_hosting")

	first, err := svc.PostCommissions(order1.ID)
	if err != nil || len(first) != 1 {
		t.Fatalf("post order1 commissions failed: %v (%d rows)", err, len(first))
	}
	second, err := svc.PostCommissions(order2.ID)
	if err != nil || len(second) != 1 {
		t.Fatalf("post order2 commissions failed: %v (%d rows)", err, len(second))
	}

	approved, err := svc.ApproveEarning(first[0].ID)
	if err != nil {
		t.Fatalf("approve earning failed: %v", err)
	}
	if approved.Status != constants.EarningStatusApproved {
		t.Fatalf("status after approve want approved got %s", approved.Status)
	}
	if _, err := svc.ApproveEarning(first[0].ID); !errors.Is(err, ErrEarningStatusInvalid) {
		t.Fatalf("double approve want ErrEarningStatusInvalid got %v", err)
	}

	rejected, err := svc.RejectEarning(second[0].ID)
	if err != nil {
		t.Fatalf("reject earning failed: %v", err)
	}
	if rejected.Status != constants.EarningStatusRejected {
		t.Fatalf("status after reject want rejected got %s", rejected.Status)
	}
	if _, err := svc.ApproveEarning(99999); !errors.Is(err, ErrEarningNotFound) {
		t.Fatalf("missing earning want ErrEarningNotFound got %v", err)
	}
}

func TestBulkApproveEarningsPartialFailure(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	a := createReferralTestUser(t, db, "a@test.local", nil)
	b := createReferralTestUser(t, db, "b@test.local", &a.ID)

	createReferralTestRule(t, db, 1, "cloud_hosting", 10)
	order := createReferralTestOrder(t, db, b.ID, 1000, constants.OrderStatusCompleted, "cloud_hosting")
	created, err := svc.PostCommissions(order.ID)
	if err != nil || len(created) != 1 {
		t.Fatalf("post commissions failed: %v (%d rows)", err, len(created))
	}

	result, err := svc.BulkApproveEarnings([]uint{created[0].ID, created[0].ID, 99999, 0})
	if err != nil {
		t.Fatalf("bulk approve failed: %v", err)
	}
	if len(result.Approved) != 1 || result.Approved[0] != created[0].ID {
		t.Fatalf("approved want [%d] got %v", created[0].ID, result.Approved)
	}
	if len(result.Failed) != 1 || result.Failed[0].EarningID != 99999 {
		t.Fatalf("failed want [99999] got %v", result.Failed)
	}
}

func TestValidateReferralCode(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	active := createReferralTestUser(t, db, "active@test.local", nil)
	disabled := createReferralTestUser(t, db, "disabled@test.local", nil)
	disabled.Status = constants.UserStatusDisabled
	if err := db.Save(disabled).Error; err != nil {
		t.Fatalf("disable test user failed: %v", err)
	}

	owner, err := svc.ValidateReferralCode(active.ReferralCode)
	if err != nil {
		t.Fatalf("validate referral code failed: %v", err)
	}
	if owner.ID != active.ID {
		t.Fatalf("code owner want %d got %d", active.ID, owner.ID)
	}

	if _, err := svc.ValidateReferralCode(disabled.ReferralCode); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("disabled owner code want ErrReferralCodeInvalid got %v", err)
	}
	if _, err := svc.ValidateReferralCode(""); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("empty code want ErrReferralCodeInvalid got %v", err)
	}
	if _, err := svc.ValidateReferralCode("REF9999"); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("unknown code want ErrReferralCodeInvalid got %v", err)
	}
}

func TestListTeamByLevel(t *testing.T) {
	svc, db := setupReferralServiceTest(t)
	chain := createReferralTestChain(t, db)
	a := chain[0]

	members, err := svc.ListTeam(a.ID)
	if err != nil {
		t.Fatalf("list team failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("team size want 3 got %d", len(members))
	}
	expected := map[uint]int{chain[1].ID: 1, chain[2].ID: 2, chain[3].ID: 3}
	for _, member := range members {
		if expected[member.UserID] != member.Level {
			t.Fatalf("member %d level want %d got %d", member.UserID, expected[member.UserID], member.Level)
		}
	}
}
