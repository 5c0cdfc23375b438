package service

import (
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

func setupStatsServiceTest(t *testing.T) (*StatsService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:stats_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.HostingPlan{},
		&models.Order{},
		&models.ReferralEarning{},
		&models.ReferralStats{},
	); err != nil {
		t.Fatalf("migrate test db failed: %v", err)
	}

	svc := NewStatsService(
		repository.NewReferralRepository(db),
		repository.NewUserRepository(db),
		repository.NewOrderRepository(db),
		3,
	)
	return svc, db
}

func createStatsTestUser(t *testing.T, db *gorm.DB, email string, referredBy *uint) *models.User {
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

func createStatsTestEarning(t *testing.T, db *gorm.DB, userID, orderID uint, amount int64, status string) {
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
		Status:           status,
		EarnedAt:         time.Now(),
	}
	if err := db.Create(earning).Error; err != nil {
		t.Fatalf("create test earning failed: %v", err)
	}
}

func createStatsTestCompletedOrder(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:     fmt.Sprintf("ORD-%d", time.Now().UnixNano()),
		UserID:      userID,
		PlanID:      1,
		ProductType: "cloud_hosting",
		PlanType:    constants.PlanTypeRecurring,
		Amount:      models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		Status:      constants.OrderStatusCompleted,
		CompletedAt: &now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create test order failed: %v", err)
	}
}

func TestRecomputeTeamCounts(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	root := createStatsTestUser(t, db, "root@test.local", nil)
	b := createStatsTestUser(t, db, "b@test.local", &root.ID)
	createStatsTestUser(t, db, "c@test.local", &root.ID)
	createStatsTestUser(t, db, "d@test.local", &b.ID)

	// b 有已完成订单，属于活跃下级；c、d 没有
	createStatsTestCompletedOrder(t, db, b.ID)

	stats, err := svc.Recompute(root.ID)
	if err != nil {
		t.Fatalf("recompute stats failed: %v", err)
	}
	if stats.Level1Count != 2 {
		t.Fatalf("L1 count want 2 got %d", stats.Level1Count)
	}
	if stats.Level2Count != 1 {
		t.Fatalf("L2 count want 1 got %d", stats.Level2Count)
	}
	if stats.Level3Count != 0 {
		t.Fatalf("L3 count want 0 got %d", stats.Level3Count)
	}
	if stats.TotalTeamCount != 3 {
		t.Fatalf("team total want 3 got %d", stats.TotalTeamCount)
	}
	if stats.ActiveLevel1Count != 1 {
		t.Fatalf("L1 active count want 1 got %d", stats.ActiveLevel1Count)
	}
	if stats.ActiveLevel2Count != 0 {
		t.Fatalf("L2 active count want 0 got %d", stats.ActiveLevel2Count)
	}
}

func TestRecomputeCommissionSums(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	user := createStatsTestUser(t, db, "root@test.local", nil)

	createStatsTestEarning(t, db, user.ID, 1, 100, constants.EarningStatusPending)
	createStatsTestEarning(t, db, user.ID, 2, 50, constants.EarningStatusApproved)
	createStatsTestEarning(t, db, user.ID, 3, 20, constants.EarningStatusPaid)
	// rejected 不计入任何累计
	createStatsTestEarning(t, db, user.ID, 4, 999, constants.EarningStatusRejected)

	stats, err := svc.Recompute(user.ID)
	if err != nil {
		t.Fatalf("recompute stats failed: %v", err)
	}
	if !stats.PendingCommission.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("pending commission want 100 got %s", stats.PendingCommission.String())
	}
	if !stats.ApprovedCommission.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("approved commission want 50 got %s", stats.ApprovedCommission.String())
	}
	if !stats.PaidCommission.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("paid commission want 20 got %s", stats.PaidCommission.String())
	}
	if !stats.TotalCommission.Decimal.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("total commission want 170 got %s", stats.TotalCommission.String())
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	root := createStatsTestUser(t, db, "root@test.local", nil)
	createStatsTestUser(t, db, "b@test.local", &root.ID)
	createStatsTestEarning(t, db, root.ID, 1, 100, constants.EarningStatusApproved)

	first, err := svc.Recompute(root.ID)
	if err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	second, err := svc.Recompute(root.ID)
	if err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	if first.Level1Count != second.Level1Count || !first.TotalCommission.Decimal.Equal(second.TotalCommission.Decimal) {
		t.Fatalf("recompute results diverge: %+v vs %+v", first, second)
	}

	var count int64
	if err := db.Model(&models.ReferralStats{}).Where("user_id = ?", root.ID).Count(&count).Error; err != nil {
		t.Fatalf("count stats rows failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stats rows per user want 1 got %d", count)
	}
}

func TestGetStatsComputesWhenMissing(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	root := createStatsTestUser(t, db, "root@test.local", nil)
	createStatsTestUser(t, db, "b@test.local", &root.ID)

	stats, err := svc.GetStats(root.ID)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.Level1Count != 1 {
		t.Fatalf("L1 count after on-demand compute want 1 got %d", stats.Level1Count)
	}

	var count int64
	if err := db.Model(&models.ReferralStats{}).Where("user_id = ?", root.ID).Count(&count).Error; err != nil {
		t.Fatalf("count stats rows failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stats rows after on-demand compute want 1 got %d", count)
	}
}

func TestRecomputeAllSkipsFailures(t *testing.T) {
	svc, db := setupStatsServiceTest(t)
	createStatsTestUser(t, db, "a@test.local", nil)
	createStatsTestUser(t, db, "b@test.local", nil)

	recomputed, err := svc.RecomputeAll()
	if err != nil {
		t.Fatalf("recompute all failed: %v", err)
	}
	if recomputed != 2 {
		t.Fatalf("recomputed users want 2 got %d", recomputed)
	}
}
