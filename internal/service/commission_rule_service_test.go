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

func setupCommissionRuleServiceTest(t *testing.T) (*CommissionRuleService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:commission_rule_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CommissionRule{}); err != nil {
		t.Fatalf("migrate test db failed: %v", err)
	}
	return NewCommissionRuleService(repository.NewCommissionRuleRepository(db)), db
}

func createRuleTestRule(t *testing.T, db *gorm.DB, level int, productType string, percent int64, priority int, active bool) *models.CommissionRule {
	t.Helper()
	rule := &models.CommissionRule{
		Level:           level,
		ProductType:     productType,
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(percent)),
		IsActive:        active,
		Priority:        priority,
	}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("create test rule failed: %v", err)
	}
	return rule
}

func TestRateForHighestPriorityWins(t *testing.T) {
	svc, db := setupCommissionRuleServiceTest(t)
	createRuleTestRule(t, db, 1, "cloud_hosting", 5, 0, true)
	winner := createRuleTestRule(t, db, 1, "cloud_hosting", 8, 10, true)

	rule, err := svc.RateFor(1, "cloud_hosting")
	if err != nil {
		t.Fatalf("query active rule failed: %v", err)
	}
	if rule.ID != winner.ID {
		t.Fatalf("active rule want %d got %d", winner.ID, rule.ID)
	}
	if !rule.CommissionValue.Decimal.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("rule value want 8 got %s", rule.CommissionValue.String())
	}
}

func TestRateForLatestWinsOnPriorityTie(t *testing.T) {
	svc, db := setupCommissionRuleServiceTest(t)
	createRuleTestRule(t, db, 1, "cloud_hosting", 5, 0, true)
	latest := createRuleTestRule(t, db, 1, "cloud_hosting", 7, 0, true)

	rule, err := svc.RateFor(1, "cloud_hosting")
	if err != nil {
		t.Fatalf("query active rule failed: %v", err)
	}
	if rule.ID != latest.ID {
		t.Fatalf("priority tie want latest rule %d got %d", latest.ID, rule.ID)
	}
}

func TestRateForIgnoresInactiveRules(t *testing.T) {
	svc, db := setupCommissionRuleServiceTest(t)
	createRuleTestRule(t, db, 1, "cloud_hosting", 5, 0, false)

	if _, err := svc.RateFor(1, "cloud_hosting"); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("inactive-only level want ErrRuleNotFound got %v", err)
	}
	if _, err := svc.RateFor(2, "cloud_hosting"); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("ruleless level want ErrRuleNotFound got %v", err)
	}
}

func TestCreateRuleValidation(t *testing.T) {
	svc, _ := setupCommissionRuleServiceTest(t)

	cases := []struct {
		name  string
		input CommissionRuleInput
	}{
		{"level below range", CommissionRuleInput{Level: 0, ProductType: "cloud_hosting", CommissionType: constants.CommissionTypePercentage, CommissionValue: decimal.NewFromInt(5)}},
		{"level above range", CommissionRuleInput{Level: 4, ProductType: "cloud_hosting", CommissionType: constants.CommissionTypePercentage, CommissionValue: decimal.NewFromInt(5)}},
		{"blank product type", CommissionRuleInput{Level: 1, ProductType: "  ", CommissionType: constants.CommissionTypePercentage, CommissionValue: decimal.NewFromInt(5)}},
		{"unknown commission type", CommissionRuleInput{Level: 1, ProductType: "cloud_hosting", CommissionType: "bonus", CommissionValue: decimal.NewFromInt(5)}},
		{"negative value", CommissionRuleInput{Level: 1, ProductType: "cloud_hosting", CommissionType: constants.CommissionTypePercentage, CommissionValue: decimal.NewFromInt(-1)}},
		{"percentage over 100", CommissionRuleInput{Level: 1, ProductType: "cloud_hosting", CommissionType: constants.CommissionTypePercentage, CommissionValue: decimal.NewFromInt(150)}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(tc.input); !errors.Is(err, ErrRuleInvalid) {
			t.Fatalf("%s: want ErrRuleInvalid got %v", tc.name, err)
		}
	}

	// 固定金额不受 100 上限约束
	rule, err := svc.Create(CommissionRuleInput{
		Level:           1,
		ProductType:     "dedicated_server",
		CommissionType:  constants.CommissionTypeFixed,
		CommissionValue: decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("create fixed rule failed: %v", err)
	}
	if !rule.IsActive {
		t.Fatalf("rule should default to active")
	}
}

func TestUpdateRule(t *testing.T) {
	svc, db := setupCommissionRuleServiceTest(t)
	rule := createRuleTestRule(t, db, 1, "cloud_hosting", 5, 0, true)

	updated, err := svc.Update(rule.ID, CommissionRuleInput{
		Level:           2,
		ProductType:     "cloud_hosting",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: decimal.NewFromInt(3),
		Priority:        5,
	})
	if err != nil {
		t.Fatalf("update rule failed: %v", err)
	}
	if updated.Level != 2 || updated.Priority != 5 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.CommissionValue.Decimal.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("updated value want 3 got %s", updated.CommissionValue.String())
	}

	if _, err := svc.Update(99999, CommissionRuleInput{
		Level:           1,
		ProductType:     "cloud_hosting",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: decimal.NewFromInt(5),
	}); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("missing rule want ErrRuleNotFound got %v", err)
	}
}

func TestDeactivateRule(t *testing.T) {
	svc, db := setupCommissionRuleServiceTest(t)
	rule := createRuleTestRule(t, db, 1, "cloud_hosting", 5, 0, true)

	deactivated, err := svc.Deactivate(rule.ID)
	if err != nil {
		t.Fatalf("deactivate rule failed: %v", err)
	}
	if deactivated.IsActive {
		t.Fatalf("rule should be inactive after deactivate")
	}
	if _, err := svc.RateFor(1, "cloud_hosting"); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("deactivated rule lookup want ErrRuleNotFound got %v", err)
	}

	// 重复停用是幂等的
	again, err := svc.Deactivate(rule.ID)
	if err != nil {
		t.Fatalf("repeat deactivate should not error: %v", err)
	}
	if again.IsActive {
		t.Fatalf("rule should stay inactive after repeat deactivate")
	}
}
