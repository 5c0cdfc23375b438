package repository

import (
	"errors"
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository 推荐佣金数据访问接口
type ReferralRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ReferralRepository

	CreateEarning(earning *models.ReferralEarning) (bool, error)
	GetEarningByID(id uint) (*models.ReferralEarning, error)
	GetEarningByIDForUpdate(id uint) (*models.ReferralEarning, error)
	UpdateEarning(earning *models.ReferralEarning) error
	ListEarnings(filter EarningListFilter) ([]models.ReferralEarning, int64, error)
	ListEarningsByOrder(orderID uint) ([]models.ReferralEarning, error)
	SumEarningsByUser(userID uint, statuses []string) (decimal.Decimal, error)
	SumEarningsByUserGrouped(userID uint) (map[string]decimal.Decimal, error)
	ListApprovedEarningsForUpdate(userID uint) ([]models.ReferralEarning, error)
	BatchUpdateEarnings(ids []uint, updates map[string]interface{}) error

	CreatePayout(payout *models.ReferralPayout) error
	UpdatePayout(payout *models.ReferralPayout) error
	GetPayoutByID(id uint) (*models.ReferralPayout, error)
	GetPayoutByIDForUpdate(id uint) (*models.ReferralPayout, error)
	ListPayouts(filter PayoutListFilter) ([]models.ReferralPayout, int64, error)
	CountOpenPayoutsForUpdate(userID uint) (int64, error)
	SumOpenPayoutGross(userID uint) (decimal.Decimal, error)

	UpsertStats(stats *models.ReferralStats) error
	GetStatsByUserID(userID uint) (*models.ReferralStats, error)
}

// GormReferralRepository GORM 推荐佣金仓储
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建推荐佣金仓储
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReferralRepository) WithTx(tx *gorm.DB) ReferralRepository {
	if tx == nil {
		return r
	}
	return &GormReferralRepository{db: tx}
}

// Transaction 执行事务
func (r *GormReferralRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// CreateEarning 创建佣金流水
// 命中唯一约束 (user_id, order_id, level) 时静默跳过，返回是否实际插入，
// 以支持任务重投时的幂等入账。
func (r *GormReferralRepository) CreateEarning(earning *models.ReferralEarning) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "order_id"}, {Name: "level"}},
		DoNothing: true,
	}).Create(earning)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetEarningByID 按ID获取佣金流水
func (r *GormReferralRepository) GetEarningByID(id uint) (*models.ReferralEarning, error) {
	if id == 0 {
		return nil, nil
	}
	var earning models.ReferralEarning
	if err := r.db.Preload("SourceUser").Preload("Order").First(&earning, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &earning, nil
}

// GetEarningByIDForUpdate 按ID锁定获取佣金流水
func (r *GormReferralRepository) GetEarningByIDForUpdate(id uint) (*models.ReferralEarning, error) {
	if id == 0 {
		return nil, nil
	}
	var earning models.ReferralEarning
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&earning, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &earning, nil
}

// UpdateEarning 更新佣金流水
func (r *GormReferralRepository) UpdateEarning(earning *models.ReferralEarning) error {
	return r.db.Save(earning).Error
}

// ListEarnings 查询佣金流水列表
func (r *GormReferralRepository) ListEarnings(filter EarningListFilter) ([]models.ReferralEarning, int64, error) {
	query := r.db.Model(&models.ReferralEarning{}).Preload("SourceUser").Preload("Order")
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.SourceID != 0 {
		query = query.Where("source_user_id = ?", filter.SourceID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Level > 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.ReferralEarning
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListEarningsByOrder 按订单查询佣金流水
func (r *GormReferralRepository) ListEarningsByOrder(orderID uint) ([]models.ReferralEarning, error) {
	if orderID == 0 {
		return []models.ReferralEarning{}, nil
	}
	var rows []models.ReferralEarning
	if err := r.db.Where("order_id = ?", orderID).Order("level asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumEarningsByUser 汇总指定状态的佣金金额
func (r *GormReferralRepository) SumEarningsByUser(userID uint, statuses []string) (decimal.Decimal, error) {
	if userID == 0 || len(statuses) == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.ReferralEarning{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Select("COALESCE(SUM(commission_amount), 0) AS total").
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// SumEarningsByUserGrouped 按状态分组汇总佣金金额
func (r *GormReferralRepository) SumEarningsByUserGrouped(userID uint) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal)
	if userID == 0 {
		return result, nil
	}
	var rows []struct {
		Status string          `gorm:"column:status"`
		Total  decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.ReferralEarning{}).
		Select("status, COALESCE(SUM(commission_amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.Status] = row.Total.Round(2)
	}
	return result, nil
}

// ListApprovedEarningsForUpdate 按入账时间先后锁定已审核佣金
func (r *GormReferralRepository) ListApprovedEarningsForUpdate(userID uint) ([]models.ReferralEarning, error) {
	if userID == 0 {
		return []models.ReferralEarning{}, nil
	}
	var rows []models.ReferralEarning
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, constants.EarningStatusApproved).
		Order("earned_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchUpdateEarnings 批量更新佣金流水
func (r *GormReferralRepository) BatchUpdateEarnings(ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.ReferralEarning{}).Where("id IN ?", ids).Updates(updates).Error
}

// CreatePayout 创建提现结算单
func (r *GormReferralRepository) CreatePayout(payout *models.ReferralPayout) error {
	return r.db.Create(payout).Error
}

// UpdatePayout 更新提现结算单
func (r *GormReferralRepository) UpdatePayout(payout *models.ReferralPayout) error {
	return r.db.Save(payout).Error
}

// GetPayoutByID 按ID获取提现结算单
func (r *GormReferralRepository) GetPayoutByID(id uint) (*models.ReferralPayout, error) {
	if id == 0 {
		return nil, nil
	}
	var payout models.ReferralPayout
	if err := r.db.Preload("User").First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// GetPayoutByIDForUpdate 按ID锁定获取提现结算单
func (r *GormReferralRepository) GetPayoutByIDForUpdate(id uint) (*models.ReferralPayout, error) {
	if id == 0 {
		return nil, nil
	}
	var payout models.ReferralPayout
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// ListPayouts 查询提现结算单列表
func (r *GormReferralRepository) ListPayouts(filter PayoutListFilter) ([]models.ReferralPayout, int64, error) {
	query := r.db.Model(&models.ReferralPayout{}).Preload("User")
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if payoutNo := strings.TrimSpace(filter.PayoutNo); payoutNo != "" {
		query = query.Where("payout_no LIKE ?", "%"+payoutNo+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.ReferralPayout
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountOpenPayoutsForUpdate 锁定统计未完结的提现结算单
// requested 与 approved 视为未完结，占用可提余额。
func (r *GormReferralRepository) CountOpenPayoutsForUpdate(userID uint) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	var rows []models.ReferralPayout
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status IN ?", userID, []string{constants.PayoutStatusRequested, constants.PayoutStatusApproved}).
		Find(&rows).Error; err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// SumOpenPayoutGross 汇总未完结结算单占用的总额
func (r *GormReferralRepository) SumOpenPayoutGross(userID uint) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.ReferralPayout{}).
		Where("user_id = ? AND status IN ?", userID, []string{constants.PayoutStatusRequested, constants.PayoutStatusApproved}).
		Select("COALESCE(SUM(gross_amount), 0) AS total").
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// UpsertStats 整行写入推荐统计快照
func (r *GormReferralRepository) UpsertStats(stats *models.ReferralStats) error {
	if stats == nil || stats.UserID == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"level1_count", "level2_count", "level3_count", "total_team_count",
			"active_level1_count", "active_level2_count", "active_level3_count",
			"pending_commission", "approved_commission", "paid_commission", "total_commission",
			"last_computed_at", "updated_at",
		}),
	}).Create(stats).Error
}

// GetStatsByUserID 按用户ID获取推荐统计快照
func (r *GormReferralRepository) GetStatsByUserID(userID uint) (*models.ReferralStats, error) {
	if userID == 0 {
		return nil, nil
	}
	var stats models.ReferralStats
	if err := r.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
