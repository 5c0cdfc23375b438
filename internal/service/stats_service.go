package service

import (
	"context"
	"time"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/cache"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/logger"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/shopspring/decimal"
)

const statsCacheTTL = 10 * time.Minute

// StatsService 推荐统计业务服务
// 统计行是派生缓存：每次重算都从用户关系与佣金流水全量重建，
// 不做增量修补。
type StatsService struct {
	repo      repository.ReferralRepository
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	maxLevels int
}

// NewStatsService 创建推荐统计服务
func NewStatsService(
	repo repository.ReferralRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	maxLevels int,
) *StatsService {
	if maxLevels <= 0 || maxLevels > constants.ReferralLevelMax {
		maxLevels = constants.ReferralLevelMax
	}
	return &StatsService{
		repo:      repo,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		maxLevels: maxLevels,
	}
}

// Recompute 全量重建某用户的推荐统计快照
func (s *StatsService) Recompute(userID uint) (*models.ReferralStats, error) {
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

	levelCounts := make([]int64, s.maxLevels)
	activeCounts := make([]int64, s.maxLevels)
	frontier := []uint{userID}
	for level := 1; level <= s.maxLevels; level++ {
		rows, err := s.userRepo.ListByReferrers(frontier)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		activeIDs, err := s.orderRepo.ListUserIDsWithCompletedOrders(ids)
		if err != nil {
			return nil, err
		}
		levelCounts[level-1] = int64(len(ids))
		activeCounts[level-1] = int64(len(activeIDs))
		frontier = ids
	}

	sums, err := s.repo.SumEarningsByUserGrouped(userID)
	if err != nil {
		return nil, err
	}
	pending := sums[constants.EarningStatusPending]
	approved := sums[constants.EarningStatusApproved]
	paid := sums[constants.EarningStatusPaid]
	total := decimal.Sum(pending, approved, paid).Round(2)

	now := time.Now()
	stats := &models.ReferralStats{
		UserID:             userID,
		Level1Count:        levelCounts[0],
		TotalTeamCount:     levelCounts[0],
		ActiveLevel1Count:  activeCounts[0],
		PendingCommission:  models.NewMoneyFromDecimal(pending),
		ApprovedCommission: models.NewMoneyFromDecimal(approved),
		PaidCommission:     models.NewMoneyFromDecimal(paid),
		TotalCommission:    models.NewMoneyFromDecimal(total),
		LastComputedAt:     now,
	}
	if s.maxLevels >= 2 {
		stats.Level2Count = levelCounts[1]
		stats.ActiveLevel2Count = activeCounts[1]
		stats.TotalTeamCount += levelCounts[1]
	}
	if s.maxLevels >= 3 {
		stats.Level3Count = levelCounts[2]
		stats.ActiveLevel3Count = activeCounts[2]
		stats.TotalTeamCount += levelCounts[2]
	}

	if err := s.repo.UpsertStats(stats); err != nil {
		return nil, err
	}
	if err := cache.Del(context.Background(), cache.ReferralStatsKey(userID)); err != nil {
		logger.Warnw("referral_stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}
	return stats, nil
}

// GetStats 查询用户统计快照（Redis 读穿透缓存）
// 快照缺失时现场重算一次。
func (s *StatsService) GetStats(userID uint) (*models.ReferralStats, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	ctx := context.Background()
	var cached models.ReferralStats
	if hit, err := cache.GetJSON(ctx, cache.ReferralStatsKey(userID), &cached); err == nil && hit {
		return &cached, nil
	}

	stats, err := s.repo.GetStatsByUserID(userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats, err = s.Recompute(userID)
		if err != nil {
			return nil, err
		}
	}
	if err := cache.SetJSON(ctx, cache.ReferralStatsKey(userID), stats, statsCacheTTL); err != nil {
		logger.Warnw("referral_stats_cache_set_failed", "user_id", userID, "error", err)
	}
	return stats, nil
}

// RecomputeAll 全量对账：重算所有用户的统计快照
// 单个用户失败只记日志，不中断整体对账。
func (s *StatsService) RecomputeAll() (int, error) {
	ids, err := s.userRepo.ListAllIDs()
	if err != nil {
		return 0, err
	}
	recomputed := 0
	for _, id := range ids {
		if _, err := s.Recompute(id); err != nil {
			logger.Warnw("referral_stats_recompute_failed", "user_id", id, "error", err)
			continue
		}
		recomputed++
	}
	return recomputed, nil
}
