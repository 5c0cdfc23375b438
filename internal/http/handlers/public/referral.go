package public

import (
	"errors"
	"strconv"

	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateReferralCode 校验推荐码（公开接口）
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	code := c.Query("code")
	referrer, err := h.ReferralService.ValidateReferralCode(code)
	if err != nil {
		if errors.Is(err, service.ErrReferralCodeInvalid) {
			response.Success(c, gin.H{"valid": false})
			return
		}
		respondError(c, response.CodeInternal, "failed to validate referral code", err)
		return
	}
	response.Success(c, gin.H{
		"valid":         true,
		"referrer_name": referrer.FullName,
	})
}

// GetMyReferralSummary 查询我的推荐概况
func (h *Handler) GetMyReferralSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch user", err)
		return
	}
	stats, err := h.StatsService.GetStats(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch referral stats", err)
		return
	}
	response.Success(c, gin.H{
		"referral_code": user.ReferralCode,
		"stats":         stats,
	})
}

// GetMyReferralStats 查询我的推荐统计快照
func (h *Handler) GetMyReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	stats, err := h.StatsService.GetStats(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch referral stats", err)
		return
	}
	response.Success(c, stats)
}

// GetMyReferralEarnings 查询我的佣金流水
func (h *Handler) GetMyReferralEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	status := c.Query("status")

	earnings, total, err := h.ReferralService.ListUserEarnings(userID, status, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch earnings", err)
		return
	}
	response.SuccessWithPage(c, earnings, response.NewPagination(page, pageSize, total))
}

// GetMyReferralTeam 查询我的下级团队
func (h *Handler) GetMyReferralTeam(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	members, err := h.ReferralService.ListTeam(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch referral team", err)
		return
	}
	response.Success(c, gin.H{
		"members": members,
		"total":   len(members),
	})
}
