package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminUsers 查询用户列表 (Admin)
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	referredBy, _ := strconv.ParseUint(c.Query("referred_by"), 10, 64)

	users, total, err := h.UserRepo.List(repository.UserListFilter{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    c.Query("keyword"),
		Status:     c.Query("status"),
		ReferredBy: uint(referredBy),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch users", err)
		return
	}

	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetAdminUser 查询用户详情 (Admin)
func (h *Handler) GetAdminUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch user", err)
		return
	}
	response.Success(c, user)
}

// GetAdminUserReferralStats 查询用户推荐统计 (Admin)
func (h *Handler) GetAdminUserReferralStats(c *gin.Context) {
	userID, ok := parseUserID(c)
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

// RecomputeUserReferralStats 强制重算用户推荐统计 (Admin)
func (h *Handler) RecomputeUserReferralStats(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	stats, err := h.StatsService.Recompute(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to recompute referral stats", err)
		return
	}
	response.Success(c, stats)
}

func parseUserID(c *gin.Context) (uint, bool) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "user id invalid", nil)
		return 0, false
	}
	return uint(userID), true
}
