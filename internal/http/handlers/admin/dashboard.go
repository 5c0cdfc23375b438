package admin

import (
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/constants"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 后台概览 (Admin)
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	_, userTotal, err := h.UserRepo.List(repository.UserListFilter{Page: 1, PageSize: 1})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch overview", err)
		return
	}
	_, orderTotal, err := h.OrderRepo.List(repository.OrderListFilter{Page: 1, PageSize: 1})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch overview", err)
		return
	}
	_, completedOrderTotal, err := h.OrderRepo.List(repository.OrderListFilter{
		Page: 1, PageSize: 1, Status: constants.OrderStatusCompleted,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch overview", err)
		return
	}
	_, pendingEarningTotal, err := h.ReferralRepo.ListEarnings(repository.EarningListFilter{
		Page: 1, PageSize: 1, Status: constants.EarningStatusPending,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch overview", err)
		return
	}
	_, openPayoutTotal, err := h.ReferralRepo.ListPayouts(repository.PayoutListFilter{
		Page: 1, PageSize: 1, Status: constants.PayoutStatusRequested,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch overview", err)
		return
	}

	response.Success(c, gin.H{
		"user_total":            userTotal,
		"order_total":           orderTotal,
		"completed_order_total": completedOrderTotal,
		"pending_earning_total": pendingEarningTotal,
		"open_payout_total":     openPayoutTotal,
	})
}
