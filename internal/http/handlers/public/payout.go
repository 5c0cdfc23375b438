package public

import (
	"errors"
	"strconv"

	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetMyReferralBalance 查询当前可提余额
func (h *Handler) GetMyReferralBalance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	balance, err := h.PayoutService.AvailableBalance(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch balance", err)
		return
	}
	response.Success(c, gin.H{"available_balance": balance})
}

// RequestPayoutRequest 申请提现请求
type RequestPayoutRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RequestPayout 申请提现
func (h *Handler) RequestPayout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	payout, err := h.PayoutService.RequestPayout(userID, req.Amount)
	if err != nil {
		respondPayoutRequestError(c, err)
		return
	}
	response.Success(c, payout)
}

// GetMyPayouts 查询我的提现记录
func (h *Handler) GetMyPayouts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	status := c.Query("status")

	payouts, total, err := h.PayoutService.ListUserPayouts(userID, status, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch payouts", err)
		return
	}
	response.SuccessWithPage(c, payouts, response.NewPagination(page, pageSize, total))
}

// GetMyPayout 查询我的单笔提现
func (h *Handler) GetMyPayout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	payoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || payoutID == 0 {
		respondError(c, response.CodeBadRequest, "payout id invalid", nil)
		return
	}

	payout, err := h.PayoutService.GetPayout(uint(payoutID))
	if err != nil {
		if errors.Is(err, service.ErrPayoutNotFound) {
			respondError(c, response.CodeNotFound, "payout not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch payout", err)
		return
	}
	if payout.UserID != userID {
		respondError(c, response.CodeNotFound, "payout not found", nil)
		return
	}
	response.Success(c, payout)
}
