package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPayouts 查询提现结算单列表 (Admin)
func (h *Handler) GetAdminPayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	payouts, total, err := h.PayoutService.ListPayouts(repository.PayoutListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		PayoutNo: c.Query("payout_no"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch payouts", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.NewPagination(page, pageSize, total))
}

// ProcessPayout 处理提现结算单 (Admin)
// action: approve / reject / complete。
func (h *Handler) ProcessPayout(c *gin.Context) {
	payoutID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || payoutID == 0 {
		respondError(c, response.CodeBadRequest, "payout id invalid", nil)
		return
	}
	var input service.PayoutProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	payout, err := h.PayoutService.ProcessPayout(uint(payoutID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPayoutNotFound):
			respondError(c, response.CodeNotFound, "payout not found", nil)
		case errors.Is(err, service.ErrPayoutStatusInvalid):
			respondError(c, response.CodeBadRequest, "payout status invalid", nil)
		case errors.Is(err, service.ErrPayoutActionInvalid):
			respondError(c, response.CodeBadRequest, "payout action invalid", nil)
		case errors.Is(err, service.ErrPaymentReferenceEmpty):
			respondError(c, response.CodeBadRequest, "payment reference required", nil)
		case errors.Is(err, service.ErrRejectReasonEmpty):
			respondError(c, response.CodeBadRequest, "reject reason required", nil)
		default:
			respondError(c, response.CodeInternal, "failed to process payout", err)
		}
		return
	}
	response.Success(c, payout)
}
