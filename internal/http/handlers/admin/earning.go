package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminEarnings 查询佣金流水列表 (Admin)
func (h *Handler) GetAdminEarnings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	level, _ := strconv.Atoi(c.Query("level"))

	earnings, total, err := h.ReferralService.ListEarnings(repository.EarningListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		OrderID:  uint(orderID),
		Level:    level,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch earnings", err)
		return
	}

	response.SuccessWithPage(c, earnings, response.NewPagination(page, pageSize, total))
}

// ApproveEarning 审核通过单条佣金 (Admin)
func (h *Handler) ApproveEarning(c *gin.Context) {
	earningID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || earningID == 0 {
		respondError(c, response.CodeBadRequest, "earning id invalid", nil)
		return
	}

	earning, err := h.ReferralService.ApproveEarning(uint(earningID))
	if err != nil {
		respondEarningTransitionError(c, err)
		return
	}
	response.Success(c, earning)
}

// RejectEarning 驳回单条佣金 (Admin)
func (h *Handler) RejectEarning(c *gin.Context) {
	earningID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || earningID == 0 {
		respondError(c, response.CodeBadRequest, "earning id invalid", nil)
		return
	}

	earning, err := h.ReferralService.RejectEarning(uint(earningID))
	if err != nil {
		respondEarningTransitionError(c, err)
		return
	}
	response.Success(c, earning)
}

func respondEarningTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEarningNotFound):
		respondError(c, response.CodeNotFound, "earning not found", nil)
	case errors.Is(err, service.ErrEarningStatusInvalid):
		respondError(c, response.CodeBadRequest, "earning status invalid", nil)
	default:
		respondError(c, response.CodeInternal, "failed to process earning", err)
	}
}

// BulkApproveEarningsRequest 批量审核请求
type BulkApproveEarningsRequest struct {
	EarningIDs []uint `json:"earning_ids" binding:"required"`
}

// BulkApproveEarnings 批量审核佣金 (Admin)
// 逐条独立处理，返回成功与失败的分账结果。
func (h *Handler) BulkApproveEarnings(c *gin.Context) {
	var req BulkApproveEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if len(req.EarningIDs) == 0 {
		respondError(c, response.CodeBadRequest, "earning_ids required", nil)
		return
	}

	result, err := h.ReferralService.BulkApproveEarnings(req.EarningIDs)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to bulk approve earnings", err)
		return
	}
	response.Success(c, result)
}
