package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 查询订单列表 (Admin)
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch orders", err)
		return
	}

	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 查询订单详情 (Admin)
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}

	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}
	response.Success(c, order)
}

// AdminCompleteOrder 管理端标记订单完成 (Admin)
// 重复完成是幂等操作，不会重复入账佣金。
func (h *Handler) AdminCompleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return
	}

	order, err := h.OrderService.CompleteOrder(uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "order status invalid", nil)
		default:
			respondError(c, response.CodeInternal, "failed to complete order", err)
		}
		return
	}
	response.Success(c, order)
}
