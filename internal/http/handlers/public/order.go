package public

import (
	"strconv"

	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(userID, req.PlanID)
	if err != nil {
		respondOrderError(c, err, "failed to create order")
		return
	}
	response.Success(c, order)
}

// ListOrders 查询我的订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 查询我的单笔订单
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, ok := h.getOwnedOrder(c, userID)
	if !ok {
		return
	}
	response.Success(c, order)
}

// CompleteOrder 确认订单支付完成，触发开通与佣金入账
func (h *Handler) CompleteOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, ok := h.getOwnedOrder(c, userID)
	if !ok {
		return
	}

	completed, err := h.OrderService.CompleteOrder(order.ID)
	if err != nil {
		respondOrderError(c, err, "failed to complete order")
		return
	}
	response.Success(c, completed)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	order, ok := h.getOwnedOrder(c, userID)
	if !ok {
		return
	}

	cancelled, err := h.OrderService.CancelOrder(order.ID)
	if err != nil {
		respondOrderError(c, err, "failed to cancel order")
		return
	}
	response.Success(c, cancelled)
}

// getOwnedOrder 按路径参数读取订单并校验归属，失败时已写入响应。
func (h *Handler) getOwnedOrder(c *gin.Context, userID uint) (*models.Order, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "order id invalid", nil)
		return nil, false
	}
	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		respondOrderError(c, err, "failed to fetch order")
		return nil, false
	}
	if order.UserID != userID {
		respondError(c, response.CodeNotFound, "order not found", nil)
		return nil, false
	}
	return order, true
}
