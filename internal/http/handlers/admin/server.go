package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminServers 查询服务器列表 (Admin)
func (h *Handler) GetAdminServers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	planID, _ := strconv.ParseUint(c.Query("plan_id"), 10, 64)

	servers, total, err := h.ServerService.ListServers(repository.ServerListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		PlanID:   uint(planID),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch servers", err)
		return
	}

	response.SuccessWithPage(c, servers, response.NewPagination(page, pageSize, total))
}

// UpdateServerStatusRequest 更新服务器状态请求
type UpdateServerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateServerStatus 更新服务器状态 (Admin)
func (h *Handler) UpdateServerStatus(c *gin.Context) {
	serverID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || serverID == 0 {
		respondError(c, response.CodeBadRequest, "server id invalid", nil)
		return
	}
	var req UpdateServerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	server, err := h.ServerService.UpdateStatus(uint(serverID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "server not found", nil)
		case errors.Is(err, service.ErrServerStatusInvalid):
			respondError(c, response.CodeBadRequest, "server status invalid", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update server status", err)
		}
		return
	}
	response.Success(c, server)
}
