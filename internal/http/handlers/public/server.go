package public

import (
	"errors"
	"strconv"

	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMyServers 查询我的服务器列表
func (h *Handler) ListMyServers(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	servers, total, err := h.ServerService.ListServers(repository.ServerListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch servers", err)
		return
	}
	response.SuccessWithPage(c, servers, response.NewPagination(page, pageSize, total))
}

// GetMyServer 查询我的单台服务器
func (h *Handler) GetMyServer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	serverID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || serverID == 0 {
		respondError(c, response.CodeBadRequest, "server id invalid", nil)
		return
	}

	server, err := h.ServerService.GetServer(uint(serverID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "server not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch server", err)
		return
	}
	if server.UserID != userID {
		respondError(c, response.CodeNotFound, "server not found", nil)
		return
	}
	response.Success(c, server)
}
