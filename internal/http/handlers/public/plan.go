package public

import (
	"errors"
	"strconv"

	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPlans 查询在售套餐列表（公开接口）
func (h *Handler) GetPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	plans, total, err := h.PlanService.List(service.PlanListFilterInput{
		Page:        page,
		PageSize:    pageSize,
		PlanType:    c.Query("plan_type"),
		ProductType: c.Query("product_type"),
		Search:      c.Query("search"),
		OnlyActive:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch plans", err)
		return
	}
	response.SuccessWithPage(c, plans, response.NewPagination(page, pageSize, total))
}

// GetPlanBySlug 按标识符查询套餐（公开接口）
func (h *Handler) GetPlanBySlug(c *gin.Context) {
	plan, err := h.PlanService.GetPlanBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "hosting plan not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch plan", err)
		return
	}
	if !plan.IsActive {
		respondError(c, response.CodeNotFound, "hosting plan not found", nil)
		return
	}
	response.Success(c, plan)
}
