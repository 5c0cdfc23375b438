package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPlans 查询套餐列表 (Admin)
func (h *Handler) GetAdminPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	plans, total, err := h.PlanService.List(service.PlanListFilterInput{
		Page:        page,
		PageSize:    pageSize,
		PlanType:    c.Query("plan_type"),
		ProductType: c.Query("product_type"),
		Search:      c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch plans", err)
		return
	}

	response.SuccessWithPage(c, plans, response.NewPagination(page, pageSize, total))
}

// CreatePlan 创建套餐 (Admin)
func (h *Handler) CreatePlan(c *gin.Context) {
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	plan, err := h.PlanService.Create(input)
	if err != nil {
		if errors.Is(err, service.ErrPlanInvalid) {
			respondError(c, response.CodeBadRequest, "hosting plan invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create plan", err)
		return
	}
	response.Success(c, plan)
}

// UpdatePlan 更新套餐 (Admin)
func (h *Handler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || planID == 0 {
		respondError(c, response.CodeBadRequest, "plan id invalid", nil)
		return
	}
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	plan, err := h.PlanService.Update(uint(planID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			respondError(c, response.CodeNotFound, "hosting plan not found", nil)
		case errors.Is(err, service.ErrPlanInvalid):
			respondError(c, response.CodeBadRequest, "hosting plan invalid", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update plan", err)
		}
		return
	}
	response.Success(c, plan)
}
