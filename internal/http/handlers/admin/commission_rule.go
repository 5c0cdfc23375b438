package admin

import (
	"errors"
	"strconv"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/repository"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCommissionRules 查询佣金规则列表 (Admin)
func (h *Handler) GetCommissionRules(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	level, _ := strconv.Atoi(c.Query("level"))

	rules, total, err := h.CommissionRuleService.List(repository.CommissionRuleListFilter{
		Page:        page,
		PageSize:    pageSize,
		Level:       level,
		ProductType: c.Query("product_type"),
		OnlyActive:  c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch commission rules", err)
		return
	}

	response.SuccessWithPage(c, rules, response.NewPagination(page, pageSize, total))
}

// CreateCommissionRule 创建佣金规则 (Admin)
func (h *Handler) CreateCommissionRule(c *gin.Context) {
	var input service.CommissionRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	rule, err := h.CommissionRuleService.Create(input)
	if err != nil {
		if errors.Is(err, service.ErrRuleInvalid) {
			respondError(c, response.CodeBadRequest, "commission rule invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create commission rule", err)
		return
	}
	response.Success(c, rule)
}

// UpdateCommissionRule 更新佣金规则 (Admin)
// 规则更新只影响之后的入账，历史流水不回溯。
func (h *Handler) UpdateCommissionRule(c *gin.Context) {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || ruleID == 0 {
		respondError(c, response.CodeBadRequest, "rule id invalid", nil)
		return
	}
	var input service.CommissionRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	rule, err := h.CommissionRuleService.Update(uint(ruleID), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRuleNotFound):
			respondError(c, response.CodeNotFound, "commission rule not found", nil)
		case errors.Is(err, service.ErrRuleInvalid):
			respondError(c, response.CodeBadRequest, "commission rule invalid", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update commission rule", err)
		}
		return
	}
	response.Success(c, rule)
}

// DeactivateCommissionRule 停用佣金规则 (Admin)
func (h *Handler) DeactivateCommissionRule(c *gin.Context) {
	ruleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || ruleID == 0 {
		respondError(c, response.CodeBadRequest, "rule id invalid", nil)
		return
	}

	rule, err := h.CommissionRuleService.Deactivate(uint(ruleID))
	if err != nil {
		if errors.Is(err, service.ErrRuleNotFound) {
			respondError(c, response.CodeNotFound, "commission rule not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to deactivate commission rule", err)
		return
	}
	response.Success(c, rule)
}
