package public

import (
	"errors"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/response"
	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCommonErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: "order status invalid"},
	{target: service.ErrPlanNotFound, code: response.CodeNotFound, msg: "hosting plan not found"},
	{target: service.ErrPlanInactive, code: response.CodeBadRequest, msg: "hosting plan inactive"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "user disabled"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "resource not found"},
}

var payoutRequestErrorRules = []mappedHandlerError{
	{target: service.ErrPayoutAmountInvalid, code: response.CodeBadRequest, msg: "payout amount invalid"},
	{target: service.ErrMinimumPayoutNotMet, code: response.CodeBadRequest, msg: "payout amount below minimum"},
	{target: service.ErrPayoutAlreadyPending, code: response.CodeBadRequest, msg: "another payout is already pending"},
	{target: service.ErrInsufficientBalance, code: response.CodeBadRequest, msg: "insufficient payable balance"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "user disabled"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "resource not found"},
}

func respondOrderError(c *gin.Context, err error, fallbackMsg string) {
	respondWithMappedError(c, err, orderCommonErrorRules, response.CodeInternal, fallbackMsg)
}

func respondPayoutRequestError(c *gin.Context, err error) {
	respondWithMappedError(c, err, payoutRequestErrorRules, response.CodeInternal, "failed to request payout")
}
