package admin

import (
	handlershared "github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "admin_id")
}
