package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/uploadkit/tool"
)

// OnlyAllowLocal restricts a route to loopback clients.
func OnlyAllowLocal(c *gin.Context) {
	if ip := c.ClientIP(); ip == "127.0.0.1" || ip == "::1" {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Forbidden"))
}
