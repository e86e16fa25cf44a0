package middlewares

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/tool"
)

// OnlyAllowLocal rejects requests whose client address is not a loopback address.
func OnlyAllowLocal(c *gin.Context) {
	if ip := net.ParseIP(c.ClientIP()); ip != nil && ip.IsLoopback() {
		c.Next()
		return
	}
	tool.DefaultLogger.Warnf("[Alias] rejected admin request from %s", c.ClientIP())
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		tool.FastReturnErrorWithMessage("forbidden", "This endpoint only accepts local requests."))
}
