package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the originating client address, preferring the first
// entry of X-Forwarded-For when the request came through a proxy.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	return c.ClientIP()
}
