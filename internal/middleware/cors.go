package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows any origin: the floor terminals and station tablets reach the
// API from whatever host serves their frontend, and auth is a bearer token
// rather than cookies, so a wildcard carries no credential risk.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
		// Tablets poll constantly; let them cache the preflight for a day.
		c.Header("Access-Control-Max-Age", "86400")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
