package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS lets the budgeting front-end call the API. origens is a comma
// separated allow-list; empty allows any origin. Retry-After is exposed so
// the front-end can back off when a scenario hits the calculation limit.
func CORS(origens string) gin.HandlerFunc {
	permitidas := make(map[string]struct{})
	for _, o := range strings.Split(origens, ",") {
		if o = strings.TrimSpace(o); o != "" {
			permitidas[o] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origem := c.GetHeader("Origin")
		switch {
		case len(permitidas) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case origem != "":
			c.Header("Vary", "Origin")
			if _, ok := permitidas[origem]; !ok {
				if c.Request.Method == http.MethodOptions {
					c.AbortWithStatus(http.StatusForbidden)
					return
				}
				c.Next()
				return
			}
			c.Header("Access-Control-Allow-Origin", origem)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
		c.Header("Access-Control-Max-Age", "600")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
