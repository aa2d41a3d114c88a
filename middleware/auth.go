package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plutarco/tienda-api/config"
)

// RequireAPIKey is the shared-secret gate in front of the admin routes. The
// secret is accepted either as an X-API-Key header or as a bearer token
// (the login endpoint hands the same value out as access_token). Requests
// are rejected before any handler or database work runs.
//
// Which routes are public and which are protected is decided once, in the
// route registration: protected groups get this middleware attached. There
// is no prefix-list matching whose ordering could silently flip a route's
// exposure.
func RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.GetConfig()
		if cfg == nil || cfg.APIKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVER_MISCONFIGURED",
					"message": "API key is not configured",
				},
			})
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or invalid API key",
				},
			})
			return
		}

		c.Next()
	}
}
