package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plutarco/tienda-api/config"
)

// Login handles POST /api/v1/login - the admin panel form login. On a match
// against the configured credentials it returns the shared API key as a
// bearer token; the panel sends it back on every protected request.
func Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	cfg := config.GetConfig()
	if cfg == nil || cfg.AdminUser == "" || cfg.AdminPass == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVER_MISCONFIGURED",
				"message": "Admin credentials are not configured",
			},
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPass)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Incorrect username or password",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"access_token": cfg.APIKey},
	})
}
