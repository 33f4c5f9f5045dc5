package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emberly-app/emberly-backend/internal/config"
	"github.com/emberly-app/emberly-backend/internal/db"
	"github.com/emberly-app/emberly-backend/internal/repository"
	"github.com/emberly-app/emberly-backend/internal/tier"
)

const ContextUserKey = "current_user"

// Middleware authenticates bearer tokens and loads the caller's user row
// into the gin context. Token issuance itself lives with the session
// subsystem; the matching API only validates.
func Middleware(cfg *config.Config, users *repository.UserRepository) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account unavailable"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Middleware.
func CurrentUser(c *gin.Context) db.User {
	user, _ := c.Get(ContextUserKey)
	u, _ := user.(db.User)
	return u
}

// RequireTier rejects callers below the given tier. This is the route-level
// guard; the tier gate inside the likes-you service shapes the payload again
// as a second layer.
func RequireTier(min tier.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if !tier.Parse(u.Tier).AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "subscription tier too low"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
