package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/e-commerce-order-api/internal/user/domain"
	"github.com/ridloal/e-commerce-order-api/internal/user/service"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"
)

// AuthRequired memvalidasi header "Authorization: Bearer <token>" dan menaruh
// identitas user di context gin.
func AuthRequired(us service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := us.VerifyAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly menggabungkan AuthRequired + cek role untuk route yang dipasang
// tanpa AuthRequired di group-nya.
func AdminOnly(us service.UserService) gin.HandlerFunc {
	authRequired := AuthRequired(us)
	adminRequired := AdminRequired()
	return func(c *gin.Context) {
		authRequired(c)
		if c.IsAborted() {
			return
		}
		adminRequired(c)
	}
}

// AdminRequired dipasang SETELAH AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRoleKey)
		if !exists || role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
