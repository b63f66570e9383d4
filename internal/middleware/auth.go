package middleware

import (
	"net/http"
	"strings"

	"anoa.com/ideaboard/internal/auth"
	"anoa.com/ideaboard/internal/authz"
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens auth.TokenIssuer
}

func NewAuthMiddleware(tokens auth.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and stores the user id and role claims.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		role, err := entity.ParseUserRole(string(claims.Role))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token claims"})
			return
		}

		c.Set(response.ContextUserID, claims.Subject)
		c.Set(response.ContextRole, string(role))
		c.Next()
	}
}

// RequireRoles must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(roles ...entity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.UserRole(response.GetRole(c))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
			return
		}

		if !authz.HasRole(role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "you do not have permission to perform this action"})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRoles(entity.RoleAdmin)
}

func (m *AuthMiddleware) RequireManager() gin.HandlerFunc {
	return m.RequireRoles(entity.RoleManager)
}
