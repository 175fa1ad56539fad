package middleware

import (
	"net/http"
	"strings"

	"aerodesk/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// RequireAuth validates the bearer token and stores the user identity on the
// context for downstream handlers and RequireRoles.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak ditemukan"})
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token tidak valid"})
			return
		}
		if id, ok := claims["user_id"].(float64); ok {
			c.Set(userIDKey, int64(id))
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(userRoleKey, role)
		}
		c.Next()
	}
}

// AuthContext returns the authenticated identity set by RequireAuth; zero
// value when the request is anonymous.
func AuthContext(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: domain.ID(c.GetInt64(userIDKey)),
		Role:   c.GetString(userRoleKey),
	}
}

// RequireRoles only lets through requests whose authenticated role is listed.
// Assumes RequireAuth ran earlier and set userRole on the context.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: role tidak ditemukan pada context",
			})
			return
		}

		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden: role tidak diizinkan",
			})
			return
		}

		c.Next()
	}
}
