package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func JWTAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		accountID, err := uuid.Parse(claims.AccountID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		session.Attach(c, session.Principal{
			AccountID: accountID,
			Kind:      claims.Kind,
			Email:     claims.Email,
			Role:      claims.Role,
		})
		c.Next()
	}
}

// OptionalAuthMiddleware attaches a principal when a valid token is sent
// and lets anonymous requests through untouched.
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwtManager.ValidateToken(tokenString); err == nil {
				if accountID, err := uuid.Parse(claims.AccountID); err == nil {
					session.Attach(c, session.Principal{
						AccountID: accountID,
						Kind:      claims.Kind,
						Email:     claims.Email,
						Role:      claims.Role,
					})
				}
			}
		}
		c.Next()
	}
}

func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := session.FromGin(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if p.Role == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
		c.Abort()
	}
}

func KindMiddleware(kinds ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := session.FromGin(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		for _, kind := range kinds {
			if p.Kind == kind {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, "Forbidden: account type not allowed")
		c.Abort()
	}
}
