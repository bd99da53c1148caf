package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

const authUserKey = "auth_user"

// SessionCookie is the cookie the parent app sets after login. The bearer
// header takes precedence when both are present.
const SessionCookie = "session"

type sessionClaims struct {
	UserID string `json:"user_id"`
	RoleID int    `json:"role_id"`
	IsPaid bool   `json:"is_paid"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the session token and stores the authenticated
// user in the request context.
func AuthMiddleware(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid || claims.UserID == "" {
			logger.Debug("Rejected session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		c.Set(authUserKey, model.AuthUser{
			UserID: claims.UserID,
			RoleID: claims.RoleID,
			IsPaid: claims.IsPaid,
		})
		c.Next()
	}
}

// AdminRequired rejects callers without the admin role. Must run after
// AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by AuthMiddleware.
func CurrentUser(c *gin.Context) model.AuthUser {
	if v, ok := c.Get(authUserKey); ok {
		if u, ok := v.(model.AuthUser); ok {
			return u
		}
	}
	return model.AuthUser{}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
