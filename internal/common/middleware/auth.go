package middleware

import (
	"strings"

	"github.com/architect/natural-teacher/internal/common/cache"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

var tokenManager *auth.TokenManager

// InitAuth wires the token manager used by the auth middleware.
func InitAuth(tm *auth.TokenManager) {
	tokenManager = tm
}

// AuthRequired validates the Bearer token and loads its claims into
// the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWith(c, errors.Unauthorized("missing or invalid authorization header"))
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			abortWith(c, errors.Unauthorized("invalid or expired token"))
			return
		}

		// Tokens revoked by logout stay invalid until their natural expiry.
		if cache.IsTokenBlacklisted(token) {
			abortWith(c, errors.Unauthorized("token has been revoked"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// RequireRoles allows the request through only when the caller's role is
// one of the given roles. Must run after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abortWith(c, errors.Forbidden("insufficient role for this resource"))
	}
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortWith(c *gin.Context, appErr *errors.AppError) {
	c.JSON(appErr.Status, appErr)
	c.Abort()
}
