package auth

import (
	"net/http"
	"strings"

	"notekit/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextKeyUserID = "user_id"
	contextKeyToken  = "access_token"
	contextKeyClaims = "access_claims"
)

// UserIDFromContext returns the current user ID set by RequireAuth. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// TokenFromContext returns the raw bearer token and its claims, for handlers
// that need to act on the presented token itself (logout, account deletion).
func TokenFromContext(c *gin.Context) (string, *Claims) {
	raw, _ := c.Get(contextKeyToken)
	cl, _ := c.Get(contextKeyClaims)
	token, _ := raw.(string)
	claims, _ := cl.(*Claims)
	return token, claims
}

// RequireAuth returns a middleware that verifies the bearer access token and
// sets the current user ID in context. Revocation is checked against the
// denylist; if that check errors the request is rejected (fail closed).
func RequireAuth(tokens *Manager, store *Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("authorization required"))
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil || claims.TokenType != TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("invalid or expired token"))
			return
		}
		revoked, err := store.IsBlacklisted(c.Request.Context(), raw)
		if err != nil {
			log.Warn("denylist check failed, rejecting request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("authorization required"))
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Error("token revoked"))
			return
		}
		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyToken, raw)
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}
