package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"todo-services/internal/apperr"
	"todo-services/internal/token"
	"todo-services/pkg/logger"
)

const identityKey = "identity"

// AuthMiddleware verifies the Bearer token on every request and stores the
// caller's identity on the gin context. Nothing is remembered between requests.
func AuthMiddleware(secret string, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if secret == "" {
			logger.Error(ctx, "JWT secret not configured")
			abort(c, http.StatusInternalServerError, "Server misconfiguration")
			return
		}
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			abortErr(c, token.ErrMissingToken)
			return
		}
		id, err := token.Verify(raw, []byte(secret), now())
		if err != nil {
			logger.Debug(ctx, "JWT verify failed", "error", err)
			abortErr(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(logger.WithOwnerID(ctx, id.OwnerID))
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware.
func IdentityFrom(c *gin.Context) (token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	id, ok := v.(token.Identity)
	return id, ok && id.OwnerID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(rest)
	return raw, raw != ""
}

func abortErr(c *gin.Context, err error) {
	abort(c, apperr.KindOf(err).HTTPStatus(), apperr.PublicMessage(err))
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": gin.H{"message": message}})
}
