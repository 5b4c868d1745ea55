package middleware

import (
	"biokuiz/internal/model"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"biokuiz/pkg/monitoring"
	"biokuiz/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a session token to the logged-in principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Principal, error)
}

// SessionToken returns the bearer token if present, otherwise the token in
// the signed session cookie.
func SessionToken(c *gin.Context, cookie *security.SessionCookie) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); token != "" {
			return token
		}
	}
	if cookie == nil {
		return ""
	}
	return cookie.Token(c)
}

func AuthMiddleware(auth Authenticator, cookie *security.SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookie)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Log.Debug("session rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetPrincipal(c, p)
		c.Next()
	}
}

// CapabilityMiddleware lets the request through only when the principal's
// role grants capability. It must run after AuthMiddleware.
func CapabilityMiddleware(capability model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := util.GetPrincipal(c)
		if p == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if !p.Can(capability) {
			monitoring.ForbiddenRequests.WithLabelValues(c.FullPath()).Inc()
			logger.Log.Warn("forbidden",
				zap.String("username", p.Username),
				zap.String("role", string(p.Role)),
				zap.String("path", c.FullPath()),
			)
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
