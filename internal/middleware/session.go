package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
	"github.com/noah-isme/sra-panel-api/pkg/response"
)

// SessionHeader carries the caller's session identifier.
const SessionHeader = "X-Session-ID"

const sessionContextKey = "session_id"

// RequireSession rejects requests without a session identifier. Handlers
// behind this middleware can rely on SessionID returning a non-empty value.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sessionID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing "+SessionHeader+" header"))
			c.Abort()
			return
		}
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session identifier extracted by RequireSession.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}
