package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"onboarding-records/internal/session"
	"onboarding-records/internal/store"
)

const (
	claimsKey       = "claims"
	requestIDHeader = "X-Request-ID"
)

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.RequestURI()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func extractToken(authHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return strings.TrimSpace(authHeader)
}

// requireAuth resolves the bearer token and stores its claims on the context.
// The signed-in username becomes the store actor for audit columns.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, http.StatusUnauthorized, "authorization header is required")
			return
		}

		claims, err := h.auth.Resolve(token)
		if err != nil {
			h.respondWithError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Request = c.Request.WithContext(store.WithActor(c.Request.Context(), claims.Username))
		c.Next()
	}
}

func requireRole(role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || claims.Role != role {
			writeError(c, http.StatusForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *session.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*session.Claims)
	return claims
}
