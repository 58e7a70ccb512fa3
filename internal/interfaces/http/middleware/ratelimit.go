package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crm/backend/internal/infrastructure/ratelimit"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimit checks the sliding-window limiter before handling the request.
// Authenticated callers are limited per user, everyone else per client IP.
// When the limiter rejects, the response carries Retry-After and the
// X-RateLimit headers.
func RateLimit(limiter *ratelimit.Limiter, trustProxyHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := requestIdentity(c, trustProxyHeaders)

		result := limiter.Check(c.Request.Context(), identity)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("Too many requests. Please try again later."))
			return
		}
		c.Next()
	}
}

// requestIdentity derives the limiter identity: "user:<id>" for
// authenticated requests, otherwise "ip:<addr>". Proxy headers are only
// consulted when trustProxyHeaders is set; a spoofable X-Forwarded-For must
// never widen someone's budget by default.
func requestIdentity(c *gin.Context, trustProxyHeaders bool) string {
	if principal, ok := GetPrincipal(c); ok {
		return fmt.Sprintf("user:%s", principal.UserID)
	}
	return fmt.Sprintf("ip:%s", clientIP(c, trustProxyHeaders))
}

func clientIP(c *gin.Context, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		// First hop of X-Forwarded-For is the original client
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}
		if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
			return realIP
		}
	}
	if ip := c.RemoteIP(); ip != "" {
		return ip
	}
	return "unknown"
}
