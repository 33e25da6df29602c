package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"social-feed/internal/service"
)

const (
	requestIDContextKey = "request_id"
	requestIDHeaderName = "X-Request-ID"

	// userContextKey holds the verified *service.TokenClaims.
	userContextKey = "user"

	// bodyLimitSlack covers multipart framing and the text fields sent
	// alongside a picture.
	bodyLimitSlack = 64 << 10
)

var errBodyTooLarge = errors.New("request body too large")

func requestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

// ClaimsFromContext returns the token claims set by the auth middleware.
func ClaimsFromContext(c *gin.Context) (*service.TokenClaims, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.TokenClaims)
	return claims, ok
}

// requestLogger tags every request with an ID and logs its outcome.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		requestID := normalizeRequestID(c.GetHeader(requestIDHeaderName))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set(requestIDHeaderName, requestID)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(startedAt).Microseconds()) / 1000.0,
			"client_ip":  c.ClientIP(),
		}
		if claims, ok := ClaimsFromContext(c); ok {
			fields["user_id"] = claims.ID
		}
		logger.WithFields(fields).Info("request")
	}
}

func normalizeRequestID(raw string) string {
	candidate := strings.TrimSpace(raw)
	if len(candidate) > 128 {
		candidate = candidate[:128]
	}
	return candidate
}

// limitBody caps request bodies at limit bytes. Declared lengths over the
// limit are rejected before any of the body is read.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large."})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// bodyTooLarge returns an errBodyTooLarge error when err came from reading
// past the body limit, and nil otherwise.
func bodyTooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return nil
	}
	return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		// pictures are loaded by a client served from another origin
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		c.Next()
	}
}

// requireToken rejects requests without a valid session token. A missing
// token is 403, a token that fails verification is 401.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.tokens.Verify(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, service.ErrAccessDenied) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access Denied."})
				return
			}
			h.logger.WithField("request_id", requestIDFromContext(c)).WithError(err).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
			return
		}

		c.Set(userContextKey, claims)
		c.Request = c.Request.WithContext(service.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
