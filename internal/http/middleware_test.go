package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed/internal/service"
)

func TestRequireTokenAttachesClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens := service.NewTokenIssuer(testSecret, 0)
	h := &Handler{tokens: tokens, logger: logger}

	var fromGin, fromCtx string
	router := gin.New()
	router.GET("/me", h.requireToken(), func(c *gin.Context) {
		if claims, ok := ClaimsFromContext(c); ok {
			fromGin = claims.ID
		}
		if claims, ok := service.ClaimsFromContext(c.Request.Context()); ok {
			fromCtx = claims.ID
		}
		c.Status(http.StatusNoContent)
	})

	token, err := tokens.Issue("user-42")
	require.NoError(t, err)

	for _, header := range []string{token, "Bearer " + token, "Bearer    " + token} {
		fromGin, fromCtx = "", ""
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code, header)
		assert.Equal(t, "user-42", fromGin)
		assert.Equal(t, "user-42", fromCtx)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(securityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
}
