package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func newAuthRouter(issuer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(testSecret, issuer), func(c *gin.Context) {
		actor, ok := middleware.GetActorFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, actor)
	})
	return r
}

func call(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sign(t *testing.T, secret, issuer string, actor domain.Actor, expiresIn time.Duration) string {
	t.Helper()
	token, err := middleware.SignActorToken(secret, issuer, actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := newAuthRouter("trust-ledger")
	token := sign(t, testSecret, "trust-ledger", domain.Actor{UserID: "user-1", CanApproveImports: true}, time.Hour)

	w := call(r, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"user-1"`)
	assert.Contains(t, w.Body.String(), `"canApproveImports":true`)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	r := newAuthRouter("trust-ledger")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + sign(t, "some-other-secret", "trust-ledger", domain.Actor{UserID: "user-1"}, time.Hour)},
		{"wrong issuer", "Bearer " + sign(t, testSecret, "someone-else", domain.Actor{UserID: "user-1"}, time.Hour)},
		{"expired", "Bearer " + sign(t, testSecret, "trust-ledger", domain.Actor{UserID: "user-1"}, -time.Minute)},
		{"no subject", "Bearer " + sign(t, testSecret, "trust-ledger", domain.Actor{}, time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredMessage(t *testing.T) {
	r := newAuthRouter("")
	w := call(r, "Bearer "+sign(t, testSecret, "", domain.Actor{UserID: "user-1"}, -time.Minute))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}
