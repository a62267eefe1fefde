package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"motofix/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, role, typ string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(), "username": "tester", "role": role, "typ": typ,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(testSecret))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetClaims(c).Role, "finance": Can(c, policy.ViewFinance)})
	})
	r.GET("/users", RequireCapability(policy.ManageUsers), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := testRouter()

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not.a.token", http.StatusUnauthorized},
		{"expired", signToken(t, policy.RoleCashier, "access", -time.Second), http.StatusUnauthorized},
		{"refresh token", signToken(t, policy.RoleCashier, "refresh", time.Hour), http.StatusUnauthorized},
		{"valid", signToken(t, policy.RoleCashier, "access", time.Hour), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, get(r, "/me", tc.token).Code)
		})
	}
}

func TestCan_FollowsRole(t *testing.T) {
	r := testRouter()

	w := get(r, "/me", signToken(t, policy.RoleMechanic, "access", time.Hour))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"MEKANIK","finance":false}`, w.Body.String())

	w = get(r, "/me", signToken(t, policy.RoleCashier, "access", time.Hour))
	assert.JSONEq(t, `{"role":"KASIR","finance":true}`, w.Body.String())
}

func TestRequireCapability(t *testing.T) {
	r := testRouter()

	assert.Equal(t, http.StatusForbidden, get(r, "/users", signToken(t, policy.RoleCashier, "access", time.Hour)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/users", signToken(t, policy.RoleAdmin, "access", time.Hour)).Code)
}

func TestWindowLimiter(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	l := newWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.1")
	assert.True(t, ok)
	ok, end := l.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), end)

	ok, _ = l.allow("10.0.0.2")
	assert.True(t, ok, "limits are per IP")

	now = now.Add(61 * time.Second)
	assert.Equal(t, 2, l.purge())
	ok, _ = l.allow("10.0.0.1")
	assert.True(t, ok, "a new window starts after expiry")
}

func TestRateLimiter_Returns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(1, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	w := get(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = get(r, "/", "")
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
