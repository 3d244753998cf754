package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("6507f1f77bcf86cd79943901", "admin@example.com", RoleAdmin)
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("unit-test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*JwtCustomClaims)
	assert.Equal(t, "6507f1f77bcf86cd79943901", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestMemberTokensLiveLonger(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	adminToken, err := GenerateJWT("id", "a@example.com", RoleAdmin)
	require.NoError(t, err)
	memberToken, err := GenerateJWT("id", "m@example.com", RoleMember)
	require.NoError(t, err)

	parse := func(raw string) *JwtCustomClaims {
		parsed, err := jwt.ParseWithClaims(raw, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
			return []byte("unit-test-secret"), nil
		})
		require.NoError(t, err)
		return parsed.Claims.(*JwtCustomClaims)
	}

	assert.Greater(t, parse(memberToken).ExpiresAt, parse(adminToken).ExpiresAt)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT("id", "a@example.com", RoleAdmin)
	assert.Error(t, err)
}

func TestJWTMiddlewareSetsClaimsInContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	token, err := GenerateJWT("6507f1f77bcf86cd79943901", "admin@example.com", RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		assert.Equal(t, "6507f1f77bcf86cd79943901", c.Get("userId"))
		assert.Equal(t, RoleAdmin, c.Get("role"))
		assert.Equal(t, "admin@example.com", c.Get("email"))
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	run := func(authorization string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		rec := httptest.NewRecorder()
		return handler(e.NewContext(req, rec))
	}

	assert.Error(t, run(""))
	assert.Error(t, run("Bearer not-a-token"))

	t.Setenv("JWT_SECRET", "other-secret")
	foreign, err := GenerateJWT("id", "a@example.com", RoleAdmin)
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "unit-test-secret")
	assert.Error(t, run("Bearer "+foreign))
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role string, allowed ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", role)
		return RequireRole(allowed...)(handler)(c)
	}

	assert.NoError(t, run(RoleAdmin, RoleAdmin, RoleSubadmin))
	assert.NoError(t, run(RoleSubadmin, RoleAdmin, RoleSubadmin))

	err := run(RoleMember, RoleAdmin, RoleSubadmin)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	err = run("", RoleMember)
	assert.Error(t, err)
}

func TestJwtCustomClaimsValid(t *testing.T) {
	expired := JwtCustomClaims{StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}}
	assert.Error(t, expired.Valid())

	live := JwtCustomClaims{StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}}
	assert.NoError(t, live.Valid())

	notYet := JwtCustomClaims{StandardClaims: jwt.StandardClaims{NotBefore: time.Now().Add(time.Hour).Unix()}}
	assert.Error(t, notYet.Valid())
}
