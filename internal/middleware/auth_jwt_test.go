package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"winehouse/internal/config"
	"winehouse/internal/middleware"
)

const testSecret = "test_secret_for_middleware"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func doRequest(authz string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c
}

func TestAuthJWT_ValidToken(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  float64(42),
		"role": "USER",
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	})

	rec, c := doRequest("Bearer " + token)

	var gotID int64
	var gotRole string
	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error {
		gotID = c.Get(middleware.CtxAccountIDKey).(int64)
		gotRole = c.Get(middleware.CtxAccountRoleKey).(string)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "USER", gotRole)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, c := doRequest("")

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	token := signToken(t, "another_secret", jwt.MapClaims{
		"sub":  float64(42),
		"role": "USER",
		"exp":  now.Add(15 * time.Minute).Unix(),
	})

	rec, c := doRequest("Bearer " + token)

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  float64(42),
		"role": "USER",
		"exp":  now.Add(-time.Minute).Unix(),
	})

	rec, c := doRequest("Bearer " + token)

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, c := doRequest("Basic abc123")

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard_RejectsUserRole(t *testing.T) {
	rec, c := doRequest("")
	c.Set(middleware.CtxAccountIDKey, int64(42))
	c.Set(middleware.CtxAccountRoleKey, "USER")

	h := middleware.AdminRoleGuard()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	rec, c := doRequest("")
	c.Set(middleware.CtxAccountIDKey, int64(42))
	c.Set(middleware.CtxAccountRoleKey, "ADMIN")

	h := middleware.AdminRoleGuard()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
