package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func userClaims(role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   float64(42),
		"email": "taro@example.com",
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func runAuthJWT(t *testing.T, authz string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := AuthJWT(config.Config{JWTSecret: testSecret})
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec, c
}

func TestAuthJWT_ValidToken_SetsContext(t *testing.T) {
	signed := signTestToken(t, testSecret, userClaims("USER"))

	rec, c := runAuthJWT(t, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(42), c.Get(CtxUserIDKey))
	assert.Equal(t, "taro@example.com", c.Get(CtxUserEmailKey))
	assert.Equal(t, "USER", c.Get(CtxUserRoleKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _ := runAuthJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	rec, _ := runAuthJWT(t, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 改ざん（別鍵の署名）は通さない
func TestAuthJWT_WrongSecret(t *testing.T) {
	signed := signTestToken(t, "other-secret", userClaims("USER"))

	rec, _ := runAuthJWT(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := userClaims("USER")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	signed := signTestToken(t, testSecret, claims)

	rec, _ := runAuthJWT(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_MissingRole(t *testing.T) {
	claims := userClaims("USER")
	delete(claims, "role")
	signed := signTestToken(t, testSecret, claims)

	rec, _ := runAuthJWT(t, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// AdminRoleGuard
// =====================

func runAdminGuard(t *testing.T, role interface{}) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxUserRoleKey, role)
	}

	handler := AdminRoleGuard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec
}

func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	rec := runAdminGuard(t, "ADMIN")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard_RejectsUser(t *testing.T) {
	rec := runAdminGuard(t, "USER")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_RejectsMissingRole(t *testing.T) {
	rec := runAdminGuard(t, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
