package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-management/internal/utils"
)

const mwSecret = "middleware-test-secret"

func signedToken(t *testing.T, secret string, roles []string) string {
	t.Helper()
	access, err := utils.NewAccessToken(secret, "iss", "aud", utils.TokenClaims{
		UserID: 42,
		Email:  "jane@example.com",
		Roles:  roles,
	}, 60)
	require.NoError(t, err)
	return access.Token
}

func doRequest(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(mwSecret))

	rec := doRequest(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthBadSignature(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(mwSecret))

	tok := signedToken(t, "some-other-secret", []string{"Student"})
	rec := doRequest(e, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		assert.Equal(t, uint64(42), c.Get("user_id"))
		assert.Equal(t, "jane@example.com", c.Get("email"))
		assert.Equal(t, []string{"Student"}, c.Get("roles"))
		return c.NoContent(http.StatusOK)
	}, JWTAuth(mwSecret))

	tok := signedToken(t, mwSecret, []string{"Student"})
	rec := doRequest(e, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(mwSecret), RequireRole("Admin", "Teacher"))

	tok := signedToken(t, mwSecret, []string{"Teacher"})
	rec := doRequest(e, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejects(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(mwSecret), RequireRole("Admin"))

	tok := signedToken(t, mwSecret, []string{"Student"})
	rec := doRequest(e, "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
