package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/models"
	"github.com/forgebyte/storefront/internal/token"
)

var testSecret = []byte("test_secret")

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireAuthMissingHeader(t *testing.T) {
	c, _ := newContext(t, "")

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	err := RequireAuth(testSecret)(next)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
	require.False(t, called, "downstream handler must not run")
}

func TestRequireAuthBadToken(t *testing.T) {
	c, _ := newContext(t, "Bearer garbage")

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	err := RequireAuth(testSecret)(next)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
	require.False(t, called)
}

func TestRequireAuthValidToken(t *testing.T) {
	raw, err := token.Issue("alice@x.com", testSecret)
	require.NoError(t, err)

	c, _ := newContext(t, "Bearer "+raw)

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	require.NoError(t, RequireAuth(testSecret)(next)(c))
	require.True(t, called)
	require.Equal(t, "alice@x.com", c.Get("email"))
}

func TestAdminOnlyUnknownAccountFailsClosed(t *testing.T) {
	db := initTestDB(t)

	c, _ := newContext(t, "")
	c.Set("email", "ghost@x.com")

	called := false
	next := func(c echo.Context) error { called = true; return nil }

	err := AdminOnly(db)(next)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
	require.False(t, called)
}

func TestAdminOnlyCustomerRejected(t *testing.T) {
	db := initTestDB(t)
	db.Create(&models.Account{Email: "bob@x.com", Role: models.RoleCustomer})

	c, _ := newContext(t, "")
	c.Set("email", "bob@x.com")

	err := AdminOnly(db)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestAdminOnlyAdminPasses(t *testing.T) {
	db := initTestDB(t)
	db.Create(&models.Account{Email: "root@x.com", Role: models.RoleAdmin})

	c, _ := newContext(t, "")
	c.Set("email", "root@x.com")

	called := false
	require.NoError(t, AdminOnly(db)(func(c echo.Context) error { called = true; return nil })(c))
	require.True(t, called)
	require.Equal(t, models.RoleAdmin, c.Get("role"))
}

func TestAdminOnlyWithoutVerifiedEmail(t *testing.T) {
	db := initTestDB(t)

	c, _ := newContext(t, "")

	err := AdminOnly(db)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}
