package middleware

import (
	"biokuiz/internal/model"
	"biokuiz/internal/util"
	"biokuiz/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth map[string]model.Principal

func (f fakeAuth) Authenticate(_ context.Context, token string) (*model.Principal, error) {
	p, ok := f[token]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return &p, nil
}

func newRouter(t *testing.T, cookie *security.SessionCookie, reached *bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := fakeAuth{
		"student-token": {UserID: 1, Username: "siswa", Role: model.Student},
		"teacher-token": {UserID: 2, Username: "guru", Role: model.Teacher},
	}

	r := gin.New()
	api := r.Group("/api", AuthMiddleware(auth, cookie))
	api.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetPrincipal(c))
	})
	admin := api.Group("/admin", CapabilityMiddleware(model.CapabilityAdminister))
	admin.POST("/materials", func(c *gin.Context) {
		*reached = true
		util.Created(c, nil)
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	var reached bool
	r := newRouter(t, nil, &reached)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", "bogus").Code)

	w := do(r, http.MethodGet, "/api/me", "student-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"siswa"`)
}

func TestCapabilityMiddleware(t *testing.T) {
	var reached bool
	r := newRouter(t, nil, &reached)

	w := do(r, http.MethodPost, "/api/admin/materials", "student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached, "handler must not run for students")

	w = do(r, http.MethodPost, "/api/admin/materials", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)

	w = do(r, http.MethodPost, "/api/admin/materials", "teacher-token")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, reached)
}

func TestAuthMiddlewareReadsSessionCookie(t *testing.T) {
	cookie, err := security.NewSessionCookie("biokuiz_session", "0123456789abcdef0123456789abcdef", "", time.Hour, false)
	require.NoError(t, err)
	var reached bool
	r := newRouter(t, cookie, &reached)

	value, err := cookie.Encode("teacher-token")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "biokuiz_session", Value: value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"teacher"`)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "biokuiz_session", Value: "teacher-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
