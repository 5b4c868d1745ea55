package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	sc, err := NewSessionCookie("biokuiz_session", "0123456789abcdef0123456789abcdef", "", time.Hour, false)
	require.NoError(t, err)

	r := newEngine()
	r.GET("/login", func(c *gin.Context) {
		require.NoError(t, sc.Set(c, "tok-123"))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, sc.Token(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "tok-123")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "tok-123", w.Body.String())

	forged := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	forged.AddCookie(&http.Cookie{Name: "biokuiz_session", Value: "tok-123"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, forged)
	assert.Empty(t, w.Body.String())
}

func TestNewSessionCookieKeys(t *testing.T) {
	_, err := NewSessionCookie("s", "", "", time.Hour, false)
	assert.Error(t, err)

	_, err = NewSessionCookie("s", "hash", "short", time.Hour, false)
	assert.Error(t, err)

	sc, err := NewSessionCookie("s", "hash", "0123456789abcdef", time.Hour, false)
	require.NoError(t, err)
	v, err := sc.Encode("tok")
	require.NoError(t, err)
	got, err := sc.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)
}
