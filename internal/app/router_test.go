package app

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"biokuiz/internal/testutil"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t   *testing.T
	app *App
	db  *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test", BaseURL: "http://quiz.test"},
		Session: config.SessionConfig{
			Store:      "memory",
			TTL:        time.Hour,
			CookieName: "biokuiz_session",
			HashKey:    "test-session-hash-key-0123456789abcdef",
		},
		Reset:     config.ResetConfig{Secret: "test-reset-secret-0123456789abcdef", MaxAge: 10 * time.Minute},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
		Quiz:      config.QuizConfig{LeaderboardSize: 20, ExposeAnswerKeys: true},
	}
	db := testutil.NewDB(t)
	a, err := New(cfg, db, nil)
	require.NoError(t, err)
	return &harness{t: t, app: a, db: db}
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)
	return w
}

func (h *harness) data(w *httptest.ResponseRecorder, dst interface{}) {
	h.t.Helper()
	var env envelope
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NoError(h.t, json.Unmarshal(env.Data, dst))
}

func (h *harness) account(username, role string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/register", "", jsonBody{"username": username, "password": "secret", "role": role})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/login", "", jsonBody{"username": username, "password": "secret"})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	h.data(w, &out)
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

type jsonBody map[string]interface{}

func TestStudentCannotReachAdmin(t *testing.T) {
	h := newHarness(t)
	student := h.account("siswa1", "student")

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin"},
		{http.MethodGet, "/api/admin/report"},
		{http.MethodGet, "/api/admin/export"},
		{http.MethodGet, "/api/admin/questions/raw"},
		{http.MethodPost, "/api/admin/materials"},
		{http.MethodPost, "/api/admin/questions"},
		{http.MethodDelete, "/api/admin/questions/1"},
	} {
		w := h.do(r.method, r.path, student, jsonBody{"title": "x", "text": "y", "correct": "True", "type": "tf"})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", r.method, r.path)
	}

	var materials, questions int64
	require.NoError(t, h.db.Model(&model.Material{}).Count(&materials).Error)
	require.NoError(t, h.db.Model(&model.Question{}).Count(&questions).Error)
	assert.Zero(t, materials)
	assert.Zero(t, questions)
}

func TestUnauthenticatedRequests(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/quiz", "/api/profile", "/api/dashboard", "/api/leaderboard", "/api/admin"} {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, path, "", nil).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/quiz", "not-a-session", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/health", "", nil).Code)
}

func TestQuizFlow(t *testing.T) {
	h := newHarness(t)
	teacher := h.account("guru1", "teacher")
	student := h.account("siswa1", "student")

	w := h.do(http.MethodPost, "/api/admin/questions", teacher, jsonBody{
		"text":    "Which organ filters blood?",
		"type":    "mcq",
		"choices": []jsonBody{{"label": "A", "text": "Kidney"}, {"label": "B", "text": "Liver"}},
		"correct": "A",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = h.do(http.MethodPost, "/api/admin/questions", teacher, jsonBody{"text": "The liver detoxifies.", "type": "tf", "correct": "True"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/quiz", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"correct"`)
	var bank []struct {
		ID uint `json:"id"`
	}
	h.data(w, &bank)
	require.Len(t, bank, 2)

	w = h.do(http.MethodPost, "/api/quiz", student, jsonBody{"answers": jsonBody{"1": "a", "2": "False", "oops": "A"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		Correct int `json:"correct"`
		Total   int `json:"total"`
		Score   int `json:"score"`
	}
	h.data(w, &result)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 50, result.Score)

	w = h.do(http.MethodGet, "/api/profile", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Level string `json:"level"`
	}
	h.data(w, &profile)
	assert.Equal(t, "Novice", profile.Level)

	w = h.do(http.MethodGet, "/api/leaderboard", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"siswa1"`)

	w = h.do(http.MethodGet, "/api/admin/export", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Student Name", records[0][0])
	assert.Equal(t, []string{"siswa1", "1", "50", "50"}, records[1][:4])

	w = h.do(http.MethodGet, "/api/admin", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overallAverage":50`)
}

func TestSessionCookieAndLogout(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodPost, "/api/register", "", jsonBody{"username": "siswa1", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodPost, "/api/login", "", jsonBody{"username": "siswa1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/login", "", jsonBody{"username": "siswa1", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	h.account("siswa1", "student")

	w := h.do(http.MethodPost, "/api/password/forgot", "", jsonBody{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPost, "/api/password/forgot", "", jsonBody{"username": "siswa1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var issued struct {
		Token string `json:"token"`
		Link  string `json:"reset_link"`
	}
	h.data(w, &issued)
	assert.Equal(t, "http://quiz.test/api/password/reset/"+issued.Token, issued.Link)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/password/reset/"+issued.Token, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/password/reset/garbage", "", nil).Code)

	w = h.do(http.MethodPost, "/api/password/reset/"+issued.Token, "", jsonBody{"new_password": "fresh"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/password/reset/"+issued.Token, "", jsonBody{"new_password": "again"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "reset links are single use")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/login", "", jsonBody{"username": "siswa1", "password": "secret"}).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/login", "", jsonBody{"username": "siswa1", "password": "fresh"}).Code)
}
