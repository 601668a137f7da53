package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhub/internal/app/di"
	analyticshandler "leadhub/internal/feature/analytics/transport/handler"
	analyticsusecase "leadhub/internal/feature/analytics/usecase"
	authhandler "leadhub/internal/feature/auth/transport/handler"
	authusecase "leadhub/internal/feature/auth/usecase"
	leadhandler "leadhub/internal/feature/leads/transport/handler"
	leadusecase "leadhub/internal/feature/leads/usecase"
	"leadhub/internal/platform/config"
	platformdb "leadhub/internal/platform/db"
	jwtmw "leadhub/internal/platform/jwt"
	"leadhub/internal/shared/ratelimiter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer はSQLiteインメモリDBで全ルートを組み立てます。
func newTestServer(t *testing.T, opts Options) *gin.Engine {
	t.Helper()

	db, err := platformdb.Open(config.DriverSQLite, config.DBConfig{SQLitePath: ":memory:", RunMigrations: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = platformdb.Close(db) })

	stores := di.NewGormStores(db)
	codec := jwtmw.NewCodec("test-secret", time.Hour)

	h := Handlers{
		Auth:      authhandler.NewAuthHandler(authusecase.NewAuthUsecase(stores.Users, codec)),
		Leads:     leadhandler.NewLeadHandler(leadusecase.NewLeadUsecase(stores.Leads)),
		Analytics: analyticshandler.NewAnalyticsHandler(analyticsusecase.NewDashboardUsecase(stores.Stats)),
	}
	opts.Verifier = codec
	opts.Users = stores.Users

	r, err := NewRouter(h, opts)
	require.NoError(t, err)
	return r
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Count      int             `json:"count"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func register(t *testing.T, r http.Handler, email string) string {
	t.Helper()

	code, env := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Tester", "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func createLead(t *testing.T, r http.Handler, token, name string) map[string]any {
	t.Helper()

	code, env := do(t, r, http.MethodPost, "/api/leads", token, map[string]string{
		"name": name, "email": "lead@example.com", "phone": "555-0100",
		"company": "Acme", "leadSource": "Website",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var lead map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &lead))
	return lead
}

func TestRouter_Health(t *testing.T) {
	r := newTestServer(t, Options{})

	code, _ := do(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_LeadLifecycle(t *testing.T) {
	r := newTestServer(t, Options{})
	token := register(t, r, "owner@example.com")

	code, env := do(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "owner@example.com")

	lead := createLead(t, r, token, "Jane")
	id := lead["_id"].(string)
	assert.Equal(t, "New", lead["leadStatus"])

	code, env = do(t, r, http.MethodGet, "/api/leads/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Jane", got["name"])
	assert.Equal(t, "lead@example.com", got["email"])

	code, env = do(t, r, http.MethodPut, "/api/leads/"+id, token, map[string]string{"leadStatus": "Converted"})
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Converted", got["leadStatus"])
	assert.Equal(t, "Jane", got["name"], "status-only update keeps other fields")
	assert.Equal(t, "Website", got["leadSource"])

	code, env = do(t, r, http.MethodGet, "/api/analytics/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	var dash map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.EqualValues(t, 1, dash["totalLeads"])
	assert.EqualValues(t, 100, dash["conversionRate"])

	code, _ = do(t, r, http.MethodDelete, "/api/leads/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/leads/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Lead not found", env.Message)
}

func TestRouter_Pagination(t *testing.T) {
	r := newTestServer(t, Options{})
	token := register(t, r, "pager@example.com")
	for i := 0; i < 25; i++ {
		createLead(t, r, token, "Lead")
	}

	code, env := do(t, r, http.MethodGet, "/api/leads?limit=10&page=2", token, nil)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 10, env.Count)
	assert.EqualValues(t, 25, env.Total)
	assert.Equal(t, 2, env.Page)
	assert.Equal(t, 3, env.TotalPages)
}

func TestRouter_OwnershipIsolation(t *testing.T) {
	r := newTestServer(t, Options{})
	alice := register(t, r, "alice@example.com")
	bob := register(t, r, "bob@example.com")

	id := createLead(t, r, alice, "Alice's lead")["_id"].(string)

	code, _ := do(t, r, http.MethodGet, "/api/leads/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodDelete, "/api/leads/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, r, http.MethodGet, "/api/leads", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, env.Total)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestRouter_CreateWithoutSourceRejected(t *testing.T) {
	r := newTestServer(t, Options{})
	token := register(t, r, "strict@example.com")

	code, env := do(t, r, http.MethodPost, "/api/leads", token, map[string]string{
		"name": "No Source", "email": "x@example.com", "phone": "1", "company": "c",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)

	_, env = do(t, r, http.MethodGet, "/api/leads", token, nil)
	assert.Zero(t, env.Total)
}

func TestRouter_RequiresToken(t *testing.T) {
	r := newTestServer(t, Options{})

	for _, path := range []string{"/api/leads", "/api/leads/abc", "/api/analytics/dashboard", "/api/auth/me"} {
		code, env := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "Not authorized, no token provided", env.Message, path)
	}
}

func TestRouter_UnknownAPIRoute(t *testing.T) {
	r := newTestServer(t, Options{})

	code, env := do(t, r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestRouter_LoginThrottled(t *testing.T) {
	r := newTestServer(t, Options{LoginLimiter: ratelimiter.NewMemoryLimiter(2, time.Minute)})
	creds := map[string]string{"email": "nobody@example.com", "password": "wrongpass1"}

	for i := 0; i < 2; i++ {
		code, _ := do(t, r, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, env := do(t, r, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests, please try again later", env.Message)
}

func TestRouter_StaticSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	r := newTestServer(t, Options{StaticDir: dir})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = get("/leads/123")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spa")

	w = get("/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig("http://a.example,http://b.example")
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)

	cfg = corsConfig("*")
	assert.True(t, cfg.AllowAllOrigins)
	assert.False(t, cfg.AllowCredentials)
}

func TestRouter_RegisterBlankNameRejected(t *testing.T) {
	r := newTestServer(t, Options{})

	code, env := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "   ", "email": "blank@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", env.Message)

	// ユーザーは作成されていない
	code, _ = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "blank@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}
