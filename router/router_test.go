package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"modeladmin/api"
	"modeladmin/config"
	"modeladmin/middleware"
	"modeladmin/templates"
	"modeladmin/testapp"
	"modeladmin/viewset"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyStore 没有任何对象的 Store
type emptyStore struct{}

func (emptyStore) Count(context.Context, []viewset.Condition) (int64, error) { return 0, nil }
func (emptyStore) List(context.Context, viewset.Query) ([]viewset.Object, error) {
	return nil, nil
}
func (emptyStore) Get(context.Context, string) (viewset.Object, error) {
	return nil, viewset.ErrNotFound
}
func (emptyStore) Create(context.Context, map[string]any) error                 { return nil }
func (emptyStore) Update(context.Context, viewset.Object, map[string]any) error { return nil }
func (emptyStore) Delete(context.Context, viewset.Object) error                 { return nil }

func setupRouter(t *testing.T, limit int) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)

	reg := viewset.NewRegistry("/admin")
	require.NoError(t, testapp.RegisterStores(reg, emptyStore{}, emptyStore{}))
	engine, err := templates.New(templates.WithFS(testapp.Templates()))
	require.NoError(t, err)

	limiter := middleware.NewLoginLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)
	return SetupRouter(cfg, api.NewSite("modeladmin", reg, engine), limiter)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Health(t *testing.T) {
	r := setupRouter(t, 10)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/", w.Header().Get("Location"))
}

func TestSetupRouter_AdminRequiresSession(t *testing.T) {
	r := setupRouter(t, 10)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/feature-complete-toy/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login/?next="+url.QueryEscape("/admin/feature-complete-toy/"), w.Header().Get("Location"))

	token, err := middleware.GenerateToken(1, "admin", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin/feature-complete-toy/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "There are no feature complete toys to display")
	assert.Contains(t, w.Body.String(), "Log out admin")

	// 登录页无需会话
	w = serve(r, httptest.NewRequest(http.MethodGet, "/admin/login/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_MenuAPI(t *testing.T) {
	r := setupRouter(t, 10)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/api/menu", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.GenerateToken(1, "admin", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin/api/menu", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"JSON BlockCounts StreamModel"`)
}

func TestSetupRouter_LoginRateLimit(t *testing.T) {
	r := setupRouter(t, 1)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader("username=&password="))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(r, req)
	}
	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}

func TestSetupRouter_Metrics(t *testing.T) {
	r := setupRouter(t, 10)

	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `modeladmin_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://ops.example.com/", " "}))
	r.GET("/api", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.OPTIONS("/api", func(c *gin.Context) { c.String(http.StatusOK, "not reached") })

	cases := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"allowed", http.MethodGet, "https://ops.example.com", http.StatusOK, "https://ops.example.com"},
		{"other origin", http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://ops.example.com", http.StatusNoContent, "https://ops.example.com"},
		{"preflight other origin", http.MethodOptions, "https://evil.example.com", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := serve(r, req)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.wantAllowed == "" {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
		})
	}
}
