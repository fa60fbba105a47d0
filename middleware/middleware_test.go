package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ecomdash/api/models"
	"ecomdash/api/utils"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("AUTH_DEFAULT", "static-key")
	r := newRouter(AuthRequired())

	if w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); w.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials: status %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-KEY", "static-key")
	if w := do(r, req); w.Code != http.StatusOK {
		t.Fatalf("api key: status %d", w.Code)
	}

	token, err := utils.GenerateJWT(&models.Admin{Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if w := do(r, req); w.Code != http.StatusOK {
		t.Fatalf("bearer token: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: "garbage"})
	if w := do(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: status %d", w.Code)
	}
}

func TestAuthRequiredEmptyAPIKeyIsNotAWildcard(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("AUTH_DEFAULT", "")
	r := newRouter(AuthRequired())
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-KEY", "")
	if w := do(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := newRouter(CORSMiddleware("https://dash.example.com"))
	w := do(r, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Fatalf("origin %q", got)
	}

	w = do(newRouter(CORSMiddleware("")), httptest.NewRequest(http.MethodGet, "/ping", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("default origin %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	r := newRouter(NewRateLimiter(0.001, 2).Middleware())
	for i := 0; i < 2; i++ {
		if w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	if w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", w.Code)
	}
}
