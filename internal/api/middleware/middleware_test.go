package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dormhop/backend/config"
	"dormhop/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── stubs ──

type stubChecker struct {
	revoked map[string]bool
	err     error
}

func (s *stubChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

type stubCounter struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubCounter) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-0123456789",
		AccessTokenTTL: time.Hour,
	})
}

func protectedRouter(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(mgr, checker), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("token_jti"))
	})
	r.GET("/ws", QueryToken(), JWTAuth(mgr, checker), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func get(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// JWTAuth
// ═══════════════════════════════════════════════════════════

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newJWT()
	tok, _ := mgr.GenerateAccessToken("user-1", "ab1@cornell.edu")
	claims, _ := mgr.ParseToken(tok)

	w := get(protectedRouter(mgr, nil), "/me", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "user-1|"+claims.ID {
		t.Errorf("unexpected context values %q", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newJWT()
	r := protectedRouter(mgr, nil)

	cases := map[string]string{
		"missing": "",
		"garbage": "not-a-token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if w := get(r, "/me", tok); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer scheme, got %d", w.Code)
	}
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	mgr := newJWT()
	tok, _ := mgr.GenerateAccessToken("user-1", "ab1@cornell.edu")
	claims, _ := mgr.ParseToken(tok)

	checker := &stubChecker{revoked: map[string]bool{claims.ID: true}}
	if w := get(protectedRouter(mgr, checker), "/me", tok); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", w.Code)
	}
}

func TestJWTAuth_CheckerErrorDegradesOpen(t *testing.T) {
	mgr := newJWT()
	tok, _ := mgr.GenerateAccessToken("user-1", "ab1@cornell.edu")

	checker := &stubChecker{err: errors.New("redis down")}
	if w := get(protectedRouter(mgr, checker), "/me", tok); w.Code != http.StatusOK {
		t.Errorf("expected 200 when checker fails, got %d", w.Code)
	}
}

func TestQueryToken(t *testing.T) {
	mgr := newJWT()
	tok, _ := mgr.GenerateAccessToken("user-9", "xy9@cornell.edu")
	r := protectedRouter(mgr, nil)

	w := get(r, "/ws?token="+tok, "")
	if w.Code != http.StatusOK || w.Body.String() != "user-9" {
		t.Errorf("expected query token to authenticate, got %d %q", w.Code, w.Body.String())
	}
	if w := get(r, "/me?token="+tok, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("query token must only work on the websocket route, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit
// ═══════════════════════════════════════════════════════════

func limitedRouter(counter RateCounter, limit int) *gin.Engine {
	r := gin.New()
	r.GET("/ping", RateLimit(counter, limit, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := limitedRouter(nil, 2)
	for i := 0; i < 2; i++ {
		if w := get(r, "/ping", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := get(r, "/ping", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimit_UsesCounter(t *testing.T) {
	counter := &stubCounter{allowed: false}
	r := limitedRouter(counter, 100)
	if w := get(r, "/ping", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 from counter, got %d", w.Code)
	}
	if counter.calls != 1 {
		t.Errorf("expected counter to be consulted once, got %d", counter.calls)
	}
}

func TestRateLimit_CounterErrorFallsBack(t *testing.T) {
	counter := &stubCounter{err: errors.New("redis down")}
	r := limitedRouter(counter, 1)
	if w := get(r, "/ping", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := get(r, "/ping", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected local limiter to engage, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Misc
// ═══════════════════════════════════════════════════════════

func TestRedactQuery(t *testing.T) {
	if got := redactQuery("token=secret&x=1"); strings.Contains(got, "secret") {
		t.Errorf("token leaked: %q", got)
	}
	if got := redactQuery("dorm=Mews"); got != "dorm=Mews" {
		t.Errorf("unrelated query changed: %q", got)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("expected inbound id echoed, got %q", w.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://dormhop.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://dormhop.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dormhop.example" {
		t.Errorf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unknown origin, got %d", w.Code)
	}
}
