package middleware_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/config"
	"github.com/straye-as/client-admin/internal/domain"
	"github.com/straye-as/client-admin/internal/http/middleware"
	"github.com/straye-as/client-admin/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	calls := 0
	h := rl.Limit(okHandler(&calls))

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/console/v1/clients", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 20, calls)
}

func TestRateLimiter_LimitsAndWhitelists(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health", "/static/*"},
	}, zap.NewNop())
	calls := 0
	h := rl.Limit(okHandler(&calls))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/console/v1/clients", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	for _, path := range []string{"/health", "/static/app.js"} {
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		ContentSecurityPolicy: "default-src 'self'",
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
	}
	calls := 0
	w := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(okHandler(&calls)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}
	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/console/v1/clients", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}
	calls := 0

	t.Run("explicit origin", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"http://localhost:4200"}
		h := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler(&calls))
		assert.Equal(t, "http://localhost:4200", preflight(h, "http://localhost:4200").Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, preflight(h, "http://evil.example").Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard only in development", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"*"}
		dev := middleware.CORS(&cfg, "development", zap.NewNop())(okHandler(&calls))
		assert.Equal(t, "http://any.example", preflight(dev, "http://any.example").Header().Get("Access-Control-Allow-Origin"))

		prod := middleware.CORS(&cfg, "production", zap.NewNop())(okHandler(&calls))
		assert.Empty(t, preflight(prod, "http://any.example").Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

type fakeSession struct {
	loggedIn bool
	role     auth.Role
}

func (s fakeSession) Guard(route auth.Route) error {
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}
	if !auth.RouteAllows(route, s.role) {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, route)
	}
	return nil
}

func (s fakeSession) Can(action auth.Action) bool { return s.loggedIn && auth.Can(s.role, action) }

func (s fakeSession) UserContext() *auth.UserContext {
	return &auth.UserContext{Email: "op@x.com", Role: s.role}
}

func TestRequireRoute(t *testing.T) {
	tests := []struct {
		name    string
		session fakeSession
		route   auth.Route
		want    int
	}{
		{"signed out", fakeSession{}, auth.RouteClients, http.StatusUnauthorized},
		{"viewer on drafts", fakeSession{loggedIn: true, role: auth.RoleViewer}, auth.RouteDrafts, http.StatusForbidden},
		{"viewer on clients", fakeSession{loggedIn: true, role: auth.RoleViewer}, auth.RouteClients, http.StatusOK},
		{"editor on logs", fakeSession{loggedIn: true, role: auth.RoleEditor}, auth.RouteLogs, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.UserContext
			h := middleware.RequireRoute(tt.session, tt.route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.FromContext(r.Context())
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "op@x.com", seen.Email)
			} else {
				var body domain.APIError
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.want, body.Status)
			}
		})
	}
}

func TestRequireAction(t *testing.T) {
	calls := 0
	h := middleware.RequireAction(fakeSession{loggedIn: true, role: auth.RoleViewer}, auth.ActionCreateClient)(okHandler(&calls))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, calls)
}

func TestLoggingPropagatesRequestID(t *testing.T) {
	var seen string
	h := middleware.Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = transport.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(transport.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(transport.RequestIDHeader))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(transport.RequestIDHeader))
}
