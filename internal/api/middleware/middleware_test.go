package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"od-portal/backend/config"
	"od-portal/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "od-portal",
	})
}

// newAuthRouter GET /protected behind JWTAuth and RoleAuth(roles...)
func newAuthRouter(mgr *jwt.Manager, roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuth(mgr, nil), RoleAuth(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	mgr := newTestManager()
	token, err := mgr.GenerateAccessToken("T042", jwt.RoleTutor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthRouter(mgr, jwt.RoleAdmin, jwt.RoleTutor).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "T042" {
		t.Errorf("expected user_id T042 in context, got %q", w.Body.String())
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestManager()
	other := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-for-unit-tests",
		AccessTokenTTL: time.Minute,
		Issuer:         "od-portal",
	})
	forged, _ := other.GenerateAccessToken("A1", jwt.RoleAdmin)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + forged},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newAuthRouter(mgr, jwt.RoleAdmin).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRoleAuth_Forbidden(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateAccessToken("S001", jwt.RoleStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthRouter(mgr, jwt.RoleAdmin, jwt.RoleTutor).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestRateLimit_NoRedisPasses(t *testing.T) {
	r := gin.New()
	r.GET("/reports", RateLimit(nil, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/reports", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 without redis, got %d", i, w.Code)
		}
	}
}

func TestBodyLimit_TooLarge(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(16), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("x", 64))))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if got := w.Header().Get("X-Request-ID"); got == "" || got != w.Body.String() {
		t.Errorf("expected a generated id echoed in header and context, got %q / %q", got, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected inbound id to be kept, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/api", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		origin string
		want   int
	}{
		{"allowed origin", "http://localhost:5173", http.StatusNoContent},
		{"unknown origin", "http://evil.example", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("OPTIONS", "/api", nil)
			req.Header.Set("Origin", tc.origin)
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
