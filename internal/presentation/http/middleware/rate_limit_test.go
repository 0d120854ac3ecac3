package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// newLimitedRouter mounts the limiter behind a stand-in for Auth that
// stamps the tenant id from a header, the way the real middleware does
// from the token.
func newLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Tenant")); err == nil {
			c.Set(ContextTenantID, id)
		}
	})
	r.Use(RateLimit(rps, burst))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, tenant string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if tenant != "" {
		req.Header.Set("X-Tenant", tenant)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitKeysByTenant(t *testing.T) {
	// Zero refill with burst 1: each bucket allows exactly one request.
	r := newLimitedRouter(0, 1)
	tenantA := uuid.NewString()
	tenantB := uuid.NewString()

	if code := doRequest(r, tenantA); code != http.StatusOK {
		t.Fatalf("tenant A first request = %d, want 200", code)
	}
	if code := doRequest(r, tenantA); code != http.StatusTooManyRequests {
		t.Fatalf("tenant A second request = %d, want 429", code)
	}
	// A separate tenant gets its own bucket even from the same IP.
	if code := doRequest(r, tenantB); code != http.StatusOK {
		t.Fatalf("tenant B first request = %d, want 200", code)
	}
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	r := newLimitedRouter(0, 1)

	if code := doRequest(r, ""); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := doRequest(r, ""); code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", code)
	}
}
