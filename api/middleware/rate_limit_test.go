package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medinasouk/storefront-backend/pkg/config"
)

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{MutationWindow: time.Minute, MutationLimit: 1}
	var calls int
	handler := RateLimit(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 5; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	}
	if calls != 5 {
		t.Fatalf("expected limiter to pass all requests without redis, got %d", calls)
	}
}

func TestIsMutation(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if !isMutation(method) {
			t.Fatalf("expected %s to count as mutation", method)
		}
	}
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if isMutation(method) {
			t.Fatalf("expected %s to pass as read", method)
		}
	}
}
