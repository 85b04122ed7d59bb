package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipebox/recipebox/internal/model"
)

func TestRateLimitHeaders(t *testing.T) {
	resetAt := time.Now().Add(time.Minute)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setRateLimitHeaders(w, 60, 45, resetAt)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("expected X-RateLimit-Limit=60, got %s", rec.Header().Get("X-RateLimit-Limit"))
	}

	if rec.Header().Get("X-RateLimit-Remaining") != "45" {
		t.Errorf("expected X-RateLimit-Remaining=45, got %s", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitHeadersUnlimited(t *testing.T) {
	rec := httptest.NewRecorder()
	setRateLimitHeaders(rec, 0, 0, time.Now())

	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Errorf("expected no rate limit headers for unlimited tier")
	}
}

func Test429Response(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRateLimitError(rec, 5*time.Second)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type")
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"code":"RATE_LIMITED"`) {
		t.Errorf("response should contain RATE_LIMITED code, got: %s", body)
	}
}

func TestTierConfigs(t *testing.T) {
	tests := []struct {
		tier    string
		wantRPM int
	}{
		{model.TierFree, 60},
		{model.TierPro, 600},
		{model.TierUnlimited, 0},
	}

	for _, tc := range tests {
		t.Run(tc.tier, func(t *testing.T) {
			config := model.TierConfigs[tc.tier]
			if config.RequestsPerMinute != tc.wantRPM {
				t.Errorf("tier %s: expected RPM %d, got %d", tc.tier, tc.wantRPM, config.RequestsPerMinute)
			}
		})
	}
}
