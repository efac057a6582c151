package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memoryRateStore struct {
	counts map[string]int64
}

func newMemoryRateStore() *memoryRateStore {
	return &memoryRateStore{counts: map[string]int64{}}
}

func (s *memoryRateStore) Incr(_ context.Context, key string) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func (s *memoryRateStore) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (s *memoryRateStore) RateLimitKey(scope, id string) string {
	return fmt.Sprintf("vastra:rate_limit:%s:%s", scope, id)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, newMemoryRateStore(), nil)(okHandler())

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.9:4821"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestAuthRateLimitBlocksEmailAcrossIPs(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, newMemoryRateStore(), nil)(okHandler())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"Priya@Example.com"}`))
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.9:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.4:2000"), "case-insensitive email must share the counter")
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, newMemoryRateStore(), nil)(okHandler())

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
