package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gousers/internal/pkg/logger"
	"gousers/internal/pkg/middleware"
)

// MockCache é uma implementação mock de cache.Client
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

func (m *MockCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

// clockCache imita o Redis em memória: contadores com expiração medida por um
// relógio controlado pelo teste. failExpire faz os primeiros Expire falharem.
type clockCache struct {
	mu         sync.Mutex
	now        time.Time
	counts     map[string]int64
	expiresAt  map[string]time.Time
	failExpire int
}

func newClockCache() *clockCache {
	return &clockCache{
		now:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		counts:    map[string]int64{},
		expiresAt: map[string]time.Time{},
	}
}

func (c *clockCache) evict(key string) {
	if exp, ok := c.expiresAt[key]; ok && !c.now.Before(exp) {
		delete(c.counts, key)
		delete(c.expiresAt, key)
	}
}

func (c *clockCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(key)
	c.counts[key]++
	return c.counts[key], nil
}

func (c *clockCache) Expire(_ context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failExpire > 0 {
		c.failExpire--
		return errors.New("i/o timeout")
	}
	if _, ok := c.counts[key]; ok {
		c.expiresAt[key] = c.now.Add(expiration)
	}
	return nil
}

func (c *clockCache) TTL(_ context.Context, key string) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evict(key)
	if _, ok := c.counts[key]; !ok {
		return -2, nil
	}
	exp, ok := c.expiresAt[key]
	if !ok {
		return -1, nil
	}
	return exp.Sub(c.now), nil
}

func (c *clockCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLoginRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	return req
}

const rateKey = "rate-limit:/auth/login:10.0.0.7"

func TestRateLimiter_FirstRequestSetsTTL(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(1), nil)
	c.On("Expire", mock.Anything, rateKey, time.Minute).Return(nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	c.AssertExpectations(t)
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(4), nil)
	c.On("TTL", mock.Anything, rateKey).Return(30*time.Second, nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
	c.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimiter_AtLimitStillPasses(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(3), nil)
	c.On("TTL", mock.Anything, rateKey).Return(30*time.Second, nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	c.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateLimiter_RearmsMissingTTL(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(2), nil)
	c.On("TTL", mock.Anything, rateKey).Return(time.Duration(-1), nil)
	c.On("Expire", mock.Anything, rateKey, time.Minute).Return(nil)

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	c.AssertExpectations(t)
}

func TestRateLimiter_TTLLookupFailureDoesNotBlock(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(2), nil)
	c.On("TTL", mock.Anything, rateKey).Return(time.Duration(0), errors.New("connection reset"))

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	c.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

// Um Expire perdido na primeira requisição não pode deixar o IP bloqueado para sempre.
func TestRateLimiter_WindowResetsAfterFailedExpire(t *testing.T) {
	c := newClockCache()
	c.failExpire = 1
	handler := middleware.RateLimiter(c, 2, time.Minute, logger.NewNopLogger())(okHandler())

	serve := func() int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newLoginRequest())
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve())
	ttl, _ := c.TTL(context.Background(), rateKey)
	assert.Equal(t, time.Duration(-1), ttl, "o primeiro Expire falhou, a chave fica sem TTL")

	assert.Equal(t, http.StatusOK, serve())
	ttl, _ = c.TTL(context.Background(), rateKey)
	assert.Equal(t, time.Minute, ttl, "a segunda requisição rearma a janela")

	assert.Equal(t, http.StatusTooManyRequests, serve())

	c.advance(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, serve())
}

func TestRateLimiter_CacheFailureFailsOpen(t *testing.T) {
	c := new(MockCache)
	c.On("Incr", mock.Anything, rateKey).Return(int64(0), errors.New("connection refused"))

	rec := httptest.NewRecorder()
	middleware.RateLimiter(c, 3, time.Minute, logger.NewNopLogger())(okHandler()).ServeHTTP(rec, newLoginRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	c.AssertExpectations(t)
}
