// Package ratelimit provides per-client rate limiting using token buckets.
// The generation endpoint is expensive (LLM calls) and gets a strict limit;
// parsing is cheap and gets a generous one; health checks are unlimited.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// tokenBucket refills at a steady rate up to a burst capacity.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

func (tb *tokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	remaining = int(tb.tokens)
	resetTime = tb.lastRefill
	if tb.tokens < float64(tb.capacity) {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = tb.lastRefill.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return remaining, resetTime
}

// refill must be called with the lock held.
func (tb *tokenBucket) refill() {
	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// EndpointConfig is a per-route limit. Path matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per window; <= 0 means unlimited
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Info reports the limit state for response headers.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages buckets per client+endpoint.
type Limiter struct {
	endpoints     []EndpointConfig
	defaultLimit  int
	defaultWindow time.Duration

	mu         sync.Mutex
	buckets    map[string]*tokenBucket
	lastAccess map[string]time.Time

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// DefaultEndpointConfigs returns the per-route limits for this API.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/api/parse-job", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/health", Method: "GET", Limit: 0},
	}
}

// NewLimiter returns a limiter with the given endpoint configs and a
// default of 300 requests per minute for everything else. A background
// goroutine evicts idle buckets.
func NewLimiter(endpoints []EndpointConfig) *Limiter {
	l := &Limiter{
		endpoints:     endpoints,
		defaultLimit:  300,
		defaultWindow: time.Minute,
		buckets:       make(map[string]*tokenBucket),
		lastAccess:    make(map[string]time.Time),
		cleanupTicker: time.NewTicker(5 * time.Minute),
		cleanupStop:   make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from clientID to the endpoint may
// proceed, with header info either way.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	cfg := l.match(path, method)
	if cfg.Limit <= 0 {
		return true, Info{}
	}

	key := clientID + ":" + cfg.Path + ":" + cfg.Method
	bucket := l.getBucket(key, cfg)

	allowed := bucket.allow()
	remaining, resetTime := bucket.status()

	info := Info{Limit: cfg.Limit, Remaining: remaining, ResetTime: resetTime}
	if !allowed {
		if retry := time.Until(resetTime); retry > 0 {
			info.RetryAfter = retry
		}
	}
	return allowed, info
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	l.cleanupTicker.Stop()
	close(l.cleanupStop)
}

func (l *Limiter) match(path, method string) EndpointConfig {
	for _, cfg := range l.endpoints {
		if cfg.Method == method && strings.HasPrefix(path, cfg.Path) {
			return cfg
		}
	}
	return EndpointConfig{Path: "", Method: method, Limit: l.defaultLimit, Window: l.defaultWindow}
}

func (l *Limiter) getBucket(key string, cfg EndpointConfig) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccess[key] = time.Now()
	if bucket, exists := l.buckets[key]; exists {
		return bucket
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Limit
	}
	bucket := newTokenBucket(burst, float64(cfg.Limit)/cfg.Window.Seconds())
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.evictIdle()
		case <-l.cleanupStop:
			return
		}
	}
}

// evictIdle drops buckets not touched for an hour.
func (l *Limiter) evictIdle() {
	cutoff := time.Now().Add(-time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}
