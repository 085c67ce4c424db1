package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"go-blog-api/internal/logger"
)

const (
	defaultMaxClients = 10000
	clientIdleTTL     = 10 * time.Minute
	sweepInterval     = time.Minute
)

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	maxClients int
	resolver   *ClientIPResolver
	now        func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	overflow  *clientLimiter
	lastSweep time.Time
}

type RateLimitOption func(*RateLimitMiddleware)

// WithClientIPResolver sets how the client address is derived. Without it
// only the socket peer is used.
func WithClientIPResolver(resolver *ClientIPResolver) RateLimitOption {
	return func(m *RateLimitMiddleware) {
		if resolver != nil {
			m.resolver = resolver
		}
	}
}

// WithMaxClients bounds the number of tracked clients. Clients beyond the
// bound share one overflow bucket until idle entries are swept.
func WithMaxClients(n int) RateLimitOption {
	return func(m *RateLimitMiddleware) {
		if n > 0 {
			m.maxClients = n
		}
	}
}

// NewRateLimitMiddleware limits per client IP. A negative generalRPM
// disables the general limit; /auth/ routes are always limited.
func NewRateLimitMiddleware(generalRPM int, authRPM int, opts ...RateLimitOption) *RateLimitMiddleware {
	if generalRPM == 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	m := &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		maxClients: defaultMaxClients,
		resolver:   NewClientIPResolver(nil),
		now:        time.Now,
		clients:    map[string]*clientLimiter{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.overflow = m.newClientLimiter(m.now())

	return m
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := m.resolver.Resolve(r)
		limiter := m.getLimiter(clientIP)

		target := limiter.general
		if strings.HasPrefix(strings.ToLower(r.URL.Path), "/auth/") {
			target = limiter.auth
		}

		if target != nil && !target.Allow() {
			logger.From(r.Context()).Warn("rate limited", "client_ip", clientIP, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) newClientLimiter(now time.Time) *clientLimiter {
	var general *rate.Limiter
	if m.generalRPM > 0 {
		general = rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM)
	}
	auth := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.authRPM)), m.authRPM)
	return &clientLimiter{general: general, auth: auth, lastSeen: now}
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}

	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = now
		return limiter
	}

	if len(m.clients) >= m.maxClients {
		return m.overflow
	}

	created := m.newClientLimiter(now)
	m.clients[clientIP] = created
	return created
}

// sweepLocked drops clients idle for longer than clientIdleTTL; their
// buckets are full again by then.
func (m *RateLimitMiddleware) sweepLocked(now time.Time) {
	m.lastSweep = now
	cutoff := now.Add(-clientIdleTTL)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

