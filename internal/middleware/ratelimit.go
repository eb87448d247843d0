package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"daily-medicine-reminder/internal/platform/respond"

	"golang.org/x/time/rate"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

type RateLimitOptions struct {
	// Requests permitidos por cliente dentro de Window.
	Requests int
	Window   time.Duration

	// Skip excluye requests del límite (health checks).
	Skip func(r *http.Request) bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter es un token bucket por IP: Requests de ráfaga y recarga
// continua de Requests por Window.
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
	sweptAt  time.Time
}

func newIPLimiter(opts RateLimitOptions, now func() time.Time) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(opts.Requests) / opts.Window.Seconds()),
		burst:    opts.Requests,
		ttl:      opts.Window,
		now:      now,
	}
}

// allow devuelve si el request pasa y los tokens restantes.
func (l *ipLimiter) allow(ip string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	ok = v.limiter.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(v.limiter.TokensAt(now))))
	return ok, remaining
}

// sweepLocked borra visitantes inactivos más de una ventana.
func (l *ipLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.sweptAt) < l.ttl {
		return
	}
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, ip)
		}
	}
	l.sweptAt = now
}

// RateLimit limita requests por IP de cliente (r.RemoteAddr, ya resuelto
// por chimw.RealIP). Excedido el límite responde 429 con Retry-After.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	return rateLimit(opts, time.Now)
}

func rateLimit(opts RateLimitOptions, now func() time.Time) func(http.Handler) http.Handler {
	l := newIPLimiter(opts, now)
	retryAfter := strconv.Itoa(int(math.Ceil(opts.Window.Seconds() / float64(opts.Requests))))
	limit := strconv.Itoa(opts.Requests)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Skip != nil && opts.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ok, remaining := l.allow(clientIP(r))
			w.Header().Set("RateLimit-Limit", limit)
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", retryAfter)
				respond.Error(w, http.StatusTooManyRequests, rateLimitMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
