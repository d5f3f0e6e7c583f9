package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/observability"
)

// DefaultLimiterIdle is how long a client's bucket is kept without requests.
const DefaultLimiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than Idle are dropped, at most once per Idle interval.
type IPRateLimiter struct {
	Idle time.Duration

	mu        sync.Mutex
	ips       map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows limit requests per second per IP with the given
// burst.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		Idle:  DefaultLimiterIdle,
		ips:   make(map[string]*visitor),
		limit: limit,
		burst: burst,
		now:   time.Now,
	}
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.Idle {
		l.sweep(now)
	}
	v, ok := l.ips[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle buckets. l.mu must be held.
func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range l.ips {
		if now.Sub(v.lastSeen) > l.Idle {
			delete(l.ips, ip)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, r, errors.New(errRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// accessLog logs each request once it completes and reports it to the
// server hooks under its route pattern.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		dur := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, dur)

		logf := s.logger.Info
		if status >= 500 {
			logf = s.logger.Error
		}
		logf("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
