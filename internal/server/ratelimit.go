package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// Limits applied per client IP on the AI endpoints. Generation calls
// are expensive upstream; this keeps one misbehaving client from
// burning the whole quota.
const (
	requestsPerMinute = 10
	burst             = 3
	visitorTTL        = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter tracks one token bucket per client IP.
type rateLimiter struct {
	mu sync.Mutex
	// +checklocks:mu
	visitors map[string]*visitor
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{visitors: make(map[string]*visitor)}
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = now
		return v.limiter
	}

	// Opportunistic sweep of stale entries while the lock is held.
	for addr, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, addr)
		}
	}

	v := &visitor{
		limiter:  rate.NewLimiter(rate.Limit(requestsPerMinute)/60, burst),
		lastSeen: now,
	}
	rl.visitors[ip] = v
	return v.limiter
}

// limit wraps a handler with per-IP rate limiting.
func (rl *rateLimiter) limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.get(ip).Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r, ps)
	}
}
