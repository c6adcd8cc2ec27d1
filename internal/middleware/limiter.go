package middleware

import (
	"context"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"kidofood-web/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Tier is one rate limit policy.
type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

// Rate Limit Tiers
var (
	// Login / register / claim form posts
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}

	// Everything else
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}
)

// AuthPaths are the form endpoints that get the strict tier on POST.
var AuthPaths = []string{"/login", "/register", "/claim"}

const visitorIdle = 3 * time.Minute

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// visitor retrieves or creates the limiter for a bucket key.
func (l *Limiter) visitor(key string, t Tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(t.Limit, t.Burst)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// cleanup removes visitors idle for longer than visitorIdle.
func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, key)
		}
	}
}

// Run prunes idle visitors every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// Middleware rejects requests over their tier's budget with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := resolveTier(r)

		// Separate quotas per tier for the same visitor, e.g. "ip:10.0.0.1:strict".
		key := identity(r) + ":" + tier.Name

		if !l.visitor(key, tier).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limited",
				zap.String("tier", tier.Name),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// identity prefers the session user and falls back to the client IP.
func identity(r *http.Request) string {
	if userID := logger.UserIDFrom(r.Context()); userID != "" {
		return "user:" + userID
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveTier(r *http.Request) Tier {
	if r.Method == http.MethodPost && slices.Contains(AuthPaths, r.URL.Path) {
		return TierStrict
	}
	return TierGeneral
}
