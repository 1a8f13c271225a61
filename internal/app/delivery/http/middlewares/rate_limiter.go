package middlewares

import (
	"net"
	"net/http"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoginRateLimiter slows credential guessing. Each client address gets a
// small burst of attempts; exhausting it blocks the address for a cooldown
// window, which costs an attacker far more than the per-token refill alone.
type LoginRateLimiter struct {
	Log       *zap.Logger
	limiters  map[string]*rate.Limiter
	blocked   map[string]time.Time
	mu        sync.Mutex
	attempts  int
	per       time.Duration
	blockTime time.Duration
}

func NewLoginRateLimiter(logger *zap.Logger, attemptsPerMinute int) *LoginRateLimiter {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 5
	}
	return &LoginRateLimiter{
		Log:       logger,
		limiters:  make(map[string]*rate.Limiter),
		blocked:   make(map[string]time.Time),
		attempts:  attemptsPerMinute,
		per:       time.Minute,
		blockTime: 5 * time.Minute,
	}
}

func (l *LoginRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Key on the bare address. RemoteAddr carries an ephemeral port that
		// would give every connection a fresh budget.
		ip := utils.ClientIP(r)
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		l.mu.Lock()

		if blockedUntil, found := l.blocked[ip]; found {
			if time.Now().Before(blockedUntil) {
				l.mu.Unlock()

				utils.BuildErrorResponse(l.Log, w, exceptions.ErrTooManyLoginAttempts(nil))
				return
			}

			delete(l.blocked, ip)
		}

		limiter, exists := l.limiters[ip]
		if !exists {
			limiter = rate.NewLimiter(rate.Every(l.per), l.attempts)
			l.limiters[ip] = limiter
		}

		l.mu.Unlock()

		if !limiter.Allow() {
			l.mu.Lock()
			defer l.mu.Unlock()

			l.blocked[ip] = time.Now().Add(l.blockTime)

			utils.LogSecurityEvent(l.Log, "login attempts blocked", utils.GetRequestID(r.Context()),
				zap.String("ip", ip),
			)
			utils.BuildErrorResponse(l.Log, w, exceptions.ErrTooManyLoginAttempts(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
