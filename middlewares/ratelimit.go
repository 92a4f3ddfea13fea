package middlewares

import (
	"sync"
	"time"

	"OdontoSystem/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterData keeps one token bucket per client IP.
type rateLimiterData struct {
	config  RateLimiterConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
	swept   time.Time
}

const limiterIdleTTL = 10 * time.Minute

func (d *rateLimiterData) allow(ip string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.swept) > limiterIdleTTL {
		for key, client := range d.clients {
			if now.Sub(client.lastSeen) > limiterIdleTTL {
				delete(d.clients, key)
			}
		}
		d.swept = now
	}

	client, ok := d.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(d.config.RequestsPerSecond), d.config.Burst)}
		d.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	data := &rateLimiterData{config: config, clients: make(map[string]*clientLimiter)}

	return func(c *gin.Context) {
		if !data.allow(c.ClientIP(), time.Now()) {
			HttpError(c, apperrors.RateLimited("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
