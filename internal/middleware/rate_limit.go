package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/i18n"
)

const rateLimiterShards = 16

type window struct {
	remaining int
	resetAt   time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	clients map[string]*window
}

// RateLimiter allows a fixed number of requests per client IP in each window.
// Clients are spread over shards to keep lock contention low.
type RateLimiter struct {
	shards [rateLimiterShards]limiterShard
	limit  int
	period time.Duration
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a limiter and starts its janitor.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		period: period,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i].clients = make(map[string]*window)
	}
	go rl.janitor()
	return rl
}

func (rl *RateLimiter) shard(client string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(client))
	return &rl.shards[h.Sum32()%rateLimiterShards]
}

// take consumes one request for client.
func (rl *RateLimiter) take(client string) (allowed bool, remaining int, resetAt time.Time) {
	s := rl.shard(client)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := rl.now()
	w, ok := s.clients[client]
	if !ok || !now.Before(w.resetAt) {
		w = &window{remaining: rl.limit, resetAt: now.Add(rl.period)}
		s.clients[client] = w
	}
	if w.remaining <= 0 {
		return false, 0, w.resetAt
	}
	w.remaining--
	return true, w.remaining, w.resetAt
}

// RateLimit returns the middleware enforcing the limit per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetAt := rl.take(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retry := int(math.Ceil(resetAt.Sub(rl.now()).Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retry, 1)))
			msg := i18n.Message(i18n.ErrKeyRateLimitExceeded)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, msg).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictExpired() {
	now := rl.now()
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		for client, w := range s.clients {
			if !now.Before(w.resetAt) {
				delete(s.clients, client)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the janitor.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Clients returns the number of tracked client windows.
func (rl *RateLimiter) Clients() int {
	n := 0
	for i := range rl.shards {
		s := &rl.shards[i]
		s.mu.Lock()
		n += len(s.clients)
		s.mu.Unlock()
	}
	return n
}
