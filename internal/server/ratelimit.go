package server

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultLimiterIdleTTL is how long a client may stay silent before its
	// limiter is dropped. It is never shorter than a full bucket refill, so an
	// evicted client comes back to the same allowance it would have had.
	DefaultLimiterIdleTTL = 10 * time.Minute

	// MaxTrackedClients caps the pool; when reached, idle clients are swept and
	// then the least recently seen client is dropped.
	MaxTrackedClients = 10000
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterPool manages per-client rate limiters
type RateLimiterPool struct {
	limiters          map[string]*clientLimiter
	requestsPerMinute int
	burst             int
	idleTTL           time.Duration
	maxClients        int
	lastSweep         time.Time
	now               func() time.Time
	mu                sync.Mutex
	logger            *slog.Logger
}

// NewRateLimiterPool creates a pool where every client gets requestsPerMinute
// with a burst of burstPercent of that rate (at least 1)
func NewRateLimiterPool(requestsPerMinute, burstPercent int, logger *slog.Logger) *RateLimiterPool {
	if logger == nil {
		logger = slog.Default()
	}
	burst := max(1, requestsPerMinute*burstPercent/100)
	idleTTL := DefaultLimiterIdleTTL
	if requestsPerMinute > 0 {
		refill := time.Duration(burst) * time.Minute / time.Duration(requestsPerMinute)
		idleTTL = max(idleTTL, refill)
	}
	return &RateLimiterPool{
		limiters:          make(map[string]*clientLimiter),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		idleTTL:           idleTTL,
		maxClients:        MaxTrackedClients,
		now:               time.Now,
		logger:            logger,
	}
}

// GetOrCreate returns the client's limiter, creating it on first use
func (p *RateLimiterPool) GetOrCreate(clientID string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) >= p.idleTTL {
		p.evictIdle(now)
	}

	if entry, exists := p.limiters[clientID]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(p.limiters) >= p.maxClients {
		p.evictIdle(now)
		if len(p.limiters) >= p.maxClients {
			p.evictOldest()
		}
	}

	// Convert requests per minute to requests per second
	rps := float64(p.requestsPerMinute) / 60.0
	limiter := rate.NewLimiter(rate.Limit(rps), p.burst)
	p.limiters[clientID] = &clientLimiter{limiter: limiter, lastSeen: now}

	p.logger.Debug("Created rate limiter",
		"client", clientID,
		"rpm", p.requestsPerMinute,
		"rps", rps,
		"burst", p.burst)

	return limiter
}

// evictIdle drops clients not seen within idleTTL. Caller holds mu.
func (p *RateLimiterPool) evictIdle(now time.Time) {
	p.lastSweep = now
	evicted := 0
	for id, entry := range p.limiters {
		if now.Sub(entry.lastSeen) >= p.idleTTL {
			delete(p.limiters, id)
			evicted++
		}
	}
	if evicted > 0 {
		p.logger.Debug("Evicted idle rate limiters", "count", evicted, "remaining", len(p.limiters))
	}
}

// evictOldest drops the least recently seen client. Caller holds mu.
func (p *RateLimiterPool) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, entry := range p.limiters {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID, oldest = id, entry.lastSeen
		}
	}
	if oldestID != "" {
		delete(p.limiters, oldestID)
	}
}

// Allow reports whether the client may make a request now
func (p *RateLimiterPool) Allow(clientID string) bool {
	return p.GetOrCreate(clientID).Allow()
}

// Len returns the number of tracked clients
func (p *RateLimiterPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}
