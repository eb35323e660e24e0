// Package healthcheck runs dependency probes for the health endpoint
package healthcheck

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents a health check
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
	Metadata    interface{}   `json:"metadata,omitempty"`
}

// Response represents the health check response
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck manages health checks
type HealthCheck struct {
	version  string
	checkers map[string]Checker
	logger   *zap.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	cache    *Response
	cacheTTL time.Duration
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		checkers: make(map[string]Checker),
		logger:   logger,
		timeout:  3 * time.Second,
		cacheTTL: 5 * time.Second,
	}
}

// Register registers a health checker
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cache = nil
}

// SetCacheTTL sets the cache TTL for health check responses. Zero disables caching.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Check performs all health checks concurrently
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	h.mu.RUnlock()

	start := time.Now()
	response := Response{
		Version:   h.version,
		Timestamp: start,
		Status:    StatusHealthy,
		Checks:    make([]Check, 0, len(checkers)),
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	checksChan := make(chan Check, len(checkers))
	for name, checker := range checkers {
		wg.Add(1)
		go func(n string, c Checker) {
			defer wg.Done()
			check := c.Check(checkCtx)
			check.Name = n
			checksChan <- check
		}(name, checker)
	}
	wg.Wait()
	close(checksChan)

	for check := range checksChan {
		response.Checks = append(response.Checks, check)

		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
			h.logger.Warn("Health check failed", zap.String("check", check.Name), zap.String("message", check.Message))
		case check.Status == StatusDegraded && response.Status == StatusHealthy:
			response.Status = StatusDegraded
		}
	}
	sort.Slice(response.Checks, func(i, j int) bool { return response.Checks[i].Name < response.Checks[j].Name })

	response.TotalDuration = time.Since(start)

	h.mu.Lock()
	h.cache = &response
	h.mu.Unlock()

	return response
}

// SQLPinger is satisfied by *sql.DB
type SQLPinger interface {
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
}

// DatabaseChecker checks database health
type DatabaseChecker struct {
	db SQLPinger
}

// NewDatabaseChecker creates a new database checker
func NewDatabaseChecker(db SQLPinger) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check pings the database and reports pool utilization
func (d *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "database", LastChecked: start}

	err := d.db.PingContext(ctx)
	check.Duration = time.Since(start)
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}

	stats := d.db.Stats()
	check.Status = StatusHealthy
	check.Metadata = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	if stats.MaxOpenConnections > 0 {
		utilizationPercent := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		if utilizationPercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High connection pool utilization"
		}
	}

	return check
}

// RedisPinger is satisfied by redis.UniversalClient
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker checks Redis health
type RedisChecker struct {
	client RedisPinger
}

// NewRedisChecker creates a new Redis checker
func NewRedisChecker(client RedisPinger) *RedisChecker {
	return &RedisChecker{client: client}
}

// Check performs Redis health check
func (r *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "redis", LastChecked: start}

	pong, err := r.client.Ping(ctx).Result()
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}
	if pong != "PONG" {
		check.Status = StatusUnhealthy
		check.Message = fmt.Sprintf("unexpected ping response %q", pong)
		return check
	}

	check.Status = StatusHealthy
	return check
}

// CustomChecker wraps a function as a Checker
type CustomChecker struct {
	check func(ctx context.Context) (Status, string, interface{})
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{check: check}
}

// Check runs the wrapped function
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()
	status, message, metadata := c.check(ctx)
	return Check{
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		Duration:    time.Since(start),
	}
}

// MarshalJSON customizes JSON marshaling for duration
func (c Check) MarshalJSON() ([]byte, error) {
	type Alias Check
	return json.Marshal(&struct {
		Duration float64 `json:"duration_ms"`
		*Alias
	}{
		Duration: float64(c.Duration.Milliseconds()),
		Alias:    (*Alias)(&c),
	})
}

// MarshalJSON customizes JSON marshaling for response
func (r Response) MarshalJSON() ([]byte, error) {
	type Alias Response
	return json.Marshal(&struct {
		TotalDuration float64 `json:"total_duration_ms"`
		*Alias
	}{
		TotalDuration: float64(r.TotalDuration.Milliseconds()),
		Alias:         (*Alias)(&r),
	})
}
