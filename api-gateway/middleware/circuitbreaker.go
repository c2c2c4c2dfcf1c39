package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/catalog-admin/pkg/logger"
)

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// halfOpenSuccesses is how many consecutive successes close a half-open circuit
const halfOpenSuccesses = 3

// CircuitBreaker guards the catalog upstream. After maxFailures consecutive
// failures the circuit opens and proxied requests are rejected until the
// cooldown elapses; the first request after that probes the upstream in
// half-open state.
type CircuitBreaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration

	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastStateChange time.Time
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(name string, maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:            name,
		maxFailures:     maxFailures,
		cooldown:        cooldown,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Allow reports whether a request may pass. An open circuit whose cooldown
// has elapsed moves to half-open and lets the request through.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.lastStateChange) < cb.cooldown {
			return false
		}
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.lastStateChange = time.Now()
		logger.Logger.Info().
			Str("circuit", cb.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	return true
}

// RecordSuccess resets the failure count; enough successes in half-open
// state close the circuit again
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= halfOpenSuccesses {
			cb.state = StateClosed
			cb.failures = 0
			cb.successes = 0
			cb.lastStateChange = time.Now()
			logger.Logger.Info().
				Str("circuit", cb.name).
				Msg("Circuit breaker closed after recovery")
		}
	case StateClosed:
		cb.failures = 0
	}
}

// RecordFailure counts a failure; a half-open circuit reopens immediately,
// a closed one opens at the threshold
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.lastStateChange = time.Now()
		logger.Logger.Warn().
			Str("circuit", cb.name).
			Msg("Circuit breaker reopened after half-open failure")
		return
	}
	if cb.state == StateClosed && cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.lastStateChange = time.Now()
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Msg("Circuit breaker opened")
	}
}

// State returns the current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// CircuitBreakerMiddleware short-circuits proxied requests while the catalog
// service is failing. Gateway-local endpoints are never blocked.
func CircuitBreakerMiddleware(cb *CircuitBreaker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isProxiedPath(c.Path()) {
			return c.Next()
		}

		if !cb.Allow() {
			logger.Logger.Warn().
				Str("circuit", cb.name).
				Str("path", c.Path()).
				Msg("Circuit breaker is open, request blocked")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":       "Service temporarily unavailable",
				"retry_after": int(cb.cooldown.Seconds()),
			})
		}

		err := c.Next()
		if err != nil || c.Response().StatusCode() >= 500 {
			cb.RecordFailure()
		} else {
			cb.RecordSuccess()
		}
		return err
	}
}

// isProxiedPath reports whether the path is forwarded to the catalog service
func isProxiedPath(path string) bool {
	for _, prefix := range []string{"/api/", "/auth/", "/users", "/admin", "/swagger"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
