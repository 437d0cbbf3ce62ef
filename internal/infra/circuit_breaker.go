package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/metrics"

	"github.com/rs/zerolog/log"
)

// ── Insight provider breaker ──────────────────────────────────────────────────
// Stops calling the text-generation provider after repeated failures.
//
//   - Closed:    calls go through
//   - Open:      calls fail with ErrCircuitOpen without reaching the provider
//   - Half-Open: after OpenTimeout, trial calls go through; SuccessThreshold
//     successes close it, one failure re-opens it
//
// A call abandoned by its own caller (context.Canceled) says nothing about the
// provider and is not counted either way.

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

// String is the name reported by /health.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Failure reasons recorded by the breaker.
const (
	FailureTimeout = "timeout"
	FailureError   = "error"
)

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	Name             string        // provider label for logs and metrics
	FailureThreshold int           // consecutive failures before opening
	SuccessThreshold int           // half-open successes before closing
	OpenTimeout      time.Duration // time spent open before probing
}

// DefaultCBConfig trips after 3 straight provider failures and lets a trial
// call through again after a minute.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "ai",
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      60 * time.Second,
	}
}

// CBStats is a point-in-time view of the breaker.
type CBStats struct {
	State               CBState
	ConsecutiveFailures int
	Timeouts            int64 // lifetime count of FailureTimeout
	Errors              int64 // lifetime count of FailureError
	LastFailure         string
	LastFailureAt       time.Time
	OpenedAt            time.Time
}

// CircuitBreaker is safe for concurrent use.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     CBState
	failures  int
	successes int
	stats     CBStats
}

// NewCircuitBreaker creates a breaker in Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	cb := &CircuitBreaker{cfg: cfg, now: time.Now, state: CBClosed}
	metrics.SetAIBreakerState(cfg.Name, int(CBClosed))
	return cb
}

// State returns the current state, moving Open to Half-Open once the open
// period has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refresh()
	return cb.state
}

// Stats returns a copy of the breaker's counters.
func (cb *CircuitBreaker) Stats() CBStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refresh()
	s := cb.stats
	s.State = cb.state
	s.ConsecutiveFailures = cb.failures
	return s
}

// Execute runs fn unless the breaker is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch {
	case err == nil:
		cb.onSuccess()
	case errors.Is(err, context.Canceled):
	default:
		cb.onFailure(classify(err))
	}
	return err
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureError
}

// refresh must be called under lock.
func (cb *CircuitBreaker) refresh() {
	if cb.state == CBOpen && cb.now().Sub(cb.stats.OpenedAt) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen, "")
	}
}

// onFailure must be called under lock.
func (cb *CircuitBreaker) onFailure(reason string) {
	cb.failures++
	cb.stats.LastFailure = reason
	cb.stats.LastFailureAt = cb.now()
	if reason == FailureTimeout {
		cb.stats.Timeouts++
	} else {
		cb.stats.Errors++
	}
	metrics.RecordAIProviderFailure(cb.cfg.Name, reason)

	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.transition(CBOpen, reason)
		}
	case CBHalfOpen:
		cb.transition(CBOpen, reason)
	}
}

// onSuccess must be called under lock.
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.transition(CBClosed, "")
		}
	}
}

// transition must be called under lock.
func (cb *CircuitBreaker) transition(to CBState, reason string) {
	from := cb.state
	cb.state = to
	cb.successes = 0
	switch to {
	case CBOpen:
		cb.stats.OpenedAt = cb.now()
		log.Warn().
			Str("provider", cb.cfg.Name).
			Str("reason", reason).
			Int("consecutive_failures", cb.failures).
			Dur("open_for", cb.cfg.OpenTimeout).
			Msg("insight provider breaker opened")
	case CBClosed:
		cb.failures = 0
		log.Info().Str("provider", cb.cfg.Name).Str("from", from.String()).Msg("insight provider breaker closed")
	}
	metrics.SetAIBreakerState(cb.cfg.Name, int(to))
}
