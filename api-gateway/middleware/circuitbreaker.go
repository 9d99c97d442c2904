package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/comerciolibre/backend/pkg/logger"
)

// CircuitState is the breaker position for one backend service.
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

const (
	breakerFailureThreshold = 5
	breakerOpenFor          = 30 * time.Second
	breakerRecoveryProbes   = 3
)

// CircuitBreaker tracks consecutive 5xx/transport failures for one backend.
// After the failure threshold it opens for a fixed window; the first request
// after the window probes the backend, and three consecutive good probes
// close it again.
type CircuitBreaker struct {
	service string

	mu        sync.Mutex
	state     CircuitState
	failures  int
	probes    int
	openedAt  time.Time
	changedAt time.Time
}

// NewCircuitBreaker creates a closed breaker for the named service.
func NewCircuitBreaker(service string) *CircuitBreaker {
	return &CircuitBreaker{service: service, state: StateClosed, changedAt: time.Now()}
}

// Allow reports whether a request may pass through right now. An open
// breaker whose window has elapsed moves to half-open and lets the probe in.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.openedAt) < breakerOpenFor {
			return false
		}
		cb.transition(StateHalfOpen)
		cb.probes = 0
	}
	return true
}

// Report feeds the outcome of a proxied request back into the breaker.
func (cb *CircuitBreaker) Report(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if failed {
		cb.failures++
		switch {
		case cb.state == StateHalfOpen:
			cb.open()
		case cb.state == StateClosed && cb.failures >= breakerFailureThreshold:
			cb.open()
		}
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.probes++
		if cb.probes >= breakerRecoveryProbes {
			cb.failures = 0
			cb.transition(StateClosed)
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) open() {
	cb.openedAt = time.Now()
	cb.transition(StateOpen)
}

func (cb *CircuitBreaker) transition(next CircuitState) {
	cb.state = next
	cb.changedAt = time.Now()
	logger.Logger.Warn().
		Str("backend", cb.service).
		Str("state", string(next)).
		Int("failures", cb.failures).
		Msg("Circuit breaker state change")
}

// GetState returns the breaker position.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats returns a snapshot for the health endpoints.
func (cb *CircuitBreaker) GetStats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return map[string]interface{}{
		"backend":    cb.service,
		"state":      cb.state,
		"failures":   cb.failures,
		"changed_at": cb.changedAt,
		"seconds_in": time.Since(cb.changedAt).Seconds(),
	}
}

// CircuitBreakerManager holds one breaker per backend service.
type CircuitBreakerManager struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewCircuitBreakerManager creates an empty manager.
func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{breakers: make(map[string]*CircuitBreaker)}
}

// GetOrCreate returns the breaker for a service, creating it on first use.
func (m *CircuitBreakerManager) GetOrCreate(service string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()
	cb, ok := m.breakers[service]
	if !ok {
		cb = NewCircuitBreaker(service)
		m.breakers[service] = cb
	}
	return cb
}

// GetAllStats snapshots every breaker.
func (m *CircuitBreakerManager) GetAllStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make(map[string]interface{}, len(m.breakers))
	for name, cb := range m.breakers {
		stats[name] = cb.GetStats()
	}
	return stats
}

// CircuitBreakerMiddleware rejects requests to backends whose breaker is
// open with a Spanish 503 payload, and feeds proxied outcomes back in. A
// 5xx from the backend counts as a failure; 4xx does not, those are the
// caller's problem.
func CircuitBreakerMiddleware(manager *CircuitBreakerManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		service := DetermineServiceFromPath(c.Path())
		if service == "" {
			return c.Next()
		}

		cb := manager.GetOrCreate(service)
		if !cb.Allow() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"codigo":      "DEPENDENCY_UNAVAILABLE",
				"mensaje":     "Servicio temporalmente no disponible",
				"service":     service,
				"retry_after": int(breakerOpenFor.Seconds()),
			})
		}

		err := c.Next()
		cb.Report(err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError)
		return err
	}
}

// DetermineServiceFromPath maps a request path prefix to its backend service.
func DetermineServiceFromPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/auth"), strings.HasPrefix(path, "/api/usuarios"):
		return "auth"
	case strings.HasPrefix(path, "/api/productos"),
		strings.HasPrefix(path, "/api/categorias"),
		strings.HasPrefix(path, "/api/empresas"):
		return "catalog"
	case strings.HasPrefix(path, "/api/inventarios"), strings.HasPrefix(path, "/api/movimientos"):
		return "inventory"
	case strings.HasPrefix(path, "/api/ventas"), strings.HasPrefix(path, "/api/clientes"):
		return "sales"
	default:
		return ""
	}
}
