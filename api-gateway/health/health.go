package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/comerciolibre/backend/api-gateway/config"
	"github.com/comerciolibre/backend/pkg/logger"
)

// Status values reported for instances, services, and the gateway itself.
// A service is degraded when some but not all of its instances answer.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// InstanceHealth is the probe result for one backend instance.
type InstanceHealth struct {
	URL     string        `json:"url"`
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

// ServiceHealth aggregates the instance probes of one backend service.
type ServiceHealth struct {
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Instances []InstanceHealth `json:"instances"`
	Timestamp time.Time        `json:"timestamp"`
}

// GatewayHealth is the fan-out result over every configured service.
type GatewayHealth struct {
	Gateway  string                   `json:"gateway"`
	Status   string                   `json:"status"`
	Services map[string]ServiceHealth `json:"services"`
	Uptime   time.Duration            `json:"uptime_seconds"`
}

// HealthChecker probes the /health endpoint of every backend instance.
type HealthChecker struct {
	config    *config.GatewayConfig
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a checker with a 5s per-probe budget.
func NewHealthChecker(cfg *config.GatewayConfig) *HealthChecker {
	return &HealthChecker{
		config:    cfg,
		client:    &http.Client{Timeout: 5 * time.Second},
		startTime: time.Now(),
	}
}

// CheckService probes every instance of one service and rolls the results
// up into a service-level status.
func (h *HealthChecker) CheckService(ctx context.Context, name string, svc config.ServiceConfig) ServiceHealth {
	result := ServiceHealth{
		Name:      name,
		Instances: make([]InstanceHealth, 0, len(svc.Instances)),
		Timestamp: time.Now(),
	}

	healthy := 0
	for _, instance := range svc.Instances {
		probe := h.probe(ctx, instance+svc.HealthCheck)
		probe.URL = instance
		if probe.Status == StatusHealthy {
			healthy++
		}
		result.Instances = append(result.Instances, probe)
	}
	result.Status = rollup(healthy, len(svc.Instances))
	return result
}

func (h *HealthChecker) probe(ctx context.Context, url string) InstanceHealth {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return InstanceHealth{Status: StatusUnhealthy, Error: err.Error(), Latency: time.Since(start)}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return InstanceHealth{Status: StatusUnhealthy, Error: err.Error(), Latency: time.Since(start)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return InstanceHealth{
			Status:  StatusUnhealthy,
			Error:   fmt.Sprintf("status %d", resp.StatusCode),
			Latency: time.Since(start),
		}
	}
	return InstanceHealth{Status: StatusHealthy, Latency: time.Since(start)}
}

// CheckAllServices probes every service concurrently.
func (h *HealthChecker) CheckAllServices(ctx context.Context) GatewayHealth {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		services = make(map[string]ServiceHealth, len(h.config.Services))
	)

	for name, svc := range h.config.Services {
		wg.Add(1)
		go func(name string, svc config.ServiceConfig) {
			defer wg.Done()
			sh := h.CheckService(ctx, name, svc)
			if sh.Status != StatusHealthy {
				logger.Warn(ctx).Str("backend", name).Str("status", sh.Status).Msg("Backend health degraded")
			}
			mu.Lock()
			services[name] = sh
			mu.Unlock()
		}(name, svc)
	}
	wg.Wait()

	healthy := 0
	for _, svc := range services {
		if svc.Status == StatusHealthy {
			healthy++
		}
	}

	return GatewayHealth{
		Gateway:  "api-gateway",
		Status:   rollup(healthy, len(services)),
		Services: services,
		Uptime:   time.Since(h.startTime),
	}
}

// QuickCheck is the liveness answer: the gateway process itself only.
func (h *HealthChecker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    StatusHealthy,
		"gateway":   "api-gateway",
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}

func rollup(healthy, total int) string {
	switch {
	case total > 0 && healthy == total:
		return StatusHealthy
	case healthy > 0:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}
