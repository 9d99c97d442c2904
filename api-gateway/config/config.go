package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port          string
	RedisAddr     string
	RedisPassword string
	CORSOrigins   string
	Services      map[string]ServiceConfig
}

type env struct {
	Port          string   `envconfig:"GATEWAY_PORT" default:"8000"`
	RedisAddr     string   `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string   `envconfig:"REDIS_PASSWORD"`
	CORSOrigins   string   `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
	AuthURLs      []string `envconfig:"AUTH_SERVICE_URLS" default:"http://localhost:8080"`
	CatalogURLs   []string `envconfig:"CATALOG_SERVICE_URLS" default:"http://localhost:8081"`
	InventoryURLs []string `envconfig:"INVENTORY_SERVICE_URLS" default:"http://localhost:8082"`
	SalesURLs     []string `envconfig:"SALES_SERVICE_URLS" default:"http://localhost:8083"`
}

// LoadConfig loads the gateway configuration from the environment
func LoadConfig() (*GatewayConfig, error) {
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, err
	}

	return &GatewayConfig{
		Port:          e.Port,
		RedisAddr:     e.RedisAddr,
		RedisPassword: e.RedisPassword,
		CORSOrigins:   e.CORSOrigins,
		Services: map[string]ServiceConfig{
			"auth": {
				Name:        "auth-service",
				Instances:   e.AuthURLs,
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"catalog": {
				Name:        "catalog-service",
				Instances:   e.CatalogURLs,
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"inventory": {
				Name:        "inventory-service",
				Instances:   e.InventoryURLs,
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"sales": {
				Name:        "sales-service",
				Instances:   e.SalesURLs,
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}, nil
}
