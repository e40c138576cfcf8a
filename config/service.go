package config

import "time"

// OrderServiceConfig is read from the environment by order-svc.
type OrderServiceConfig struct {
	Addr              string
	MetricsAddr       string
	PublicURL         string
	ServiceChargeRate float64
	CacheTTL          time.Duration
	JWTSecret         string
	StatusTopic       string
	SeedMenu          bool
	LogLevel          string
}

func LoadOrderServiceConfig() OrderServiceConfig {
	return OrderServiceConfig{
		Addr:              getEnv("ORDER_SVC_ADDR", ":8084"),
		MetricsAddr:       getEnv("METRICS_ADDR", ":9094"),
		PublicURL:         getEnv("PUBLIC_URL", "http://localhost:4200"),
		ServiceChargeRate: getEnvFloat("SERVICE_CHARGE_RATE", 0),
		CacheTTL:          getEnvDuration("ORDER_CACHE_TTL", 10*time.Minute),
		JWTSecret:         getEnv("SESSION_SECRET", DefaultSessionSecret),
		StatusTopic:       getEnv("ORDER_STATUS_TOPIC", "order-status"),
		SeedMenu:          getEnvBool("SEED_MENU", true),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}
