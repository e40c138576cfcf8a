package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret signs demo session tokens. Deployments set SESSION_SECRET.
const DefaultSessionSecret = "menugenius-dev-secret"

// KioskConfig drives the kiosk front-end core.
type KioskConfig struct {
	APIURL              string        `yaml:"api_url"`
	DataPath            string        `yaml:"data_path"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	SessionDuration     time.Duration `yaml:"session_duration"`
	SessionSecret       string        `yaml:"session_secret"`
	MockRecommendations bool          `yaml:"mock_recommendations"`
	OfflineOrders       bool          `yaml:"offline_orders"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	LogLevel            string        `yaml:"log_level"`
}

func DefaultKioskConfig() *KioskConfig {
	dataPath := "menugenius.db"
	if home, err := os.UserHomeDir(); err == nil {
		dataPath = filepath.Join(home, ".menugenius", "kiosk.db")
	}
	return &KioskConfig{
		APIURL:          "http://localhost:8084/api",
		DataPath:        dataPath,
		PollInterval:    5 * time.Second,
		SessionDuration: 8 * time.Hour,
		SessionSecret:   DefaultSessionSecret,
		RequestTimeout:  10 * time.Second,
		LogLevel:        "warn",
	}
}

// LoadKioskConfig reads path over the defaults. A missing file is not an
// error. Environment variables override the file.
func LoadKioskConfig(path string) (*KioskConfig, error) {
	cfg := DefaultKioskConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.SessionDuration <= 0 {
		return nil, fmt.Errorf("session_duration must be positive, got %s", cfg.SessionDuration)
	}
	return cfg, nil
}

func (c *KioskConfig) applyEnvOverrides() {
	c.APIURL = getEnv("MENUGENIUS_API_URL", c.APIURL)
	c.DataPath = getEnv("MENUGENIUS_DATA_PATH", c.DataPath)
	c.PollInterval = getEnvDuration("MENUGENIUS_POLL_INTERVAL", c.PollInterval)
	c.SessionDuration = getEnvDuration("MENUGENIUS_SESSION_DURATION", c.SessionDuration)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.MockRecommendations = getEnvBool("MENUGENIUS_MOCK_RECOMMENDATIONS", c.MockRecommendations)
	c.OfflineOrders = getEnvBool("MENUGENIUS_OFFLINE_ORDERS", c.OfflineOrders)
	c.RequestTimeout = getEnvDuration("MENUGENIUS_REQUEST_TIMEOUT", c.RequestTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}
