package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Wizard  WizardConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type WizardConfig struct {
	// AddressMode is "complexes" (pick a residential complex) or
	// "street" (free-text street input).
	AddressMode string
	SessionTTL  time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8000/api")
	viper.SetDefault("BACKEND_TIMEOUT", "10s")
	viper.SetDefault("WIZARD_ADDRESS_MODE", "complexes")
	viper.SetDefault("WIZARD_SESSION_TTL", "30m")
	viper.SetDefault("LOG_LEVEL", "info")

	backendTimeout, err := time.ParseDuration(viper.GetString("BACKEND_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("WIZARD_SESSION_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_BASE_URL"),
			Timeout: backendTimeout,
		},
		Wizard: WizardConfig{
			AddressMode: viper.GetString("WIZARD_ADDRESS_MODE"),
			SessionTTL:  sessionTTL,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
