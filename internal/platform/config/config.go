package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTLHours  int
	PasswordMinLen int
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	Auth        AuthConfig
	DatabaseURL string
	NATSURL     string
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		Auth: AuthConfig{
			JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
			TokenTTLHours:  24,
			PasswordMinLen: 8,
		},
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		NATSURL:     strings.TrimSpace(os.Getenv("NATS_URL")),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "anihub"
	}
	if cfg.Auth.JWTSecret == "" {
		return AppConfig{}, errors.New("JWT_SECRET is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
