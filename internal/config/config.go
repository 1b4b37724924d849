package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingSecret = errors.New("config: REMINDD_JWT_SECRET is required")

type Config struct {
	Addr            string
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	PollInterval    time.Duration
	SchedulerBuffer int
}

func Default() Config {
	return Config{
		Addr:            ":5000",
		DBPath:          "remindd.db",
		TokenTTL:        24 * time.Hour,
		PollInterval:    time.Minute,
		SchedulerBuffer: 64,
	}
}

// FromEnv overlays REMINDD_* environment variables on the given base.
// Unset or unparseable variables leave the base value in place, except
// the JWT secret which has no safe default.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := getEnvString("REMINDD_ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := getEnvString("REMINDD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("REMINDD_JWT_SECRET"); ok {
		cfg.JWTSecret = v
	}
	if v, ok := getEnvDuration("REMINDD_TOKEN_TTL"); ok && v > 0 {
		cfg.TokenTTL = v
	}
	if v, ok := getEnvDuration("REMINDD_POLL_INTERVAL"); ok && v > 0 {
		cfg.PollInterval = v
	}
	if v, ok := getEnvInt("REMINDD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}
	return cfg, nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
