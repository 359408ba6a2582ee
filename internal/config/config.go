package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the simulator driver settings, sourced from the
// environment with sensible defaults.
type Config struct {
	SMAWindow    int
	InitialPrice float64
	Drift        float64
	Volatility   float64
	TickInterval time.Duration
	Seed         int64
	OrderChance  float64 // Probability of submitting a random order each tick
}

func Load() (*Config, error) {
	cfg := &Config{
		SMAWindow:    getEnvInt("GARM_SMA_WINDOW", 20),
		InitialPrice: getEnvFloat("GARM_INITIAL_PRICE", 45000.0),
		Drift:        getEnvFloat("GARM_DRIFT", 0.0001),
		Volatility:   getEnvFloat("GARM_VOLATILITY", 0.02),
		TickInterval: getEnvDuration("GARM_TICK_INTERVAL", 500*time.Millisecond),
		Seed:         getEnvInt64("GARM_SEED", time.Now().UnixNano()),
		OrderChance:  getEnvFloat("GARM_ORDER_CHANCE", 0.6),
	}
	return cfg, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
