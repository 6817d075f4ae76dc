package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret     string
	JWTTTLMinutes int

	// AchievementRewardPoints controls whether an achievement's reward points
	// are credited to total_points atomically with the unlock.
	AchievementRewardPoints bool

	RateLimitChallenge time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTTTLMinutes: 24 * 60,

		AchievementRewardPoints: getEnv("ACHIEVEMENT_REWARD_POINTS", "true") == "true",
	}

	if raw := os.Getenv("JWT_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %q", raw)
		}
		cfg.JWTTTLMinutes = minutes
	}

	var err error
	cfg.RateLimitChallenge, err = time.ParseDuration(getEnv("RATE_LIMIT_CHALLENGE", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CHALLENGE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
