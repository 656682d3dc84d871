package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/focus-tools/utils"
)

// longestChallenge is the upper bound the HTTP layer accepts for a
// challenge duration.
const longestChallenge = 120 * time.Minute

// Config holds every setting of the service.
type Config struct {
	ServerPort         int
	JWTSecretKey       string
	TokenTTL           time.Duration
	ChallengeTick      time.Duration
	SessionIdleTTL     time.Duration
	JanitorInterval    time.Duration
	CORSAllowedOrigins []string
	LogLevel           slog.Level
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// a missing .env is fine outside local development
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(utils.GetEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	tickMS, err := strconv.Atoi(utils.GetEnvOrDefault("CHALLENGE_TICK_MS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHALLENGE_TICK_MS environment variable: %w", err)
	}
	if tickMS <= 0 {
		return nil, fmt.Errorf("CHALLENGE_TICK_MS must be positive, got %d", tickMS)
	}

	idleTTL, err := positiveDuration("SESSION_IDLE_TTL", "2h")
	if err != nil {
		return nil, err
	}
	janitorInterval, err := positiveDuration("JANITOR_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	// owner tokens are renewed on use; the default still covers a full
	// idle window followed by the longest challenge
	tokenTTL, err := positiveDuration("TOKEN_TTL", (idleTTL + longestChallenge).String())
	if err != nil {
		return nil, err
	}
	if tokenTTL < idleTTL {
		return nil, fmt.Errorf("TOKEN_TTL must not be shorter than SESSION_IDLE_TTL (%s), got %s", idleTTL, tokenTTL)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(utils.GetEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg := &Config{
		ServerPort:         port,
		JWTSecretKey:       jwtKey,
		TokenTTL:           tokenTTL,
		ChallengeTick:      time.Duration(tickMS) * time.Millisecond,
		SessionIdleTTL:     idleTTL,
		JanitorInterval:    janitorInterval,
		CORSAllowedOrigins: splitList(utils.GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           level,
	}

	return cfg, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(utils.GetEnvOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
