// Package config loads server-level settings from the environment.
// Capability adapters keep their own FromEnv loaders; this package only
// covers what the server itself needs to run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "5170"
	defaultAudioDir       = "audio"
	defaultScoreThreshold = 0.15
	defaultMaxTurns       = 5
	defaultMaxChars       = 1200
	defaultSessionTTL     = 30 * time.Minute
	defaultFetchTimeout   = 10 * time.Second
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":5170".
	Addr string

	// AudioDir is the flat directory holding audio artifacts.
	AudioDir string

	// ScoreThreshold is the minimum detection confidence (exclusive) for a
	// prediction to be drawn.
	ScoreThreshold float64

	// HistoryMaxTurns bounds rolling conversation history by turn count.
	HistoryMaxTurns int

	// HistoryMaxChars bounds rolling conversation history by total
	// characters, so one overlong pair cannot blow the context window.
	HistoryMaxChars int

	// SessionTTL is how long an idle conversation session survives.
	SessionTTL time.Duration

	// FetchTimeout bounds outbound image fetches.
	FetchTimeout time.Duration

	// JWTSecret signs session tokens.
	JWTSecret []byte
}

// Load reads configuration from the environment. A secrets.env file is
// loaded first when present; missing files are not an error.
func Load() (*Config, error) {
	_ = godotenv.Load("secrets.env")

	cfg := &Config{
		Addr:            ":" + getEnvOrDefault("PORT", defaultPort),
		AudioDir:        getEnvOrDefault("AUDIO_DIR", defaultAudioDir),
		ScoreThreshold:  defaultScoreThreshold,
		HistoryMaxTurns: defaultMaxTurns,
		HistoryMaxChars: defaultMaxChars,
		SessionTTL:      defaultSessionTTL,
		FetchTimeout:    defaultFetchTimeout,
		JWTSecret:       []byte(os.Getenv("SESSION_JWT_SECRET")),
	}

	if raw := strings.TrimSpace(os.Getenv("IMAGE_SCORE_THRESHOLD")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid IMAGE_SCORE_THRESHOLD value %q: %w", raw, err)
		}
		if threshold < 0 || threshold >= 1 {
			return nil, fmt.Errorf("IMAGE_SCORE_THRESHOLD must be in [0, 1), got %s", raw)
		}
		cfg.ScoreThreshold = threshold
	}

	if raw := strings.TrimSpace(os.Getenv("HISTORY_MAX_TURNS")); raw != "" {
		turns, err := strconv.Atoi(raw)
		if err != nil || turns < 1 {
			return nil, fmt.Errorf("invalid HISTORY_MAX_TURNS value %q", raw)
		}
		cfg.HistoryMaxTurns = turns
	}

	if raw := strings.TrimSpace(os.Getenv("HISTORY_MAX_CHARS")); raw != "" {
		chars, err := strconv.Atoi(raw)
		if err != nil || chars < 1 {
			return nil, fmt.Errorf("invalid HISTORY_MAX_CHARS value %q", raw)
		}
		cfg.HistoryMaxChars = chars
	}

	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 1 {
			return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES value %q", raw)
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
