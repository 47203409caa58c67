package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "AUDIO_DIR", "IMAGE_SCORE_THRESHOLD", "HISTORY_MAX_TURNS", "HISTORY_MAX_CHARS", "SESSION_TTL_MINUTES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":5170" {
		t.Errorf("Expected :5170, got %s", cfg.Addr)
	}
	if cfg.AudioDir != "audio" {
		t.Errorf("Expected audio, got %s", cfg.AudioDir)
	}
	if cfg.ScoreThreshold != 0.15 {
		t.Errorf("Expected threshold 0.15, got %f", cfg.ScoreThreshold)
	}
	if cfg.HistoryMaxTurns != 5 {
		t.Errorf("Expected 5 turns, got %d", cfg.HistoryMaxTurns)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m TTL, got %s", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("IMAGE_SCORE_THRESHOLD", "0.4")
	t.Setenv("HISTORY_MAX_TURNS", "3")
	t.Setenv("SESSION_TTL_MINUTES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Addr)
	}
	if cfg.ScoreThreshold != 0.4 {
		t.Errorf("Expected threshold 0.4, got %f", cfg.ScoreThreshold)
	}
	if cfg.HistoryMaxTurns != 3 {
		t.Errorf("Expected 3 turns, got %d", cfg.HistoryMaxTurns)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("Expected 5m TTL, got %s", cfg.SessionTTL)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	for _, raw := range []string{"abc", "-0.1", "1.5"} {
		t.Setenv("IMAGE_SCORE_THRESHOLD", raw)
		if _, err := Load(); err == nil {
			t.Errorf("Expected error for threshold %q", raw)
		}
	}
}
