package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
	"github.com/csmith/lingotutor/internal/audio"
)

// MockSpeechToText is a placeholder implementation for local development.
// It still enforces the WAV format contract so the voice path behaves like
// production.
type MockSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a new mock speech-to-text service.
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// TranscribeAudio implements repositories.SpeechToText.
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioPath string, language entities.Language) (string, error) {
	info, err := audio.ValidateWAV(audioPath)
	if err != nil {
		return "", err
	}

	s.logger.Info("Mock transcription",
		zap.String("language", language.String()),
		zap.Int("sampleRate", info.SampleRate))

	switch language {
	case entities.LanguageJapanese:
		return "こんにちは", nil
	default:
		return "你好", nil
	}
}
