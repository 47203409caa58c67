package tts

import (
	"context"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

// MockTextToSpeech is a placeholder implementation for local development.
type MockTextToSpeech struct {
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service.
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// SynthesizeAudio implements repositories.TextToSpeech.
func (t *MockTextToSpeech) SynthesizeAudio(ctx context.Context, text string, language entities.Language) ([]byte, error) {
	t.logger.Info("Mock synthesis",
		zap.String("text", text),
		zap.String("language", language.String()))

	// Audio size scales with text so callers see plausible payloads.
	mockAudio := make([]byte, len(text)*100)
	for i := range mockAudio {
		mockAudio[i] = byte(i % 256)
	}

	return mockAudio, nil
}
