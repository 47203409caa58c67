package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

// MockTranslator is a reversible placeholder: it tags text with the
// direction instead of translating, so round trips stay deterministic.
type MockTranslator struct {
	logger *zap.Logger
}

var _ repositories.Translator = (*MockTranslator)(nil)

// NewMockTranslator creates a new mock translator.
func NewMockTranslator(logger *zap.Logger) *MockTranslator {
	return &MockTranslator{logger: logger}
}

// TranslateToEnglish implements repositories.Translator.
func (m *MockTranslator) TranslateToEnglish(ctx context.Context, text string, language entities.Language) (string, error) {
	m.logger.Debug("Mock translate to English", zap.String("language", language.String()))
	return fmt.Sprintf("[en] %s", text), nil
}

// TranslateFromEnglish implements repositories.Translator.
func (m *MockTranslator) TranslateFromEnglish(ctx context.Context, text string, language entities.Language) (string, error) {
	m.logger.Debug("Mock translate from English", zap.String("language", language.String()))
	return fmt.Sprintf("[%s] %s", language.TranslateCode(), text), nil
}
