package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

// MockEngine is a deterministic placeholder dialogue engine. It echoes the
// input, which keeps round-trip tests predictable.
type MockEngine struct {
	logger *zap.Logger
}

var _ repositories.DialogueEngine = (*MockEngine)(nil)

// NewMockEngine creates a new mock dialogue engine.
func NewMockEngine(logger *zap.Logger) *MockEngine {
	return &MockEngine{logger: logger}
}

// Reply implements repositories.DialogueEngine.
func (m *MockEngine) Reply(ctx context.Context, history []entities.Exchange, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", fmt.Errorf("%w: user input cannot be empty", domain.ErrGeneration)
	}

	m.logger.Debug("Mock reply", zap.Int("historyTurns", len(history)))
	return fmt.Sprintf("You said: %s", userText), nil
}
