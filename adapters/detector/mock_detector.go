package detector

import (
	"context"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

// MockDetector is a placeholder detector that claims to find the first
// candidate label in a fixed region.
type MockDetector struct {
	logger *zap.Logger
}

var _ repositories.ObjectDetector = (*MockDetector)(nil)

// NewMockDetector creates a new mock detector.
func NewMockDetector(logger *zap.Logger) *MockDetector {
	return &MockDetector{logger: logger}
}

// Detect implements repositories.ObjectDetector.
func (m *MockDetector) Detect(ctx context.Context, image []byte, labels []string) ([]entities.Prediction, error) {
	m.logger.Debug("Mock detection", zap.Strings("labels", labels))
	if len(labels) == 0 {
		return nil, nil
	}
	return []entities.Prediction{
		{
			Box:        entities.Box{XMin: 10, YMin: 10, XMax: 100, YMax: 100},
			Label:      labels[0],
			Confidence: 0.9,
		},
	}, nil
}
