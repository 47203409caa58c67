package repositories

import (
	"context"

	"github.com/csmith/lingotutor/domain/entities"
)

// ObjectDetector abstracts zero-shot object detection: free-text candidate
// labels rather than a fixed trained class set.
type ObjectDetector interface {
	// Detect runs detection over an encoded image and returns all raw
	// predictions; confidence filtering is the caller's concern.
	Detect(ctx context.Context, image []byte, labels []string) ([]entities.Prediction, error)
}
