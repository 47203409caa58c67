// Package detector provides a zero-shot ObjectDetector adapter backed by
// the HuggingFace Inference API.
package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://api-inference.huggingface.co/models"
	defaultModel      = "google/owlv2-base-patch16-ensemble"
	requestTimeout    = 30 * time.Second
)

// HuggingFaceConfig holds configuration for the detector adapter.
// Required fields:
// - Token: a HuggingFace API token
// Optional fields with defaults:
// - APIBaseURL: override for tests
// - Model: zero-shot detection checkpoint
type HuggingFaceConfig struct {
	Token      string
	APIBaseURL string
	Model      string
}

// NewHuggingFaceConfigFromEnv builds a config from the environment.
func NewHuggingFaceConfigFromEnv() HuggingFaceConfig {
	return HuggingFaceConfig{
		Token:      os.Getenv("HF_TOKEN"),
		APIBaseURL: os.Getenv("HF_API_BASE_URL"),
		Model:      os.Getenv("HF_DETECTOR_MODEL"),
	}
}

// HuggingFaceDetector implements ObjectDetector against the hosted
// inference endpoint for an OWLv2 checkpoint.
type HuggingFaceDetector struct {
	token      string
	apiBaseURL string
	model      string
	client     *http.Client
	logger     *zap.Logger
}

var _ repositories.ObjectDetector = (*HuggingFaceDetector)(nil)

// NewHuggingFaceDetector creates a new detector adapter.
func NewHuggingFaceDetector(config HuggingFaceConfig, logger *zap.Logger) (*HuggingFaceDetector, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("huggingface token is required")
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default detector model", zap.String("model", model))
	}

	return &HuggingFaceDetector{
		token:      config.Token,
		apiBaseURL: apiBaseURL,
		model:      model,
		client:     &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

type detectRequest struct {
	Inputs struct {
		Image           string   `json:"image"`
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"inputs"`
}

// Detect runs zero-shot detection over an encoded image.
func (h *HuggingFaceDetector) Detect(ctx context.Context, image []byte, labels []string) ([]entities.Prediction, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one candidate label is required")
	}

	var request detectRequest
	request.Inputs.Image = base64.StdEncoding.EncodeToString(image)
	request.Inputs.CandidateLabels = labels

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", h.apiBaseURL, h.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read detection response: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		// The hosted model may still be loading.
		return nil, fmt.Errorf("%w: %s", domain.ErrDetectionUnavailable, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection API returned status %d: %s", resp.StatusCode, string(body))
	}

	var predictions []entities.Prediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		return nil, fmt.Errorf("malformed detection response: %w", err)
	}

	h.logger.Info("Detection completed",
		zap.Strings("labels", labels),
		zap.Int("predictions", len(predictions)))

	return predictions, nil
}
