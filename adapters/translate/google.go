// Package translate provides a Translator adapter backed by the Google
// Translate v2 REST API.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

const (
	defaultAPIBaseURL = "https://translation.googleapis.com/language/translate/v2"
	englishCode       = "en"
	requestTimeout    = 10 * time.Second
)

// GoogleTranslateConfig holds configuration for the translator adapter.
// Required fields:
// - APIKey: a Google Cloud API key with the Translate API enabled
// Optional fields with defaults:
// - APIBaseURL: override for tests
type GoogleTranslateConfig struct {
	APIKey     string
	APIBaseURL string
}

// NewGoogleTranslateConfigFromEnv builds a config from the environment.
func NewGoogleTranslateConfigFromEnv() GoogleTranslateConfig {
	return GoogleTranslateConfig{
		APIKey:     os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
		APIBaseURL: os.Getenv("GOOGLE_TRANSLATE_API_BASE_URL"),
	}
}

// GoogleTranslate implements Translator using the Translate v2 REST API.
type GoogleTranslate struct {
	apiKey     string
	apiBaseURL string
	client     *http.Client
	logger     *zap.Logger
}

var _ repositories.Translator = (*GoogleTranslate)(nil)

// NewGoogleTranslate creates a new translator adapter.
func NewGoogleTranslate(config GoogleTranslateConfig, logger *zap.Logger) (*GoogleTranslate, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("google translate API key is required")
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	return &GoogleTranslate{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		client:     &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}, nil
}

// TranslateToEnglish translates target-language text to English.
func (g *GoogleTranslate) TranslateToEnglish(ctx context.Context, text string, language entities.Language) (string, error) {
	return g.translate(ctx, text, language.TranslateCode(), englishCode)
}

// TranslateFromEnglish translates English text into the target language.
func (g *GoogleTranslate) TranslateFromEnglish(ctx context.Context, text string, language entities.Language) (string, error) {
	return g.translate(ctx, text, englishCode, language.TranslateCode())
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GoogleTranslate) translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text cannot be empty", domain.ErrTranslation)
	}

	form := url.Values{}
	form.Set("q", text)
	form.Set("source", source)
	form.Set("target", target)
	form.Set("format", "text")
	form.Set("key", g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiBaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslation, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranslation, err)
	}

	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", domain.ErrTranslation, err)
	}

	if resp.StatusCode != http.StatusOK {
		// The API reports unknown language codes as a 400 "invalid value"
		// on the source/target parameter.
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(parsed.Error.Message), "invalid") {
			return "", fmt.Errorf("%w: %s -> %s", domain.ErrUnsupportedLanguage, source, target)
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrTranslation, resp.StatusCode, parsed.Error.Message)
	}

	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("%w: empty translation result", domain.ErrTranslation)
	}

	translated := parsed.Data.Translations[0].TranslatedText
	g.logger.Debug("Translated text",
		zap.String("source", source),
		zap.String("target", target),
		zap.Int("chars", len([]rune(translated))))

	return translated, nil
}
