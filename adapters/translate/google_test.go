package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
)

func newTestTranslator(t *testing.T, handler http.HandlerFunc) (*GoogleTranslate, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	translator, err := NewGoogleTranslate(GoogleTranslateConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create translator: %v", err)
	}
	return translator, server
}

func TestNewGoogleTranslateRequiresAPIKey(t *testing.T) {
	if _, err := NewGoogleTranslate(GoogleTranslateConfig{}, zaptest.NewLogger(t)); err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestTranslateToEnglish(t *testing.T) {
	var gotSource, gotTarget, gotQ string

	translator, _ := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotSource = r.Form.Get("source")
		gotTarget = r.Form.Get("target")
		gotQ = r.Form.Get("q")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"What do you see?"}]}}`))
	})

	got, err := translator.TranslateToEnglish(context.Background(), "你看到了什么", entities.LanguageChinese)
	if err != nil {
		t.Fatalf("TranslateToEnglish failed: %v", err)
	}

	if got != "What do you see?" {
		t.Errorf("Unexpected translation: %q", got)
	}
	if gotSource != "zh-CN" || gotTarget != "en" {
		t.Errorf("Expected zh-CN -> en, got %s -> %s", gotSource, gotTarget)
	}
	if gotQ != "你看到了什么" {
		t.Errorf("Unexpected query text: %q", gotQ)
	}
}

func TestTranslateFromEnglishUsesTargetCode(t *testing.T) {
	var gotTarget string

	translator, _ := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotTarget = r.Form.Get("target")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"何が見えますか"}]}}`))
	})

	if _, err := translator.TranslateFromEnglish(context.Background(), "What do you see?", entities.LanguageJapanese); err != nil {
		t.Fatalf("TranslateFromEnglish failed: %v", err)
	}
	if gotTarget != "ja" {
		t.Errorf("Expected target ja, got %s", gotTarget)
	}
}

func TestTranslateMapsInvalidLanguage(t *testing.T) {
	translator, _ := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"Invalid Value: target"}}`))
	})

	_, err := translator.TranslateToEnglish(context.Background(), "text", entities.LanguageChinese)
	if !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Errorf("Expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestTranslateMapsServiceFailure(t *testing.T) {
	translator, _ := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":503,"message":"backend error"}}`))
	})

	_, err := translator.TranslateToEnglish(context.Background(), "text", entities.LanguageChinese)
	if !errors.Is(err, domain.ErrTranslation) {
		t.Errorf("Expected ErrTranslation, got %v", err)
	}
}

func TestTranslateRejectsEmptyText(t *testing.T) {
	translator, _ := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected for empty text")
	})

	_, err := translator.TranslateToEnglish(context.Background(), "  ", entities.LanguageChinese)
	if !errors.Is(err, domain.ErrTranslation) {
		t.Errorf("Expected ErrTranslation, got %v", err)
	}
}
