package entities

import (
	"errors"
	"testing"

	"github.com/csmith/lingotutor/domain"
)

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("chinese")
	if err != nil {
		t.Fatalf("ParseLanguage(chinese) failed: %v", err)
	}
	if lang != LanguageChinese {
		t.Errorf("Expected %s, got %s", LanguageChinese, lang)
	}

	lang, err = ParseLanguage("japanese")
	if err != nil {
		t.Fatalf("ParseLanguage(japanese) failed: %v", err)
	}
	if lang != LanguageJapanese {
		t.Errorf("Expected %s, got %s", LanguageJapanese, lang)
	}
}

func TestParseLanguageRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "english", "korean", "Chinese", "zh-CN"} {
		_, err := ParseLanguage(raw)
		if err == nil {
			t.Errorf("Expected error for %q", raw)
			continue
		}
		if !errors.Is(err, domain.ErrUnsupportedLanguage) {
			t.Errorf("Expected ErrUnsupportedLanguage for %q, got %v", raw, err)
		}
	}
}

func TestLanguageCodes(t *testing.T) {
	if code := LanguageChinese.TranslateCode(); code != "zh-CN" {
		t.Errorf("Expected zh-CN, got %s", code)
	}
	if code := LanguageJapanese.TranslateCode(); code != "ja" {
		t.Errorf("Expected ja, got %s", code)
	}
	if code := LanguageChinese.SpeechCode(); code != "cmn-Hans-CN" {
		t.Errorf("Expected cmn-Hans-CN, got %s", code)
	}
	if code := LanguageJapanese.SpeechCode(); code != "ja-JP" {
		t.Errorf("Expected ja-JP, got %s", code)
	}
}
