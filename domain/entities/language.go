package entities

import (
	"fmt"

	"github.com/csmith/lingotutor/domain"
)

// Language is the user-facing non-English language of a session.
type Language string

const (
	LanguageChinese  Language = "chinese"
	LanguageJapanese Language = "japanese"
)

// languageCodes maps each supported language to the codes the external
// services expect.
var languageCodes = map[Language]struct {
	translate string
	speech    string
	tts       string
}{
	LanguageChinese:  {translate: "zh-CN", speech: "cmn-Hans-CN", tts: "zh"},
	LanguageJapanese: {translate: "ja", speech: "ja-JP", tts: "ja"},
}

// ParseLanguage validates a raw language value at the boundary. Anything
// outside the supported set is rejected before it can reach a pipeline.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(raw)
	if _, ok := languageCodes[lang]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, raw)
	}
	return lang, nil
}

// TranslateCode returns the language code used by the translation service.
func (l Language) TranslateCode() string {
	return languageCodes[l].translate
}

// SpeechCode returns the language code used by speech recognition.
func (l Language) SpeechCode() string {
	return languageCodes[l].speech
}

// TTSCode returns the language code used by speech synthesis.
func (l Language) TTSCode() string {
	return languageCodes[l].tts
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// SupportedLanguages returns the closed set of supported languages.
func SupportedLanguages() []Language {
	return []Language{LanguageChinese, LanguageJapanese}
}
