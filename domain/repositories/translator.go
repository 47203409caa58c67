package repositories

import (
	"context"

	"github.com/csmith/lingotutor/domain/entities"
)

// Translator abstracts text translation between English and a target
// language. Implementations return domain.ErrUnsupportedLanguage wrapped in
// the error chain when the service rejects the language pair.
type Translator interface {
	// TranslateToEnglish translates target-language text to English.
	TranslateToEnglish(ctx context.Context, text string, language entities.Language) (string, error)

	// TranslateFromEnglish translates English text into the target language.
	TranslateFromEnglish(ctx context.Context, text string, language entities.Language) (string, error)
}
