package repositories

import (
	"context"

	"github.com/csmith/lingotutor/domain/entities"
)

// SpeechToText abstracts speech recognition services. Callers are
// responsible for handing over audio that satisfies the transcriber's
// format contract (mono 16-bit PCM WAV at a supported sample rate).
type SpeechToText interface {
	// TranscribeAudio converts a recorded WAV file to text in the target
	// language.
	TranscribeAudio(ctx context.Context, audioPath string, language entities.Language) (string, error)
}

// TextToSpeech abstracts speech synthesis services.
type TextToSpeech interface {
	// SynthesizeAudio renders text in the target language as encoded audio
	// bytes (MP3).
	SynthesizeAudio(ctx context.Context, text string, language entities.Language) ([]byte, error)
}
