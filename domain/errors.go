package domain

import "errors"

// Pipeline and boundary errors. Handlers map these to HTTP status codes with
// errors.Is; pipeline stages wrap them with fmt.Errorf("...: %w", ...).
var (
	// ErrUnsupportedLanguage is returned when a request names a language
	// outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidAudioFormat is returned when uploaded audio is not mono
	// 16-bit PCM WAV at a supported sample rate.
	ErrInvalidAudioFormat = errors.New("invalid audio format")

	// ErrInvalidIdentifier is returned when an audio id fails validation.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrTranscription is returned when speech recognition itself fails.
	ErrTranscription = errors.New("transcription failed")

	// ErrNoSpeech is returned when a recording contains no recognizable
	// speech in a context that requires one. Unlike ErrTranscription this is
	// the client's audio, not a service failure.
	ErrNoSpeech = errors.New("no speech recognized")

	// ErrTranslation is returned when the translation service fails or
	// rejects the language pair.
	ErrTranslation = errors.New("translation failed")

	// ErrGeneration is returned when the dialogue engine fails to produce
	// a reply.
	ErrGeneration = errors.New("response generation failed")

	// ErrSynthesis is returned when text-to-speech fails.
	ErrSynthesis = errors.New("speech synthesis failed")

	// ErrImageFetch is returned when an image URL cannot be fetched or
	// decoded.
	ErrImageFetch = errors.New("image fetch failed")

	// ErrDetectionUnavailable is returned when the object detection
	// service is not configured.
	ErrDetectionUnavailable = errors.New("object detection service unavailable")
)
