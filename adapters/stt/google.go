package stt

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
	"github.com/csmith/lingotutor/internal/audio"
)

// GoogleSpeechToText implements SpeechToText using Google Cloud Speech.
// Credentials come from the standard GOOGLE_APPLICATION_CREDENTIALS
// environment.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud speech recognition adapter.
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// TranscribeAudio transcribes a mono 16-bit PCM WAV file. The caller has
// already validated the format; the sample rate is read from the file
// header so the recognizer config always matches the recording.
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioPath string, language entities.Language) (string, error) {
	info, err := audio.ValidateWAV(audioPath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create speech client: %v", domain.ErrTranscription, err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(info.SampleRate),
			LanguageCode:    language.SpeechCode(),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			sb.WriteString(result.Alternatives[0].Transcript)
		}
	}

	// The recognizer inserts spaces between segments; CJK text carries no
	// whitespace, so strip it all.
	text := stripWhitespace(sb.String())

	g.logger.Info("Transcription completed",
		zap.String("language", language.String()),
		zap.Int("sampleRate", info.SampleRate),
		zap.Int("chars", len([]rune(text))))

	return text, nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
