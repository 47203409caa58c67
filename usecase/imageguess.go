package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"time"

	_ "image/gif"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
	"github.com/csmith/lingotutor/internal/audio"
	"github.com/csmith/lingotutor/internal/audiostore"
)

const (
	randomImageURL = "https://picsum.photos/400/400"
	jpegQuality    = 85
	maxImageSize   = 10 << 20 // 10 MiB cap on fetched images
)

// ImageGuessService runs the image-guessing game pipeline: transcribe the
// spoken guess, translate it to English, detect it in the image, and return
// the annotated image.
type ImageGuessService struct {
	transcriber repositories.SpeechToText
	translator  repositories.Translator
	detector    repositories.ObjectDetector
	store       *audiostore.Store
	threshold   float64
	client      *http.Client
	logger      *zap.Logger
}

// NewImageGuessService creates a new image-guess service. threshold is the
// minimum confidence (exclusive) for a prediction to be drawn.
func NewImageGuessService(
	transcriber repositories.SpeechToText,
	translator repositories.Translator,
	detector repositories.ObjectDetector,
	store *audiostore.Store,
	threshold float64,
	fetchTimeout time.Duration,
	logger *zap.Logger,
) *ImageGuessService {
	return &ImageGuessService{
		transcriber: transcriber,
		translator:  translator,
		detector:    detector,
		store:       store,
		threshold:   threshold,
		client:      &http.Client{Timeout: fetchTimeout},
		logger:      logger,
	}
}

// GuessResult is the outcome of one image-guess round.
type GuessResult struct {
	// ImageBase64 is the annotated (or, when detection degrades, original)
	// image encoded as base64 JPEG.
	ImageBase64 string

	// Label is the English translation of the spoken guess.
	Label string
}

// Guess processes a spoken guess against the image at imageURL. Uploaded
// audio is cleaned up whether or not the round succeeds. Detection itself
// is best-effort: if the detector fails mid-round the original image is
// returned unannotated.
func (s *ImageGuessService) Guess(ctx context.Context, audioData []byte, language entities.Language, imageURL string) (*GuessResult, error) {
	inputPath, err := s.store.SaveUpload(audioData)
	if err != nil {
		return nil, fmt.Errorf("failed to persist uploaded audio: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(inputPath); removeErr != nil {
			s.logger.Warn("Failed to clean up uploaded audio",
				zap.String("path", inputPath),
				zap.Error(removeErr))
		}
	}()

	if _, err := audio.ValidateWAV(inputPath); err != nil {
		return nil, err
	}

	transcribed, err := s.transcriber.TranscribeAudio(ctx, inputPath, language)
	if err != nil {
		return nil, err
	}
	if transcribed == "" {
		return nil, fmt.Errorf("%w: the guess was silent or unintelligible", domain.ErrNoSpeech)
	}

	label, err := s.translator.TranslateToEnglish(ctx, transcribed, language)
	if err != nil {
		return nil, err
	}

	img, err := s.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	annotated := img
	predictions, err := s.detector.Detect(ctx, mustEncodeJPEG(img), []string{label})
	if err != nil {
		// Annotation is best-effort; the guess itself already succeeded.
		s.logger.Warn("Detection failed, returning original image",
			zap.String("label", label),
			zap.Error(err))
	} else {
		retained := predictions[:0]
		for _, p := range predictions {
			if p.Confidence > s.threshold {
				retained = append(retained, p)
			}
		}
		s.logger.Info("Image guess detection completed",
			zap.String("label", label),
			zap.Int("retained", len(retained)),
			zap.Int("total", len(predictions)))
		annotated = Annotate(img, retained)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, annotated, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode image: %v", domain.ErrImageFetch, err)
	}

	return &GuessResult{
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Label:       label,
	}, nil
}

// RandomImageURL fetches a random image and returns its final URL after
// redirects, for embedding in the game page.
func (s *ImageGuessService) RandomImageURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, randomImageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxImageSize))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode)
	}

	return resp.Request.URL.String(), nil
}

// fetchImage downloads and decodes the image at imageURL.
func (s *ImageGuessService) fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", domain.ErrImageFetch, resp.StatusCode, imageURL)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", domain.ErrImageFetch, err)
	}

	return img, nil
}

// mustEncodeJPEG re-encodes a decoded image for the detector. Encoding an
// in-memory image cannot fail in practice; a zero-length slice is returned
// if it somehow does.
func mustEncodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil
	}
	return buf.Bytes()
}
