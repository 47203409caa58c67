// Package audiostore owns the on-disk cache of synthesized speech. Files
// live flat in one directory as <id>.mp3 (or <id>.wav for uploaded input);
// existence on disk is the only source of truth.
package audiostore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

// Store mediates all reads and writes of audio artifacts.
type Store struct {
	dir    string
	tts    repositories.TextToSpeech
	logger *zap.Logger
}

// NewStore creates the audio directory if needed and returns a store backed
// by it.
func NewStore(dir string, tts repositories.TextToSpeech, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory %s: %w", dir, err)
	}
	return &Store{dir: dir, tts: tts, logger: logger}, nil
}

// ValidateID reports whether id is safe to use as a file name. An id is
// valid only if it is non-empty, contains no path separators or parent
// segments, and consists solely of alphanumerics plus '_' and '-'. UUID
// strings always satisfy this. Serving endpoints must reject invalid ids
// before touching the filesystem.
func ValidateID(id string) bool {
	if id == "" {
		return false
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// ResolvePath returns the path a synthesized file for id would occupy.
// Deterministic, no side effects.
func (s *Store) ResolvePath(id string) string {
	return filepath.Join(s.dir, id+".mp3")
}

// GetOrCreate returns the audio file for cacheKey, synthesizing it only if
// it does not already exist. Repeated calls with the same key never
// re-invoke the synthesizer. Synthesis failures propagate so callers can
// tell "failed" apart from "already cached".
func (s *Store) GetOrCreate(ctx context.Context, cacheKey, text string, language entities.Language) (string, error) {
	if !ValidateID(cacheKey) {
		return "", fmt.Errorf("%w: cache key %q", domain.ErrInvalidIdentifier, cacheKey)
	}

	path := s.ResolvePath(cacheKey)
	if _, err := os.Stat(path); err == nil {
		s.logger.Debug("Audio cache hit", zap.String("cacheKey", cacheKey))
		return path, nil
	}

	if err := s.synthesizeTo(ctx, path, text, language); err != nil {
		return "", err
	}

	s.logger.Info("Cached synthesized audio",
		zap.String("cacheKey", cacheKey),
		zap.String("language", language.String()))
	return path, nil
}

// CreateUnique synthesizes text under a freshly generated id. Conversational
// replies always get a unique file so concurrent users can never collide,
// even on identical text.
func (s *Store) CreateUnique(ctx context.Context, text string, language entities.Language) (string, string, error) {
	id := uuid.New().String()
	path := s.ResolvePath(id)

	if err := s.synthesizeTo(ctx, path, text, language); err != nil {
		return "", "", err
	}

	return id, path, nil
}

// SaveUpload persists uploaded input audio as <uuid>.wav for the
// transcriber. The caller is responsible for removing the file once it has
// been consumed.
func (s *Store) SaveUpload(data []byte) (string, error) {
	path := filepath.Join(s.dir, uuid.New().String()+".wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save uploaded audio: %w", err)
	}
	return path, nil
}

// PurgeAll deletes every regular file directly inside the audio directory.
// Per-file failures are logged and do not abort the remaining deletions.
func (s *Store) PurgeAll() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read audio directory %s: %w", s.dir, err)
	}

	removed := 0
	for _, entry := range dirEntries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove audio file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	s.logger.Info("Purged audio directory", zap.Int("removed", removed))
	return nil
}

// synthesizeTo renders text and writes the result via a temporary file plus
// atomic rename, so a concurrent reader of the same path never observes a
// partially written file.
func (s *Store) synthesizeTo(ctx context.Context, path, text string, language entities.Language) error {
	data, err := s.tts.SynthesizeAudio(ctx, text, language)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".synth-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	return nil
}
