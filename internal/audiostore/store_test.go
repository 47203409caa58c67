package audiostore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
)

// countingTTS records how many times synthesis was invoked.
type countingTTS struct {
	calls int
	fail  bool
}

func (c *countingTTS) SynthesizeAudio(ctx context.Context, text string, language entities.Language) ([]byte, error) {
	c.calls++
	if c.fail {
		return nil, errors.New("synthesis backend down")
	}
	return []byte("mp3:" + text), nil
}

func newTestStore(t *testing.T, tts *countingTTS) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), tts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestValidateID(t *testing.T) {
	valid := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"chinese_image",
		"abc-DEF_123",
	}
	for _, id := range valid {
		if !ValidateID(id) {
			t.Errorf("Expected %q to be valid", id)
		}
	}

	invalid := []string{
		"",
		"..",
		"../etc/passwd",
		"a/b",
		`a\b`,
		"id with spaces",
		"id.mp3",
		"id;rm",
	}
	for _, id := range invalid {
		if ValidateID(id) {
			t.Errorf("Expected %q to be rejected", id)
		}
	}
}

func TestGetOrCreateSynthesizesAtMostOnce(t *testing.T) {
	tts := &countingTTS{}
	store := newTestStore(t, tts)
	ctx := context.Background()

	first, err := store.GetOrCreate(ctx, "chinese_image", "你看到了什么", entities.LanguageChinese)
	if err != nil {
		t.Fatalf("First GetOrCreate failed: %v", err)
	}

	second, err := store.GetOrCreate(ctx, "chinese_image", "你看到了什么", entities.LanguageChinese)
	if err != nil {
		t.Fatalf("Second GetOrCreate failed: %v", err)
	}

	if first != second {
		t.Errorf("Expected identical path, got %q and %q", first, second)
	}
	if tts.calls != 1 {
		t.Errorf("Expected exactly 1 synthesis call, got %d", tts.calls)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("Failed to read cached audio: %v", err)
	}
	if string(data) != "mp3:你看到了什么" {
		t.Errorf("Unexpected cached audio content: %q", data)
	}
}

func TestGetOrCreatePropagatesSynthesisFailure(t *testing.T) {
	tts := &countingTTS{fail: true}
	store := newTestStore(t, tts)

	_, err := store.GetOrCreate(context.Background(), "greeting", "hello", entities.LanguageJapanese)
	if !errors.Is(err, domain.ErrSynthesis) {
		t.Errorf("Expected ErrSynthesis, got %v", err)
	}

	// Nothing should be left behind at the target path.
	if _, statErr := os.Stat(store.ResolvePath("greeting")); !os.IsNotExist(statErr) {
		t.Error("Expected no file after failed synthesis")
	}
}

func TestGetOrCreateRejectsInvalidCacheKey(t *testing.T) {
	store := newTestStore(t, &countingTTS{})

	_, err := store.GetOrCreate(context.Background(), "../escape", "text", entities.LanguageChinese)
	if !errors.Is(err, domain.ErrInvalidIdentifier) {
		t.Errorf("Expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestCreateUniqueGeneratesDistinctIDs(t *testing.T) {
	tts := &countingTTS{}
	store := newTestStore(t, tts)
	ctx := context.Background()

	id1, path1, err := store.CreateUnique(ctx, "同じ返事", entities.LanguageJapanese)
	if err != nil {
		t.Fatalf("CreateUnique failed: %v", err)
	}
	id2, path2, err := store.CreateUnique(ctx, "同じ返事", entities.LanguageJapanese)
	if err != nil {
		t.Fatalf("CreateUnique failed: %v", err)
	}

	if id1 == id2 {
		t.Error("Expected distinct ids for identical text")
	}
	if path1 == path2 {
		t.Error("Expected distinct paths for identical text")
	}
	if !ValidateID(id1) || !ValidateID(id2) {
		t.Error("Generated ids must pass validation")
	}
	if tts.calls != 2 {
		t.Errorf("Expected 2 synthesis calls, got %d", tts.calls)
	}
}

func TestSaveUploadAndPurgeAll(t *testing.T) {
	store := newTestStore(t, &countingTTS{})

	path, err := store.SaveUpload([]byte("RIFF fake wav"))
	if err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}
	if filepath.Ext(path) != ".wav" {
		t.Errorf("Expected .wav upload, got %s", path)
	}

	if _, _, err := store.CreateUnique(context.Background(), "reply", entities.LanguageChinese); err != nil {
		t.Fatalf("CreateUnique failed: %v", err)
	}

	if err := store.PurgeAll(); err != nil {
		t.Fatalf("PurgeAll failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Failed to read audio dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty audio dir after purge, found %d entries", len(entries))
	}
}
