package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/csmith/lingotutor/domain"
)

// buildWAV assembles a minimal WAV file with the given format parameters
// and one second of silence.
func buildWAV(format uint16, channels uint16, sampleRate uint32, bitDepth uint16) []byte {
	blockAlign := channels * bitDepth / 8
	dataLen := sampleRate * uint32(blockAlign)
	data := make([]byte, dataLen)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, format)
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*uint32(blockAlign))
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bitDepth)
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(data)
	return buf.Bytes()
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write temp WAV: %v", err)
	}
	return path
}

func TestValidateWAVAcceptsSupportedRates(t *testing.T) {
	for _, rate := range SupportedSampleRates {
		path := writeTemp(t, buildWAV(1, 1, uint32(rate), 16))
		info, err := ValidateWAV(path)
		if err != nil {
			t.Errorf("Expected %d Hz mono PCM to validate, got %v", rate, err)
			continue
		}
		if info.SampleRate != rate {
			t.Errorf("Expected sample rate %d, got %d", rate, info.SampleRate)
		}
	}
}

func TestValidateWAVRejectsStereo(t *testing.T) {
	path := writeTemp(t, buildWAV(1, 2, 44100, 16))
	_, err := ValidateWAV(path)
	if !errors.Is(err, domain.ErrInvalidAudioFormat) {
		t.Errorf("Expected ErrInvalidAudioFormat for stereo, got %v", err)
	}
}

func TestValidateWAVRejectsNonPCM(t *testing.T) {
	// Format code 3 is IEEE float.
	path := writeTemp(t, buildWAV(3, 1, 44100, 16))
	_, err := ValidateWAV(path)
	if !errors.Is(err, domain.ErrInvalidAudioFormat) {
		t.Errorf("Expected ErrInvalidAudioFormat for non-PCM, got %v", err)
	}
}

func TestValidateWAVRejects8Bit(t *testing.T) {
	path := writeTemp(t, buildWAV(1, 1, 44100, 8))
	_, err := ValidateWAV(path)
	if !errors.Is(err, domain.ErrInvalidAudioFormat) {
		t.Errorf("Expected ErrInvalidAudioFormat for 8-bit, got %v", err)
	}
}

func TestValidateWAVRejectsUnsupportedRate(t *testing.T) {
	path := writeTemp(t, buildWAV(1, 1, 22050, 16))
	_, err := ValidateWAV(path)
	if !errors.Is(err, domain.ErrInvalidAudioFormat) {
		t.Errorf("Expected ErrInvalidAudioFormat for 22050 Hz, got %v", err)
	}
}

func TestValidateWAVRejectsGarbage(t *testing.T) {
	path := writeTemp(t, []byte("not a wav file at all"))
	_, err := ValidateWAV(path)
	if !errors.Is(err, domain.ErrInvalidAudioFormat) {
		t.Errorf("Expected ErrInvalidAudioFormat for garbage, got %v", err)
	}
}

func TestValidateWAVSkipsLeadingChunks(t *testing.T) {
	// Some encoders place a JUNK chunk before fmt.
	wav := buildWAV(1, 1, 16000, 16)
	var buf bytes.Buffer
	buf.Write(wav[:12])
	buf.WriteString("JUNK")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write(wav[12:])

	path := writeTemp(t, buf.Bytes())
	info, err := ValidateWAV(path)
	if err != nil {
		t.Fatalf("Expected JUNK chunk to be skipped, got %v", err)
	}
	if info.SampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", info.SampleRate)
	}
}
