// Package audio validates uploaded recordings against the transcriber's
// input contract before they are handed to speech recognition.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/csmith/lingotutor/domain"
)

const pcmFormatCode = 1

// SupportedSampleRates are the sample rates the transcriber accepts.
var SupportedSampleRates = []int{8000, 16000, 32000, 44100, 48000}

// Info describes the format of a validated WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ValidateWAV checks that the file at path is a mono 16-bit PCM WAV at one
// of the supported sample rates and returns its format. Any other layout is
// rejected with domain.ErrInvalidAudioFormat.
func ValidateWAV(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", domain.ErrInvalidAudioFormat, err)
	}
	defer f.Close()

	return validateWAV(f)
}

func validateWAV(r io.Reader) (Info, error) {
	var riff struct {
		ChunkID   [4]byte
		ChunkSize uint32
		Format    [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return Info{}, fmt.Errorf("%w: truncated header", domain.ErrInvalidAudioFormat)
	}
	if string(riff.ChunkID[:]) != "RIFF" || string(riff.Format[:]) != "WAVE" {
		return Info{}, fmt.Errorf("%w: not a RIFF/WAVE file", domain.ErrInvalidAudioFormat)
	}

	// Walk chunks until "fmt ". Browsers and recorders may emit LIST or
	// JUNK chunks before it.
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			return Info{}, fmt.Errorf("%w: missing fmt chunk", domain.ErrInvalidAudioFormat)
		}

		if string(chunk.ID[:]) != "fmt " {
			// Chunks are word-aligned; skip the padding byte on odd sizes.
			skip := int64(chunk.Size)
			if chunk.Size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return Info{}, fmt.Errorf("%w: missing fmt chunk", domain.ErrInvalidAudioFormat)
			}
			continue
		}

		var format struct {
			AudioFormat   uint16
			NumChannels   uint16
			SampleRate    uint32
			ByteRate      uint32
			BlockAlign    uint16
			BitsPerSample uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &format); err != nil {
			return Info{}, fmt.Errorf("%w: truncated fmt chunk", domain.ErrInvalidAudioFormat)
		}

		info := Info{
			SampleRate: int(format.SampleRate),
			Channels:   int(format.NumChannels),
			BitDepth:   int(format.BitsPerSample),
		}

		if format.AudioFormat != pcmFormatCode {
			return info, fmt.Errorf("%w: audio must be PCM encoded", domain.ErrInvalidAudioFormat)
		}
		if format.NumChannels != 1 {
			return info, fmt.Errorf("%w: audio must be mono, got %d channels", domain.ErrInvalidAudioFormat, format.NumChannels)
		}
		if format.BitsPerSample != 16 {
			return info, fmt.Errorf("%w: audio must be 16-bit, got %d-bit", domain.ErrInvalidAudioFormat, format.BitsPerSample)
		}
		if !supportedRate(info.SampleRate) {
			return info, fmt.Errorf("%w: unsupported sample rate %d Hz", domain.ErrInvalidAudioFormat, info.SampleRate)
		}

		return info, nil
	}
}

func supportedRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}
