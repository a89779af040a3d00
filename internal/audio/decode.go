package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// Track is a fully decoded mono PCM buffer.
type Track struct {
	Samples    []float64 // mono, [-1,1]
	SampleRate float64
	Title      string
	Path       string
}

// Duration returns the decoded length.
func (t *Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(t.Samples)) / t.SampleRate * float64(time.Second))
}

// WindowAt copies size samples starting at offset into a fresh slice,
// zero-padding past the end. Callers get an immutable snapshot.
func (t *Track) WindowAt(offset, size int) []float64 {
	out := make([]float64, size)
	if offset < 0 {
		offset = 0
	}
	for i := 0; i < size; i++ {
		idx := offset + i
		if idx >= len(t.Samples) {
			break
		}
		out[i] = t.Samples[idx]
	}
	return out
}

// DecodeLimits bounds what DecodeFile will accept. Zero values disable the
// corresponding check.
type DecodeLimits struct {
	MaxDuration time.Duration
	MaxFileSize int64
}

// DefaultLimits matches the surrounding application's upload policy.
func DefaultLimits() DecodeLimits {
	return DecodeLimits{
		MaxDuration: 10 * time.Minute,
		MaxFileSize: 50 << 20,
	}
}

// DecodeFile decodes a wav/mp3/ogg/flac file into a mono Track. Size is
// checked before any decoding happens; duration after. Unknown extensions
// return ErrUnsupportedFormat without touching the file contents.
func DecodeFile(path string, limits DecodeLimits) (*Track, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "wav", "mp3", "ogg", "flac":
	default:
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}
	if limits.MaxFileSize > 0 && info.Size() > limits.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), limits.MaxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var track *Track
	switch ext {
	case "wav":
		track, err = decodeWAV(f)
	case "mp3":
		track, err = decodeMP3(f)
	case "ogg":
		track, err = decodeOGG(f)
	case "flac":
		track, err = decodeFLAC(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, filepath.Base(path), err)
	}
	track.Path = path

	if track.Title == "" && ext == "mp3" {
		track.Title = readID3Title(path)
	}
	if track.Title == "" {
		track.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if limits.MaxDuration > 0 && track.Duration() > limits.MaxDuration {
		return nil, fmt.Errorf("%w: %s (limit %s)", ErrDurationExceeded, track.Duration().Round(time.Second), limits.MaxDuration)
	}
	return track, nil
}

func decodeWAV(f *os.File) (*Track, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := 1.0 / float64(int(1)<<(dec.BitDepth-1))
	mono := make([]float64, len(buf.Data)/channels)
	for i := range mono {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) * scale
		}
		mono[i] = clampSample(sum / float64(channels))
	}
	return &Track{Samples: mono, SampleRate: float64(buf.Format.SampleRate)}, nil
}

func decodeMP3(f *os.File) (*Track, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	// go-mp3 always emits 16-bit little-endian stereo.
	mono := make([]float64, len(raw)/4)
	for i := range mono {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		mono[i] = clampSample((float64(l) + float64(r)) / 2 / 32768)
	}
	return &Track{Samples: mono, SampleRate: float64(dec.SampleRate())}, nil
}

func decodeOGG(f *os.File) (*Track, error) {
	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, err
	}
	channels := format.Channels
	if channels < 1 {
		channels = 1
	}
	mono := make([]float64, len(data)/channels)
	for i := range mono {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(data[i*channels+ch])
		}
		mono[i] = clampSample(sum / float64(channels))
	}
	return &Track{Samples: mono, SampleRate: float64(format.SampleRate)}, nil
}

func decodeFLAC(f *os.File) (*Track, error) {
	stream, err := flac.Parse(f)
	if err != nil {
		return nil, err
	}
	info := stream.Info
	channels := int(info.NChannels)
	if channels < 1 {
		channels = 1
	}
	scale := 1.0 / float64(int64(1)<<(info.BitsPerSample-1))

	var mono []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			sum := 0.0
			for ch := 0; ch < channels && ch < len(frame.Subframes); ch++ {
				sum += float64(frame.Subframes[ch].Samples[i]) * scale
			}
			mono = append(mono, clampSample(sum/float64(channels)))
		}
	}
	return &Track{Samples: mono, SampleRate: float64(info.SampleRate)}, nil
}

func clampSample(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
