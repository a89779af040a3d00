package audio

import "errors"

// Error kinds surfaced to callers. Input validation errors are returned
// before any processing begins; decode errors after the container was
// opened. None of these are retried internally.
var (
	// ErrUnsupportedFormat means the file extension/container is not one of
	// the decodable formats (wav, mp3, ogg, flac).
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDurationExceeded means the decoded audio is longer than the
	// configured maximum.
	ErrDurationExceeded = errors.New("audio duration exceeds limit")

	// ErrFileTooLarge means the file was rejected on size before decoding.
	ErrFileTooLarge = errors.New("audio file exceeds size limit")

	// ErrDecodeFailure means the container was recognized but its contents
	// could not be decoded.
	ErrDecodeFailure = errors.New("audio decode failure")

	// ErrMicrophoneAccess means the capture device could not be opened.
	// Callers may prompt for permission and retry.
	ErrMicrophoneAccess = errors.New("microphone access denied")
)
