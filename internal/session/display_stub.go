//go:build !sdl

package session

import "github.com/soundvista/soundvista/internal/pixel"

// Headless builds present into the void; export and the web API are the
// observable outputs.
type nullDisplay struct{}

func newDisplay(width, height int, title string) (Display, error) {
	return nullDisplay{}, nil
}

func (nullDisplay) Present(*pixel.Buffer) error { return nil }
func (nullDisplay) Close() error                { return nil }
