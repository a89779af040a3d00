//go:build sdl

package session

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/soundvista/soundvista/internal/pixel"
)

// sdlDisplay streams frames into an SDL texture. Built only with the sdl
// tag so headless builds need no SDL toolchain.
type sdlDisplay struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int
}

func newDisplay(width, height int, title string) (Display, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderTarget, err)
	}
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("%w: create window: %v", ErrRenderTarget, err)
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("%w: create renderer: %v", ErrRenderTarget, err)
	}
	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("%w: create texture: %v", ErrRenderTarget, err)
	}
	return &sdlDisplay{
		window:   window,
		renderer: renderer,
		texture:  texture,
		width:    width,
		height:   height,
	}, nil
}

func (d *sdlDisplay) Present(buf *pixel.Buffer) error {
	if buf.W != d.width || buf.H != d.height {
		return fmt.Errorf("%w: buffer %dx%d does not match window %dx%d",
			ErrRenderTarget, buf.W, buf.H, d.width, d.height)
	}
	if err := d.texture.Update(nil, buf.Pix, d.width*4); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderTarget, err)
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderTarget, err)
	}
	d.renderer.Present()
	return nil
}

func (d *sdlDisplay) Close() error {
	if d.texture != nil {
		d.texture.Destroy()
	}
	if d.renderer != nil {
		d.renderer.Destroy()
	}
	if d.window != nil {
		d.window.Destroy()
	}
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}
