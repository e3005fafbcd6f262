// This file is part of Letterbox.
//
// Letterbox is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Letterbox is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Letterbox.  If not, see <https://www.gnu.org/licenses/>.

// Package sdlplay is a gui.Presenter that displays frames in an SDL window.
//
// SDL requires that most of its functions are called from the main thread.
// The NewSdlPlay(), Service() and Destroy() functions must therefore be
// called from the main thread. All other functions can be called from any
// goroutine, with the work being passed to the main thread through the
// service channel and performed during the next call to Service().
package sdlplay

import (
	"fmt"
	"sync"
	"time"

	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// SdlPlay implements the gui.Presenter interface.
type SdlPlay struct {
	// critical section protects the buffer and the pending size
	crit sync.Mutex

	// the buffer is the size of the window's drawing area
	width  int
	height int
	buffer []byte

	// the size of the drawing area as most recently reported by SDL. the
	// buffer is resized to match on the next call to Size()
	pendingWidth  int
	pendingHeight int

	events chan gui.Event

	// functions to be run on the main thread
	service    chan func() error
	serviceErr chan error

	// sdl stuff. only accessed from the main thread
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int
	texH     int
}

// NewSdlPlay is the preferred method of initialisation for SdlPlay.
//
// MUST ONLY be called from the #mainthread
func NewSdlPlay(title string, width, height int) (*SdlPlay, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sdlplay: invalid window size %dx%d", width, height)
	}

	scr := &SdlPlay{
		service:    make(chan func() error),
		serviceErr: make(chan error),
	}

	var err error

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("sdlplay: %w", err)
	}

	scr.window, err = sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(width), int32(height),
		uint32(sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI))
	if err != nil {
		return nil, fmt.Errorf("sdlplay: %w", err)
	}

	scr.renderer, err = sdl.CreateRenderer(scr.window, -1, uint32(sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC))
	if err != nil {
		return nil, fmt.Errorf("sdlplay: %w", err)
	}

	// the drawing area can be larger than the window size on high DPI
	// displays. the buffer is the size of the drawing area so that one pixel
	// in the buffer is one pixel on the screen
	w, h, err := scr.renderer.GetOutputSize()
	if err != nil {
		return nil, fmt.Errorf("sdlplay: %w", err)
	}
	scr.width = int(w)
	scr.height = int(h)
	scr.pendingWidth = scr.width
	scr.pendingHeight = scr.height
	scr.buffer = make([]byte, scr.width*scr.height*gui.PixelDepth)

	err = scr.createTexture(scr.width, scr.height)
	if err != nil {
		return nil, fmt.Errorf("sdlplay: %w", err)
	}

	logger.Logf(logger.Allow, "sdlplay", "drawing area is %dx%d", scr.width, scr.height)

	return scr, nil
}

// Destroy implements the GuiCreator interface.
//
// MUST ONLY be called from the #mainthread
func (scr *SdlPlay) Destroy() {
	if scr.texture != nil {
		_ = scr.texture.Destroy()
	}
	if scr.renderer != nil {
		_ = scr.renderer.Destroy()
	}
	if scr.window != nil {
		_ = scr.window.Destroy()
	}
	sdl.Quit()
}

// the texture is applied to the renderer to show the image. the buffer is
// copied to it on every call to Present()
//
// MUST ONLY be called from the #mainthread
func (scr *SdlPlay) createTexture(width, height int) error {
	if scr.texture != nil {
		_ = scr.texture.Destroy()
		scr.texture = nil
	}

	// ABGR8888 is a packed format. on a little-endian machine the bytes are
	// in the order red, green, blue, alpha, which is the order of bytes in
	// the buffer
	var err error
	scr.texture, err = scr.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(width), int32(height))
	if err != nil {
		return err
	}

	// the alpha channel of the buffer is copied to the texture but it must not
	// be used to blend with whatever was previously rendered
	err = scr.texture.SetBlendMode(sdl.BLENDMODE_NONE)
	if err != nil {
		return err
	}

	scr.texW = width
	scr.texH = height

	return nil
}

// Size implements the gui.Presenter interface.
func (scr *SdlPlay) Size() (int, int) {
	scr.crit.Lock()
	defer scr.crit.Unlock()

	if scr.pendingWidth != scr.width || scr.pendingHeight != scr.height {
		scr.width = scr.pendingWidth
		scr.height = scr.pendingHeight
		scr.buffer = make([]byte, scr.width*scr.height*gui.PixelDepth)
	}

	return scr.width, scr.height
}

// Buffer implements the gui.Presenter interface.
func (scr *SdlPlay) Buffer() []byte {
	scr.crit.Lock()
	defer scr.crit.Unlock()
	return scr.buffer
}

// Present implements the gui.Presenter interface.
func (scr *SdlPlay) Present(_ time.Duration) error {
	scr.crit.Lock()
	buf := scr.buffer
	w := scr.width
	h := scr.height
	scr.crit.Unlock()

	return scr.serviceSync(func() error {
		return scr.render(buf, w, h)
	})
}

// render copies the buffer to the texture and presents it
//
// MUST ONLY be called from the #mainthread
func (scr *SdlPlay) render(buf []byte, w, h int) error {
	if w != scr.texW || h != scr.texH {
		if err := scr.createTexture(w, h); err != nil {
			return fmt.Errorf("sdlplay: %w", err)
		}
	}

	pixels, pitch, err := scr.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("sdlplay: %w", err)
	}

	// the texture pitch may be larger than the width of a row in the buffer
	rowLen := w * gui.PixelDepth
	for y := 0; y < h; y++ {
		copy(pixels[y*pitch:y*pitch+rowLen], buf[y*rowLen:(y+1)*rowLen])
	}
	scr.texture.Unlock()

	return scr.refresh()
}

// refresh presents the texture without updating it. used when the window has
// been exposed
//
// MUST ONLY be called from the #mainthread
func (scr *SdlPlay) refresh() error {
	err := scr.renderer.Copy(scr.texture, nil, nil)
	if err != nil {
		return fmt.Errorf("sdlplay: %w", err)
	}
	scr.renderer.Present()
	return nil
}

// SetEventChannel implements the gui.Presenter interface.
func (scr *SdlPlay) SetEventChannel(events chan gui.Event) {
	scr.crit.Lock()
	defer scr.crit.Unlock()
	scr.events = events
}

// send an event without blocking. the main thread must never block on the
// playback goroutine because the playback goroutine may be waiting for the
// main thread in Present()
func (scr *SdlPlay) send(ev gui.Event) {
	scr.crit.Lock()
	events := scr.events
	scr.crit.Unlock()

	if events == nil {
		return
	}

	select {
	case events <- ev:
	default:
		logger.Logf(logger.Allow, "sdlplay", "dropped %T event", ev)
	}
}
