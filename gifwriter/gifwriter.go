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

// Package gifwriter allows the presented output of playback to be recorded to
// disk as an animated GIF. Note that every presented frame is buffered in
// memory and only written to disk when End() is called. It is therefore only
// suitable for short recordings.
package gifwriter

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/logger"
	"golang.org/x/image/draw"
)

// ErrNoFrames is returned by End() if nothing has been presented.
var ErrNoFrames = errors.New("gifwriter: no frames recorded")

// the delay used for a frame if Present() is called with a delay of zero and
// no fallback delay has been set
const defaultDelay = 100 * time.Millisecond

// GIFWriter is an implementation of gui.Presenter that decorates another
// presenter. Each call to Present() takes a copy of the buffer before passing
// the call on.
type GIFWriter struct {
	gui.Presenter

	filename string

	crit     sync.Mutex
	anim     gif.GIF
	fallback time.Duration
}

// New is the preferred method of initialisation for the GIFWriter type. The
// recording is written to filename when End() is called.
func New(pres gui.Presenter, filename string) (*GIFWriter, error) {
	if pres == nil {
		return nil, errors.New("gifwriter: presenter is nil")
	}
	if filename == "" {
		return nil, errors.New("gifwriter: no filename")
	}
	return &GIFWriter{
		Presenter: pres,
		filename:  filename,
		fallback:  defaultDelay,
	}, nil
}

// Filename returns the name of the file the recording will be written to.
func (gw *GIFWriter) Filename() string {
	return gw.filename
}

// SetFallbackDelay sets the delay recorded for frames that are presented with
// a delay of zero. Values of zero or less are ignored.
func (gw *GIFWriter) SetFallbackDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	gw.crit.Lock()
	defer gw.crit.Unlock()
	gw.fallback = d
}

// SetLoopCount sets the loop count of the recording. The value has the same
// meaning as the LoopCount field of the gif.GIF type: zero loops forever and
// -1 plays once.
func (gw *GIFWriter) SetLoopCount(n int) {
	gw.crit.Lock()
	defer gw.crit.Unlock()
	gw.anim.LoopCount = n
}

// Frames returns the number of frames recorded so far.
func (gw *GIFWriter) Frames() int {
	gw.crit.Lock()
	defer gw.crit.Unlock()
	return len(gw.anim.Image)
}

// Present implements the gui.Presenter interface. Redraws are not recorded.
func (gw *GIFWriter) Present(delay time.Duration) error {
	if delay == gui.Redraw {
		return gw.Presenter.Present(delay)
	}

	w, h := gw.Presenter.Size()
	buf := gw.Presenter.Buffer()

	if len(buf) < w*h*gui.PixelDepth {
		return fmt.Errorf("gifwriter: buffer too small for %dx%d surface", w, h)
	}

	src := &image.NRGBA{
		Pix:    buf[:w*h*gui.PixelDepth],
		Stride: w * gui.PixelDepth,
		Rect:   image.Rect(0, 0, w, h),
	}

	// the buffer is quantised now because it will have changed by the time
	// End() is called
	img := image.NewPaletted(src.Rect, palette.Plan9)
	draw.FloydSteinberg.Draw(img, img.Rect, src, image.Point{})

	gw.crit.Lock()
	if delay <= 0 {
		delay = gw.fallback
	}
	gw.anim.Image = append(gw.anim.Image, img)
	gw.anim.Delay = append(gw.anim.Delay, centiseconds(delay))
	gw.anim.Disposal = append(gw.anim.Disposal, gif.DisposalNone)

	// the logical screen is large enough for the largest frame. frames are
	// always placed in the top-left corner
	gw.anim.Config.Width = max(gw.anim.Config.Width, w)
	gw.anim.Config.Height = max(gw.anim.Config.Height, h)
	gw.crit.Unlock()

	return gw.Presenter.Present(delay)
}

// centiseconds converts a duration to the units used by the GIF format. the
// result is never less than one
func centiseconds(d time.Duration) int {
	return max(1, int((d+5*time.Millisecond)/(10*time.Millisecond)))
}

// Write the recording to io.Writer.
func (gw *GIFWriter) Write(w io.Writer) error {
	gw.crit.Lock()
	defer gw.crit.Unlock()

	if len(gw.anim.Image) == 0 {
		return ErrNoFrames
	}

	if err := gif.EncodeAll(w, &gw.anim); err != nil {
		return fmt.Errorf("gifwriter: %w", err)
	}

	return nil
}

// End writes the recording to the file named when the GIFWriter was created.
func (gw *GIFWriter) End() (rerr error) {
	f, err := os.Create(gw.filename)
	if err != nil {
		return fmt.Errorf("gifwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("gifwriter: %w", err)
		}
	}()

	logger.Logf(logger.Allow, "gifwriter", "writing %d frames to %s", gw.Frames(), gw.filename)

	return gw.Write(f)
}
