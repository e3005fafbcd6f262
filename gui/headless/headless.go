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

// Package headless is a gui.Presenter that never displays anything. It is
// used when playback is only required for its side effects, such as a digest
// of the presented frames, and for testing.
package headless

import (
	"fmt"
	"sync"
	"time"

	"github.com/jetsetilly/letterbox/gui"
)

// Headless implements the gui.Presenter interface.
type Headless struct {
	crit sync.Mutex

	width  int
	height int
	buffer []byte

	events chan gui.Event

	// number of calls to Present()
	presented int

	// total of the delay values passed to Present()
	elapsed time.Duration

	// copy of the buffer at the most recent call to Present()
	keepLast bool
	last     []byte

	title string
}

// NewHeadless is the preferred method of initialisation for the Headless
// type. The keepLast argument controls whether a copy of the buffer is taken
// on every call to Present(). See LastPresented().
func NewHeadless(width, height int, keepLast bool) (*Headless, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("headless: invalid surface size %dx%d", width, height)
	}
	return &Headless{
		width:    width,
		height:   height,
		buffer:   make([]byte, width*height*gui.PixelDepth),
		keepLast: keepLast,
	}, nil
}

// Size implements the gui.Presenter interface.
func (hd *Headless) Size() (int, int) {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	return hd.width, hd.height
}

// Buffer implements the gui.Presenter interface.
func (hd *Headless) Buffer() []byte {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	return hd.buffer
}

// Present implements the gui.Presenter interface.
func (hd *Headless) Present(delay time.Duration) error {
	hd.crit.Lock()
	defer hd.crit.Unlock()

	hd.presented++
	if delay > 0 {
		hd.elapsed += delay
	}
	if hd.keepLast {
		hd.last = append(hd.last[:0], hd.buffer...)
	}

	return nil
}

// SetEventChannel implements the gui.Presenter interface.
func (hd *Headless) SetEventChannel(events chan gui.Event) {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	hd.events = events
}

// SetFeature implements the gui.Presenter interface.
func (hd *Headless) SetFeature(request gui.FeatureReq, args ...gui.FeatureReqData) error {
	hd.crit.Lock()
	defer hd.crit.Unlock()

	switch request {
	case gui.ReqSetTitle:
		if len(args) != 1 {
			return fmt.Errorf("headless: %s: wrong number of arguments", request)
		}
		title, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("headless: %s: argument is not a string", request)
		}
		hd.title = title
	case gui.ReqSetVisibility:
		// nothing to show or hide
	default:
		return fmt.Errorf("headless: %w: %v", gui.ErrUnsupportedFeature, request)
	}

	return nil
}

// Resize the drawing surface. An EventResize is sent if an event channel has
// been registered. The content of the buffer is lost.
func (hd *Headless) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless: invalid surface size %dx%d", width, height)
	}

	hd.crit.Lock()
	hd.width = width
	hd.height = height
	hd.buffer = make([]byte, width*height*gui.PixelDepth)
	hd.crit.Unlock()

	hd.Send(gui.EventResize{Width: width, Height: height})

	return nil
}

// Send an event to the registered event channel. Does nothing if no channel
// has been registered. Useful for simulating user input.
func (hd *Headless) Send(ev gui.Event) {
	hd.crit.Lock()
	events := hd.events
	hd.crit.Unlock()

	if events != nil {
		events <- ev
	}
}

// Presented returns the number of calls to Present() and the sum of the delay
// values. Redraws are counted but have no delay.
func (hd *Headless) Presented() (int, time.Duration) {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	return hd.presented, hd.elapsed
}

// LastPresented returns a copy of the buffer as it was at the most recent
// call to Present(). Returns nil if there have been no calls or if the
// Headless instance was not created with keepLast set.
func (hd *Headless) LastPresented() []byte {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	if hd.last == nil {
		return nil
	}
	return append([]byte(nil), hd.last...)
}

// Title returns the most recent value of the ReqSetTitle request.
func (hd *Headless) Title() string {
	hd.crit.Lock()
	defer hd.crit.Unlock()
	return hd.title
}
