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

// Package gui defines the interface between the playback driver and the
// different ways a frame can be presented to the user.
//
// A Presenter owns a destination buffer the size of its drawing surface. The
// playback driver composites a frame into the buffer and then calls Present()
// to make the buffer visible. The buffer belongs to the Presenter but must
// only be written to by the playback driver, and only between calls to
// Present().
//
// User input is sent by the Presenter to the channel registered with
// SetEventChannel(). Presenters must never block on sending an event for
// longer than it takes the playback driver to service the channel.
package gui

import (
	"errors"
	"time"
)

// PixelDepth is the number of bytes for each pixel in a presenter's buffer.
// The bytes are in the order red, green, blue, alpha.
const PixelDepth = 4

// Presenter is implemented by anything that can display the contents of a
// destination buffer.
type Presenter interface {
	// Size of the drawing surface in pixels. The size can change between
	// calls to Present(), in which case an EventResize will have been sent.
	Size() (width int, height int)

	// Buffer returns the destination buffer. It is at least
	// width*height*PixelDepth bytes long, with no padding between rows.
	Buffer() []byte

	// Present makes the contents of the buffer visible. The delay argument is
	// how long the frame that was composited into the buffer is meant to be
	// shown for. Most presenters ignore it.
	//
	// A delay of Redraw means the buffer holds the previously presented frame
	// drawn again, for example after a resize. Presenters that record frames
	// should not record it.
	Present(delay time.Duration) error

	// SetEventChannel registers the channel that user input is sent to.
	SetEventChannel(events chan Event)

	// SetFeature sends a request to set a presenter feature.
	SetFeature(request FeatureReq, args ...FeatureReqData) error
}

// Redraw is the delay value given to Present() when the previous frame has
// been drawn again rather than a new frame being presented.
const Redraw time.Duration = -1

// ErrUnsupportedFeature is returned by SetFeature() if the presenter does
// not support the requested feature.
var ErrUnsupportedFeature = errors.New("unsupported gui feature")
