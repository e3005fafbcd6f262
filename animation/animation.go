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

package animation

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Sentinel errors returned by the decoding functions.
var (
	ErrUnknownFormat = errors.New("unknown image format")
	ErrEmpty         = errors.New("no frames or zero sized image")
)

// Source implementations yield frames one at a time. When there are no more
// frames the Next() function returns io.EOF.
//
// A Source cannot be restarted. A new Source must be requested instead, for
// example with Animation.Source().
type Source interface {
	Next() (*Frame, error)
}

// Sequence is the Source implementation for a list of frames that have
// already been decoded.
type Sequence struct {
	frames []*Frame
	next   int
}

// NewSequence is the preferred method of initialisation for the Sequence
// type.
func NewSequence(frames ...*Frame) *Sequence {
	return &Sequence{frames: frames}
}

// Next implements the Source interface.
func (seq *Sequence) Next() (*Frame, error) {
	if seq.next >= len(seq.frames) {
		return nil, io.EOF
	}
	f := seq.frames[seq.next]
	seq.next++
	return f, nil
}

// Remaining returns the number of frames that are yet to be returned by
// Next().
func (seq *Sequence) Remaining() int {
	return len(seq.frames) - seq.next
}

// Forever is the value of Animation.Plays that indicates that the animation
// should repeat indefinitely.
const Forever = 0

// Animation is the result of decoding an image file.
type Animation struct {
	// the format of the file the animation was decoded from. "gif", "webp",
	// "png", etc.
	Format string

	// the size of the animation canvas. every frame is this size
	Width  int
	Height int

	// number of times the animation should be played. a value of Forever
	// means that the animation repeats indefinitely
	Plays int

	Frames []*Frame
}

func (anim *Animation) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %dx%d, %d frame", anim.Format, anim.Width, anim.Height, len(anim.Frames)))
	if len(anim.Frames) != 1 {
		s.WriteString("s")
	}
	if len(anim.Frames) > 1 {
		if anim.Plays == Forever {
			s.WriteString(", loops forever")
		} else {
			s.WriteString(fmt.Sprintf(", plays %d times", anim.Plays))
		}
	}
	return s.String()
}

// Source returns a new Source for the frames in the animation. Each call
// returns an independent Source starting at the first frame.
func (anim *Animation) Source() *Sequence {
	return NewSequence(anim.Frames...)
}

// Duration returns the sum of the frame delays. This is the time one play of
// the animation takes if the delays are honoured.
func (anim *Animation) Duration() time.Duration {
	var d time.Duration
	for _, f := range anim.Frames {
		d += f.Delay
	}
	return d
}

// IsAnimated returns true if there is more than one frame.
func (anim *Animation) IsAnimated() bool {
	return len(anim.Frames) > 1
}

// validate checks that the decoded animation can be safely played. the
// compositor requires positive dimensions for every frame
func (anim *Animation) validate() error {
	if len(anim.Frames) == 0 || anim.Width <= 0 || anim.Height <= 0 {
		return ErrEmpty
	}
	for i, f := range anim.Frames {
		if f.Width <= 0 || f.Height <= 0 {
			return fmt.Errorf("%w: frame %d is %dx%d", ErrEmpty, i, f.Width, f.Height)
		}
	}
	return nil
}
