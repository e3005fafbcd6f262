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

package compositor

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/jetsetilly/letterbox/animation"
)

// PixelDepth is the number of bytes used by each pixel in a destination
// buffer. The bytes are in the order red, green, blue, alpha.
const PixelDepth = 4

// Sentinel errors returned by CompositeInto(). Both indicate a broken
// precondition on the part of the caller.
var (
	ErrDimensions = errors.New("invalid dimensions")
	ErrBufferSize = errors.New("destination buffer too small")
)

// CompositeInto fills the destination buffer dst, which is dw pixels wide and
// dh pixels high, with the frame scaled to fit. Pixels outside the fit
// rectangle are left untouched.
//
// The destination buffer is row-major with PixelDepth bytes per pixel and no
// padding between rows. The frame is not modified.
//
// An error is returned only if the arguments are malformed: a nil frame, zero
// dimensions, or a buffer too small for the stated surface size. An empty fit
// rectangle is not an error, nothing is written in that case.
func CompositeInto(frame *animation.Frame, dst []byte, dw, dh int) error {
	if frame == nil {
		return fmt.Errorf("compositor: %w: nil frame", ErrDimensions)
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return fmt.Errorf("compositor: %w: frame is %dx%d", ErrDimensions, frame.Width, frame.Height)
	}
	if len(frame.Pix) < frame.Width*frame.Height*PixelDepth {
		return fmt.Errorf("compositor: %w: frame data does not match %dx%d", ErrDimensions, frame.Width, frame.Height)
	}
	if dw <= 0 || dh <= 0 {
		return fmt.Errorf("compositor: %w: surface is %dx%d", ErrDimensions, dw, dh)
	}
	if len(dst) < dw*dh*PixelDepth {
		return fmt.Errorf("compositor: %w: %d bytes for %dx%d surface", ErrBufferSize, len(dst), dw, dh)
	}

	fit := Fit(frame.Width, frame.Height, dw, dh)
	if fit.Empty() {
		return nil
	}

	resample(frame, dst, dw, dh, fit)

	return nil
}

// resample is the inner loop of CompositeInto(). arguments have been
// validated by the time this function is called.
//
// the margin test and the scaling both use the same fit rectangle so there can
// be no seam between the two
func resample(frame *animation.Frame, dst []byte, dw, dh int, fit FitRect) {
	iw := frame.Width
	ih := frame.Height
	src := frame.Pix

	scaleX := float64(iw) / float64(fit.Width)
	scaleY := float64(ih) / float64(fit.Height)

	for y := 0; y < dh; y++ {
		if y < fit.Y || y >= fit.Y+fit.Height {
			continue
		}

		// the source row is the same for every pixel in the destination row.
		// the coordinate is never negative so truncation is the same as floor
		sy := int(float64(y-fit.Y) * scaleY)
		if sy > ih-1 {
			sy = ih - 1
		}
		srow := sy * iw * PixelDepth
		drow := y * dw * PixelDepth

		for x := 0; x < dw; x++ {
			if x < fit.X || x >= fit.X+fit.Width {
				continue
			}

			sx := int(float64(x-fit.X) * scaleX)
			if sx > iw-1 {
				sx = iw - 1
			}

			s := srow + sx*PixelDepth
			d := drow + x*PixelDepth

			// small cap improves performance, see https://golang.org/issue/27857
			copy(dst[d:d+PixelDepth:d+PixelDepth], src[s:s+PixelDepth])
		}
	}
}

// Clear sets every pixel in the buffer to the specified colour. Any trailing
// bytes that do not make up a complete pixel are left alone.
func Clear(dst []byte, col color.NRGBA) {
	if len(dst) < PixelDepth {
		return
	}

	dst[0] = col.R
	dst[1] = col.G
	dst[2] = col.B
	dst[3] = col.A

	// doubling copy of the first pixel. quicker than setting each pixel in turn
	n := len(dst) - len(dst)%PixelDepth
	for filled := PixelDepth; filled < n; filled *= 2 {
		copy(dst[filled:n], dst[:filled])
	}
}
