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
	"fmt"
	"image"
	"math"
)

// FitRect describes where, inside a destination buffer, a scaled frame is
// placed. Width and Height are the scaled dimensions of the frame and X and Y
// are the offsets of the top-left corner.
type FitRect struct {
	Width  int
	Height int
	X      int
	Y      int
}

func (r FitRect) String() string {
	return fmt.Sprintf("%dx%d at (%d,%d)", r.Width, r.Height, r.X, r.Y)
}

// Empty returns true if the fit rectangle covers no pixels. This happens with
// extreme aspect ratios on very small destinations.
func (r FitRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the destination pixel is inside the rectangle.
// Pixels for which Contains() returns false are in the letterbox margin.
func (r FitRect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Rectangle returns the fit rectangle as an image.Rectangle.
func (r FitRect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Fit returns the largest rectangle with the aspect ratio of an image of size
// iw by ih that fits inside a destination of size dw by dh. The rectangle is
// centred in the destination. When the leftover space is odd, the extra pixel
// is on the right or bottom edge.
//
// All dimensions must be positive. The zero FitRect is returned if any of them
// are not.
func Fit(iw, ih, dw, dh int) FitRect {
	if iw <= 0 || ih <= 0 || dw <= 0 || dh <= 0 {
		return FitRect{}
	}

	imageAspect := float64(iw) / float64(ih)
	frameAspect := float64(dw) / float64(dh)

	var r FitRect

	// equal aspect ratios use the height bound branch. the result is the same
	// in either branch when the ratios are exactly equal
	if imageAspect > frameAspect {
		r.Width = dw
		r.Height = int(math.Round(float64(dw) / imageAspect))
	} else {
		r.Height = dh
		r.Width = int(math.Round(float64(dh) * imageAspect))
	}

	// rounding must never push the rectangle outside the destination
	r.Width = min(r.Width, dw)
	r.Height = min(r.Height, dh)

	r.X = (dw - r.Width) / 2
	r.Y = (dh - r.Height) / 2

	return r
}
