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
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
)

// Frame is a single, fully composed, image in an animation. Pix holds the
// pixel data in row-major order, four bytes per pixel (red, green, blue,
// alpha) with no padding between rows. The alpha channel is not
// premultiplied.
//
// Frames should be treated as immutable once they have been returned by a
// Source.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8

	// how long the frame is meant to be displayed for. this is information
	// only and the compositor ignores it
	Delay time.Duration
}

// NewFrame is the preferred method of initialisation for the Frame type. All
// pixels will be transparent black.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FrameFromImage copies the image into a new Frame. The frame will be the
// same size as the image's bounds and the top-left of the bounds will be the
// top-left of the frame.
func FrameFromImage(img image.Image, delay time.Duration) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	f.Delay = delay

	// fast path for images that are already in the correct format
	if n, ok := img.(*image.NRGBA); ok && n.Stride == b.Dx()*4 {
		copy(f.Pix, n.Pix[n.PixOffset(b.Min.X, b.Min.Y):])
		return f
	}

	dst := f.NRGBA()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return f
}

func (f *Frame) String() string {
	return fmt.Sprintf("%dx%d (%s)", f.Width, f.Height, f.Delay)
}

// NRGBA returns an image.NRGBA that shares its pixel data with the frame.
func (f *Frame) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// At returns the colour of the pixel at x, y. Coordinates outside the frame
// return transparent black.
func (f *Frame) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.NRGBA{}
	}
	i := (y*f.Width + x) * 4
	return color.NRGBA{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2], A: f.Pix[i+3]}
}
