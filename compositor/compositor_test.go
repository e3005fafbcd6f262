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

package compositor_test

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/compositor"
	"github.com/jetsetilly/letterbox/test"
)

// sentinel value used to fill destination buffers so that we can tell if a
// pixel has been touched
const sentinel = 0xab

// coordinateFrame creates a frame where every pixel encodes its own
// coordinates. the low byte of x is in the red channel, the high byte of x is
// in the green channel and y is in the blue channel
func coordinateFrame(w, h int) *animation.Frame {
	f := animation.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * compositor.PixelDepth
			f.Pix[i] = uint8(x)
			f.Pix[i+1] = uint8(x >> 8)
			f.Pix[i+2] = uint8(y)
			f.Pix[i+3] = 0xff
		}
	}
	return f
}

func sentinelBuffer(dw, dh int) []byte {
	return bytes.Repeat([]byte{sentinel}, dw*dh*compositor.PixelDepth)
}

// source coordinates decoded from a destination pixel written by a
// coordinateFrame
func sourceOf(dst []byte, dw, x, y int) (int, int) {
	i := (y*dw + x) * compositor.PixelDepth
	return int(dst[i]) | int(dst[i+1])<<8, int(dst[i+2])
}

func untouched(dst []byte, dw, x, y int) bool {
	i := (y*dw + x) * compositor.PixelDepth
	return bytes.Equal(dst[i:i+compositor.PixelDepth], []byte{sentinel, sentinel, sentinel, sentinel})
}

func TestCompositeWideIntoSquare(t *testing.T) {
	const dw = 100
	const dh = 100

	f := coordinateFrame(400, 200)
	dst := sentinelBuffer(dw, dh)

	err := compositor.CompositeInto(f, dst, dw, dh)
	test.DemandSuccess(t, err)

	// the centre of the destination samples the centre of the source
	sx, sy := sourceOf(dst, dw, 50, 50)
	test.ExpectEquality(t, sx, 200)
	test.ExpectEquality(t, sy, 100)

	// corners of the fit rectangle
	sx, sy = sourceOf(dst, dw, 0, 25)
	test.ExpectEquality(t, sx, 0)
	test.ExpectEquality(t, sy, 0)
	sx, sy = sourceOf(dst, dw, 99, 74)
	test.ExpectEquality(t, sx, 396)
	test.ExpectEquality(t, sy, 196)

	// margins above and below the fit rectangle are untouched
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			margin := y < 25 || y >= 75
			if !test.ExpectEquality(t, untouched(dst, dw, x, y), margin, x, y) {
				return
			}
		}
	}
}

func TestCompositeSquareIntoWide(t *testing.T) {
	const dw = 200
	const dh = 50

	f := coordinateFrame(100, 100)
	dst := sentinelBuffer(dw, dh)

	err := compositor.CompositeInto(f, dst, dw, dh)
	test.DemandSuccess(t, err)

	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			margin := x < 75 || x >= 125
			if !test.ExpectEquality(t, untouched(dst, dw, x, y), margin, x, y) {
				return
			}
			if !margin {
				sx, sy := sourceOf(dst, dw, x, y)
				test.ExpectEquality(t, sx, (x-75)*2, x, y)
				test.ExpectEquality(t, sy, y*2, x, y)
			}
		}
	}
}

func TestCompositeUpscale(t *testing.T) {
	// each source pixel becomes a 2x2 block in the destination
	f := coordinateFrame(2, 2)
	dst := sentinelBuffer(4, 4)

	err := compositor.CompositeInto(f, dst, 4, 4)
	test.DemandSuccess(t, err)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			sx, sy := sourceOf(dst, 4, x, y)
			test.ExpectEquality(t, sx, x/2, x, y)
			test.ExpectEquality(t, sy, y/2, x, y)
		}
	}
}

func TestCompositeSameAspect(t *testing.T) {
	// no offsets and no margin
	f := coordinateFrame(8, 8)
	dst := sentinelBuffer(5, 5)

	err := compositor.CompositeInto(f, dst, 5, 5)
	test.DemandSuccess(t, err)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			test.ExpectFailure(t, untouched(dst, 5, x, y), x, y)
		}
	}
}

func TestCompositeSinglePixel(t *testing.T) {
	f := animation.NewFrame(1, 1)
	copy(f.Pix, []byte{10, 20, 30, 40})

	const dw = 6
	const dh = 3
	dst := sentinelBuffer(dw, dh)

	err := compositor.CompositeInto(f, dst, dw, dh)
	test.DemandSuccess(t, err)

	// fit rectangle is 3x3 at (1,0)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			i := (y*dw + x) * compositor.PixelDepth
			if x >= 1 && x < 4 {
				test.ExpectSuccess(t, bytes.Equal(dst[i:i+4], []byte{10, 20, 30, 40}), x, y)
			} else {
				test.ExpectSuccess(t, untouched(dst, dw, x, y), x, y)
			}
		}
	}
}

func TestCompositeAlphaCopied(t *testing.T) {
	// pixels are copied exactly, including alpha. there is no blending with
	// the existing contents of the destination
	f := animation.NewFrame(1, 1)
	copy(f.Pix, []byte{255, 0, 0, 0})
	dst := sentinelBuffer(1, 1)

	err := compositor.CompositeInto(f, dst, 1, 1)
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, dst, []byte{255, 0, 0, 0})
}

func TestCompositeIdempotent(t *testing.T) {
	f := coordinateFrame(37, 23)

	a := sentinelBuffer(50, 41)
	b := sentinelBuffer(50, 41)
	test.DemandSuccess(t, compositor.CompositeInto(f, a, 50, 41))
	test.DemandSuccess(t, compositor.CompositeInto(f, b, 50, 41))
	test.DemandSuccess(t, compositor.CompositeInto(f, b, 50, 41))
	test.ExpectSuccess(t, bytes.Equal(a, b))
}

func TestCompositeFrameUnchanged(t *testing.T) {
	f := coordinateFrame(17, 9)
	before := bytes.Clone(f.Pix)
	dst := sentinelBuffer(30, 30)
	test.DemandSuccess(t, compositor.CompositeInto(f, dst, 30, 30))
	test.ExpectSuccess(t, bytes.Equal(before, f.Pix))
}

func TestCompositeLargerBuffer(t *testing.T) {
	// bytes beyond the stated surface size are never touched
	f := coordinateFrame(4, 4)
	dst := sentinelBuffer(4, 5)
	test.DemandSuccess(t, compositor.CompositeInto(f, dst, 4, 4))
	for x := 0; x < 4; x++ {
		test.ExpectSuccess(t, untouched(dst, 4, x, 4), x)
	}
}

func TestCompositeEmptyFit(t *testing.T) {
	f := coordinateFrame(1000, 1)
	dst := sentinelBuffer(1, 1)
	err := compositor.CompositeInto(f, dst, 1, 1)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, untouched(dst, 1, 0, 0))
}

func TestCompositeErrors(t *testing.T) {
	dst := sentinelBuffer(10, 10)

	err := compositor.CompositeInto(nil, dst, 10, 10)
	test.ExpectSuccess(t, errors.Is(err, compositor.ErrDimensions))

	err = compositor.CompositeInto(&animation.Frame{}, dst, 10, 10)
	test.ExpectSuccess(t, errors.Is(err, compositor.ErrDimensions))

	// pixel data shorter than the dimensions suggest
	err = compositor.CompositeInto(&animation.Frame{Width: 2, Height: 2, Pix: make([]byte, 4)}, dst, 10, 10)
	test.ExpectSuccess(t, errors.Is(err, compositor.ErrDimensions))

	f := coordinateFrame(2, 2)

	err = compositor.CompositeInto(f, dst, 0, 10)
	test.ExpectSuccess(t, errors.Is(err, compositor.ErrDimensions))

	err = compositor.CompositeInto(f, dst, 11, 10)
	test.ExpectSuccess(t, errors.Is(err, compositor.ErrBufferSize))

	// nothing was written by any of the failed calls
	test.ExpectSuccess(t, bytes.Equal(dst, sentinelBuffer(10, 10)))
}

func TestClear(t *testing.T) {
	col := color.NRGBA{R: 1, G: 2, B: 3, A: 4}

	for _, n := range []int{0, 3, 4, 5, 12, 13, 4 * 33} {
		dst := bytes.Repeat([]byte{sentinel}, n)
		compositor.Clear(dst, col)

		pixels := n / compositor.PixelDepth
		for p := 0; p < pixels; p++ {
			i := p * compositor.PixelDepth
			test.ExpectSuccess(t, bytes.Equal(dst[i:i+4], []byte{1, 2, 3, 4}), n, p)
		}

		// incomplete trailing pixel is untouched
		for i := pixels * compositor.PixelDepth; i < n; i++ {
			test.ExpectEquality(t, dst[i], byte(sentinel), n, i)
		}
	}
}

func BenchmarkComposite(b *testing.B) {
	f := coordinateFrame(480, 270)
	dst := make([]byte, 1920*1080*compositor.PixelDepth)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = compositor.CompositeInto(f, dst, 1920, 1080)
	}
}
