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

package gifwriter_test

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/letterbox/gifwriter"
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/gui/headless"
	"github.com/jetsetilly/letterbox/test"
)

func fill(buf []byte, c color.NRGBA) {
	for i := 0; i < len(buf); i += 4 {
		buf[i] = c.R
		buf[i+1] = c.G
		buf[i+2] = c.B
		buf[i+3] = c.A
	}
}

func TestNew(t *testing.T) {
	hd, err := headless.NewHeadless(4, 4, false)
	test.DemandSuccess(t, err)

	_, err = gifwriter.New(nil, "out.gif")
	test.ExpectFailure(t, err)
	_, err = gifwriter.New(hd, "")
	test.ExpectFailure(t, err)

	gw, err := gifwriter.New(hd, "out.gif")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, gw.Filename(), "out.gif")
}

func TestNoFrames(t *testing.T) {
	hd, err := headless.NewHeadless(4, 4, false)
	test.DemandSuccess(t, err)
	gw, err := gifwriter.New(hd, filepath.Join(t.TempDir(), "out.gif"))
	test.DemandSuccess(t, err)

	var b bytes.Buffer
	err = gw.Write(&b)
	test.ExpectSuccess(t, errors.Is(err, gifwriter.ErrNoFrames))
}

func TestRecording(t *testing.T) {
	hd, err := headless.NewHeadless(6, 4, false)
	test.DemandSuccess(t, err)

	fn := filepath.Join(t.TempDir(), "out.gif")
	gw, err := gifwriter.New(hd, fn)
	test.DemandSuccess(t, err)
	gw.SetFallbackDelay(40 * time.Millisecond)
	gw.SetLoopCount(2)

	red := color.NRGBA{R: 0xff, A: 0xff}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	fill(gw.Buffer(), red)
	test.DemandSuccess(t, gw.Present(70*time.Millisecond))
	fill(gw.Buffer(), white)
	test.DemandSuccess(t, gw.Present(0))

	// redraws are passed on but not recorded
	test.DemandSuccess(t, gw.Present(gui.Redraw))
	test.ExpectEquality(t, gw.Frames(), 2)

	// calls are passed on to the decorated presenter
	n, elapsed := hd.Presented()
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, elapsed, 110*time.Millisecond)

	test.DemandSuccess(t, gw.End())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	g, err := gif.DecodeAll(f)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, len(g.Image), 2)
	test.ExpectEquality(t, g.Config.Width, 6)
	test.ExpectEquality(t, g.Config.Height, 4)
	test.ExpectEquality(t, g.LoopCount, 2)
	test.ExpectEquality(t, g.Delay[0], 7)
	test.ExpectEquality(t, g.Delay[1], 4)

	// red and white are both in the Plan9 palette so there is no dithering
	test.ExpectEquality(t, color.NRGBAModel.Convert(g.Image[0].At(3, 2)).(color.NRGBA), red)
	test.ExpectEquality(t, color.NRGBAModel.Convert(g.Image[1].At(0, 0)).(color.NRGBA), white)
}

func TestResizedRecording(t *testing.T) {
	hd, err := headless.NewHeadless(4, 4, false)
	test.DemandSuccess(t, err)
	gw, err := gifwriter.New(hd, filepath.Join(t.TempDir(), "out.gif"))
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, gw.Present(0))
	test.DemandSuccess(t, hd.Resize(8, 2))
	test.DemandSuccess(t, gw.Present(0))

	var b bytes.Buffer
	test.DemandSuccess(t, gw.Write(&b))

	g, err := gif.DecodeAll(&b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, g.Config.Width, 8)
	test.ExpectEquality(t, g.Config.Height, 4)
	test.ExpectEquality(t, g.Image[1].Bounds().Dx(), 8)
	test.ExpectEquality(t, g.Image[1].Bounds().Dy(), 2)
}
