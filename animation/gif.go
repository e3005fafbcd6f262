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
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"
)

// the unit of a GIF frame delay
const gifDelayUnit = 10 * time.Millisecond

func decodeGIF(r io.Reader) (*Animation, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, ErrEmpty
	}
	if len(g.Image) != len(g.Delay) && g.Delay != nil {
		return nil, fmt.Errorf("mismatched image count and delay count: %d != %d", len(g.Image), len(g.Delay))
	}
	if len(g.Image) != len(g.Disposal) && g.Disposal != nil {
		return nil, fmt.Errorf("mismatched image count and disposal count: %d != %d", len(g.Image), len(g.Disposal))
	}

	// the logical screen size should be in the config but some encoders leave
	// it empty. the union of the frame bounds is a good substitute
	canvasRect := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if canvasRect.Empty() {
		for _, frame := range g.Image {
			canvasRect = canvasRect.Union(frame.Bounds())
		}
		canvasRect.Min = image.Point{}
	}

	anim := &Animation{
		Format: "gif",
		Width:  canvasRect.Dx(),
		Height: canvasRect.Dy(),
		Frames: make([]*Frame, 0, len(g.Image)),
	}

	// image/gif loop count to number of plays
	switch {
	case g.LoopCount < 0:
		anim.Plays = 1
	case g.LoopCount == 0:
		anim.Plays = Forever
	default:
		anim.Plays = g.LoopCount + 1
	}

	canvas := image.NewNRGBA(canvasRect)

	for i, frame := range g.Image {
		b := frame.Bounds().Intersect(canvasRect)

		var disposal byte
		if g.Disposal != nil {
			disposal = g.Disposal[i]
		}

		var delay time.Duration
		if g.Delay != nil {
			delay = time.Duration(g.Delay[i]) * gifDelayUnit
		}

		// keep a copy of the area to be drawn over if the frame is to be
		// disposed by restoring the previous content
		var restore *image.NRGBA
		if disposal == gif.DisposalPrevious {
			restore = image.NewNRGBA(b)
			draw.Draw(restore, b, canvas, b.Min, draw.Src)
		}

		// paletted frames with a transparent index rely on draw.Over to leave
		// the existing canvas showing through
		draw.Draw(canvas, b, frame, b.Min, draw.Over)

		anim.Frames = append(anim.Frames, FrameFromImage(canvas, delay))

		switch disposal {
		case gif.DisposalBackground:
			// the background colour is treated as transparent. this is what
			// browsers do and what most GIF authors expect
			draw.Draw(canvas, b, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, b, restore, b.Min, draw.Src)
		}
	}

	return anim, nil
}
