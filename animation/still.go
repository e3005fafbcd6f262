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
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
)

func decodeStill(r io.Reader) (*Animation, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return stillAnimation(format, img), nil
}

func stillAnimation(format string, img image.Image) *Animation {
	f := FrameFromImage(img, 0)
	return &Animation{
		Format: format,
		Width:  f.Width,
		Height: f.Height,
		Plays:  1,
		Frames: []*Frame{f},
	}
}
