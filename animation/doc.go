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

// Package animation decodes image files into a sequence of fully composed
// frames.
//
// Animated GIF and animated WebP files are supported, as are still PNG, JPEG,
// BMP, GIF and WebP images. A still image is an animation of one frame.
//
// Animation formats often store a frame as a small change to the previous
// frame. Those partial frames are drawn onto a canvas during decoding,
// according to the blending and disposal rules of the format, so that each
// Frame returned is complete and the size of the canvas.
//
// Frames are read with a Source:
//
//	anim, _ := animation.Open("anim.webp")
//	src := anim.Source()
//	for {
//		f, err := src.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
package animation
