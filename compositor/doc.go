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

// Package compositor places a single animation frame onto a fixed size
// presentation buffer.
//
// The placement is a "contain" fit. The frame is scaled, preserving its
// aspect ratio, to the largest rectangle that fits inside the buffer and that
// rectangle is centred. Pixels outside the rectangle (the letterbox margins)
// are never written to. It is the responsibility of the caller to have
// cleared the buffer to a background colour beforehand. The Clear() function
// is provided for that purpose.
//
// Resampling is nearest-neighbour. Every destination pixel inside the fit
// rectangle is mapped back to exactly one source pixel and all four channels
// are copied without blending.
//
// The package has no state. A buffer passed to CompositeInto() is borrowed
// for the duration of the call only and is never retained.
//
//	buf := make([]byte, width*height*4)
//	compositor.Clear(buf, color.NRGBA{A: 255})
//	err := compositor.CompositeInto(frame, buf, width, height)
package compositor
