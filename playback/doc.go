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

// Package playback drives the presentation of an animation. Each display
// cycle takes the next frame from the animation, composites it into the
// presenter's buffer and presents it.
//
// The Player is single-writer with respect to the presenter's buffer. User
// input and reloaded animations are received over channels and handled
// between display cycles, never during a composite.
//
// Without a looping preference the animation is played once, after which the
// last frame remains on screen until the user quits. With looping enabled the
// animation repeats as many times as the animation file requests, which may
// be indefinitely.
package playback
