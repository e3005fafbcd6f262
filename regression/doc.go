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

// Package regression keeps a database of animations and the screen digests
// they produce. Running the regression database plays each animation again and
// compares the new digest with the stored one. A difference means that
// something in the decoding, compositing or playback of animations has
// changed.
//
// Digests are produced by playing the animation through a headless presenter
// wrapped by the screendigest package. Playback runs without an FPS cap and
// without honouring frame delays so that regression tests complete quickly.
// Timing is not part of the digest.
//
// The database is stored in a single file with the database package. Each
// entry records the animation filename and the playback settings used to
// produce the digest.
package regression
