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

// Package paths contains functions to prepare paths to Letterbox resources,
// such as the preferences file and recordings.
//
// The ResourcePath() function prepends the supplied path with the appropriate
// resource directory. For example, the following returns the path to the
// preferences file:
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// For development builds the resource directory is ".letterbox" in the current
// directory. For release builds (built with the "release" tag) the directory
// is "letterbox" in the user's config directory, as returned by
// os.UserConfigDir(). On a modern Linux system this will be:
//
//	/home/user/.config/letterbox/preferences
//
// In both cases the directory (and any sub-directory) is created if it does
// not exist.
package paths
