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

// Package prefs facilitates the storage of preferential values in the
// Letterbox system. It is intended to be used for values that a user might
// want to change between sessions, such as the window size or the
// background colour.
//
// Values are represented by the Bool, String, Int and Float types. Each type
// can have a pre-hook and a post-hook, which are called just before and just
// after the value is changed. A pre-hook that returns an error prevents the
// value from being changed.
//
// Values are associated with a key and a Disk with the Add() function. The
// Save() and Load() functions of the Disk then write and read every value that
// has been added. Keys in the file that have not been added to the Disk are
// ignored by Load() and preserved by Save(), so more than one Disk can share
// a file.
//
// The command line stack allows preferences to be set for a single session.
// Values in the top group of the stack are applied after the values on disk
// have been loaded:
//
//	prefs.PushCommandLineStack("playback.loop::true; playback.fpscap::30")
//	defer prefs.PopCommandLineStack()
package prefs
