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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It adds program modes, with different flags for each mode.
//
// Whereas with flag.FlagSet the arguments are passed to Parse(), with
// modalflag the arguments are first given to NewArgs() and then Parse() is
// called with no arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("PLAY", "TERM", "INFO")
//	r, err := md.Parse()
//
// The first sub-mode is the default mode and is selected if the first
// argument after the flags is not one of the listed sub-modes. Sub-modes are
// case insensitive. After a mode has been selected the flags for that mode are
// added and the next layer is parsed:
//
//	md.NewMode()
//	width := md.AddInt("width", 800, "width of window")
//	r, err = md.Parse()
//
// If the top layer is given flags that it does not recognise (which will be
// the case if the user has not named a mode but has given flags for the
// default mode) then the default mode is selected and the arguments are
// parsed again by the next layer.
//
// Mode() returns the most recently selected mode and Path() returns all
// selected modes separated by a slash. Non-flag arguments remaining after the
// last layer are available with RemainingArgs() and GetArg().
//
// Help is printed to Output when the -help (or -h) flag is given, in which
// case Parse() returns ParseHelp.
package modalflag
