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

package gui

// Event represents all the events that can be sent over the event channel.
type Event any

// EventQuit is sent when the user has asked for the presenter to close, by
// closing the window for example.
type EventQuit struct{}

// KeyMod identifies the modifier keys held down during a keyboard event.
type KeyMod int

// List of valid key modifiers.
const (
	KeyModNone KeyMod = iota
	KeyModShift
	KeyModCtrl
	KeyModAlt
)

// EventKeyboard is sent when a key is pressed or released. Key names follow
// the SDL naming scheme: "Escape", "Space", "Right", "Q", etc.
type EventKeyboard struct {
	Key  string
	Down bool
	Mod  KeyMod
}

// EventResize is sent when the drawing surface changes size. The contents of
// the buffer are undefined after a resize.
type EventResize struct {
	Width  int
	Height int
}
