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

package sdlplay

import (
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// how long Service() waits for an SDL event when there is nothing else to do.
// in milliseconds
const serviceTimeout = 2

// Service implements the GuiCreator interface. It should be called
// repeatedly by the main loop.
//
// MUST ONLY be called from the #mainthread
func (scr *SdlPlay) Service() {
	busy := false

	// run any outstanding service functions
	for done := false; !done; {
		select {
		case f := <-scr.service:
			scr.serviceErr <- f()
			busy = true
		default:
			done = true
		}
	}

	// wait briefly for an event only if there was nothing else to do.
	// otherwise just poll
	var ev sdl.Event
	if busy {
		ev = sdl.PollEvent()
	} else {
		ev = sdl.WaitEventTimeout(serviceTimeout)
	}

	for ; ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			scr.send(gui.EventQuit{})

		case *sdl.WindowEvent:
			scr.serviceWindowEvent(ev)

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}
			scr.send(gui.EventKeyboard{
				Key:  sdl.GetKeyName(ev.Keysym.Sym),
				Down: ev.Type == sdl.KEYDOWN,
				Mod:  keyMod(),
			})
		}
	}
}

func (scr *SdlPlay) serviceWindowEvent(ev *sdl.WindowEvent) {
	switch ev.Event {
	case sdl.WINDOWEVENT_EXPOSED:
		if scr.texture != nil {
			if err := scr.refresh(); err != nil {
				logger.Log(logger.Allow, "sdlplay", err)
			}
		}

	case sdl.WINDOWEVENT_SIZE_CHANGED:
		w, h, err := scr.renderer.GetOutputSize()
		if err != nil {
			logger.Log(logger.Allow, "sdlplay", err)
			return
		}
		if w <= 0 || h <= 0 {
			return
		}

		scr.crit.Lock()
		changed := int(w) != scr.pendingWidth || int(h) != scr.pendingHeight
		scr.pendingWidth = int(w)
		scr.pendingHeight = int(h)
		scr.crit.Unlock()

		if changed {
			scr.send(gui.EventResize{Width: int(w), Height: int(h)})
		}
	}
}

func keyMod() gui.KeyMod {
	mod := sdl.GetModState()
	switch {
	case mod&sdl.KMOD_ALT != 0:
		return gui.KeyModAlt
	case mod&sdl.KMOD_SHIFT != 0:
		return gui.KeyModShift
	case mod&sdl.KMOD_CTRL != 0:
		return gui.KeyModCtrl
	}
	return gui.KeyModNone
}
