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

// Package termplay is a gui.Presenter that displays frames in a terminal.
//
// Each character cell of the terminal shows two pixels, one above the other,
// by drawing the upper half block character with the foreground colour set to
// the top pixel and the background colour set to the bottom pixel. The drawing
// surface is therefore twice as tall as the terminal has rows.
//
// The terminal must support true colour for the output to be accurate.
package termplay

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/logger"
)

// the character drawn in every cell
const upperHalfBlock = '▀'

// TermPlay implements the gui.Presenter interface.
type TermPlay struct {
	crit sync.Mutex

	screen tcell.Screen

	// size of the drawing surface in pixels. the height is always even
	width  int
	height int
	buffer []byte

	// size of the terminal in pixels as most recently reported. the buffer is
	// resized to match on the next call to Size()
	pendingWidth  int
	pendingHeight int

	events chan gui.Event

	title string

	// closed when the event goroutine has finished
	done chan struct{}
}

// NewTermPlay is the preferred method of initialisation for the TermPlay
// type. If screen is nil then a screen for the current terminal is created.
//
// The screen will be initialised by NewTermPlay() and should not be used by
// the caller except through the TermPlay instance.
func NewTermPlay(screen tcell.Screen) (*TermPlay, error) {
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("termplay: %w", err)
		}
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termplay: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.HideCursor()
	screen.Clear()

	tp := &TermPlay{
		screen: screen,
		done:   make(chan struct{}),
	}

	cols, rows := screen.Size()
	tp.width = cols
	tp.height = rows * 2
	tp.pendingWidth = tp.width
	tp.pendingHeight = tp.height
	tp.buffer = make([]byte, tp.width*tp.height*gui.PixelDepth)

	go tp.pollEvents()

	return tp, nil
}

// Destroy restores the terminal and waits for the event goroutine to end.
func (tp *TermPlay) Destroy() {
	tp.screen.Fini()
	<-tp.done
}

// Size implements the gui.Presenter interface.
func (tp *TermPlay) Size() (int, int) {
	tp.crit.Lock()
	defer tp.crit.Unlock()

	if tp.pendingWidth != tp.width || tp.pendingHeight != tp.height {
		tp.width = tp.pendingWidth
		tp.height = tp.pendingHeight
		tp.buffer = make([]byte, tp.width*tp.height*gui.PixelDepth)
	}

	return tp.width, tp.height
}

// Buffer implements the gui.Presenter interface.
func (tp *TermPlay) Buffer() []byte {
	tp.crit.Lock()
	defer tp.crit.Unlock()
	return tp.buffer
}

// Present implements the gui.Presenter interface.
func (tp *TermPlay) Present(_ time.Duration) error {
	tp.crit.Lock()
	defer tp.crit.Unlock()

	rowLen := tp.width * gui.PixelDepth
	style := tcell.StyleDefault

	for y := 0; y < tp.height; y += 2 {
		top := tp.buffer[y*rowLen:]
		bottom := tp.buffer[(y+1)*rowLen:]
		for x := 0; x < tp.width; x++ {
			i := x * gui.PixelDepth
			fg := tcell.NewRGBColor(int32(top[i]), int32(top[i+1]), int32(top[i+2]))
			bg := tcell.NewRGBColor(int32(bottom[i]), int32(bottom[i+1]), int32(bottom[i+2]))
			tp.screen.SetContent(x, y/2, upperHalfBlock, nil, style.Foreground(fg).Background(bg))
		}
	}

	tp.screen.Show()

	return nil
}

// SetEventChannel implements the gui.Presenter interface.
func (tp *TermPlay) SetEventChannel(events chan gui.Event) {
	tp.crit.Lock()
	defer tp.crit.Unlock()
	tp.events = events
}

// SetFeature implements the gui.Presenter interface.
func (tp *TermPlay) SetFeature(request gui.FeatureReq, args ...gui.FeatureReqData) error {
	switch request {
	case gui.ReqSetTitle:
		if len(args) != 1 {
			return fmt.Errorf("termplay: %v: expected one argument, got %d", request, len(args))
		}
		title, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("termplay: %v: argument should be string not %T", request, args[0])
		}
		tp.crit.Lock()
		tp.title = title
		tp.crit.Unlock()
		tp.screen.SetTitle(title)
		return nil
	}

	return fmt.Errorf("termplay: %w: %v", gui.ErrUnsupportedFeature, request)
}

// Title returns the most recent title set with the ReqSetTitle feature.
func (tp *TermPlay) Title() string {
	tp.crit.Lock()
	defer tp.crit.Unlock()
	return tp.title
}

func (tp *TermPlay) send(ev gui.Event) {
	tp.crit.Lock()
	events := tp.events
	tp.crit.Unlock()

	if events == nil {
		return
	}

	select {
	case events <- ev:
	default:
		logger.Logf(logger.Allow, "termplay", "dropped %T event", ev)
	}
}

// pollEvents runs until the screen is finalised.
func (tp *TermPlay) pollEvents() {
	defer close(tp.done)

	for {
		ev := tp.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			cols, rows := ev.Size()

			tp.crit.Lock()
			changed := cols != tp.pendingWidth || rows*2 != tp.pendingHeight
			tp.pendingWidth = cols
			tp.pendingHeight = rows * 2
			tp.crit.Unlock()

			if changed {
				tp.screen.Clear()
				tp.send(gui.EventResize{Width: cols, Height: rows * 2})
			}

		case *tcell.EventKey:
			if out := translateKey(ev); out != nil {
				tp.send(out)
			}
		}
	}
}

// translateKey converts a tcell key event to a gui event. key names are the
// same as those used by the SDL presenter. terminals do not report key
// releases so every keyboard event is a key press.
func translateKey(ev *tcell.EventKey) gui.Event {
	var mod gui.KeyMod
	switch {
	case ev.Modifiers()&tcell.ModAlt != 0:
		mod = gui.KeyModAlt
	case ev.Modifiers()&tcell.ModShift != 0:
		mod = gui.KeyModShift
	case ev.Modifiers()&tcell.ModCtrl != 0:
		mod = gui.KeyModCtrl
	}

	var key string

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return gui.EventQuit{}
	case tcell.KeyEscape:
		key = "Escape"
	case tcell.KeyRight:
		key = "Right"
	case tcell.KeyLeft:
		key = "Left"
	case tcell.KeyUp:
		key = "Up"
	case tcell.KeyDown:
		key = "Down"
	case tcell.KeyEnter:
		key = "Return"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			key = "Space"
		} else {
			key = strings.ToUpper(string(ev.Rune()))
		}
	default:
		return nil
	}

	return gui.EventKeyboard{Key: key, Down: true, Mod: mod}
}
