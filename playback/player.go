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

package playback

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/compositor"
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/logger"
	"github.com/jetsetilly/letterbox/performance/limiter"
)

// frames with a delay shorter than this are shown for defaultDelay instead.
// this is what web browsers do with very short GIF delays
const (
	minDelay     = 20 * time.Millisecond
	defaultDelay = 100 * time.Millisecond
)

// size of the event queue. presenters block if the queue is full
const eventQueueLen = 64

// Stats are simple statistics about the playback so far.
type Stats struct {
	// number of frames that have been presented
	Presented int

	// number of complete plays of the animation
	Plays int
}

func (st Stats) String() string {
	return fmt.Sprintf("%d frames presented, %d plays completed", st.Presented, st.Plays)
}

// Player presents the frames of an animation in sequence.
type Player struct {
	pres  gui.Presenter
	prefs *Preferences

	anim *animation.Animation
	src  animation.Source

	// the most recently presented frame
	current *animation.Frame

	events chan gui.Event
	reload chan *animation.Animation

	// size of the frame and surface for the most recent composite. if either
	// changes the buffer must be cleared or the margins may contain the
	// remains of a previous frame
	frameW, frameH int
	surfW, surfH   int
	clear          bool

	paused     bool
	step       bool
	fullScreen bool
	ended      bool
	quit       bool

	// ExitOnEnd causes Run() to return once the animation has ended, rather
	// than waiting for the user to quit.
	ExitOnEnd bool

	// MaxFrames causes the playback to end after the number of frames have
	// been presented. Zero means there is no maximum.
	MaxFrames int

	// Repeat causes the animation to restart when it reaches the end,
	// regardless of the loop preference and the play count of the animation.
	Repeat bool

	stats Stats
}

// NewPlayer is the preferred method of initialisation for the Player type.
// The presenter's event channel is set by this function.
func NewPlayer(pres gui.Presenter, anim *animation.Animation, prefs *Preferences) (*Player, error) {
	if pres == nil {
		return nil, fmt.Errorf("playback: no presenter")
	}
	if anim == nil || len(anim.Frames) == 0 {
		return nil, fmt.Errorf("playback: %w", animation.ErrEmpty)
	}
	if prefs == nil {
		return nil, fmt.Errorf("playback: no preferences")
	}

	pl := &Player{
		pres:   pres,
		prefs:  prefs,
		anim:   anim,
		src:    anim.Source(),
		events: make(chan gui.Event, eventQueueLen),
		reload: make(chan *animation.Animation, 1),
		clear:  true,
	}

	pres.SetEventChannel(pl.events)

	return pl, nil
}

// Stats returns statistics about the playback so far.
func (pl *Player) Stats() Stats {
	return pl.stats
}

// Ended returns true if the animation has finished and will not restart.
func (pl *Player) Ended() bool {
	return pl.ended
}

// Reload replaces the animation being played. The new animation starts
// playing from its first frame at the start of the next display cycle.
//
// Safe to call from any goroutine. If Reload() is called more than once
// before the next display cycle then only the most recent animation is used.
func (pl *Player) Reload(anim *animation.Animation) {
	if anim == nil || len(anim.Frames) == 0 {
		return
	}
	for {
		select {
		case pl.reload <- anim:
			return
		default:
			// replace the pending animation
			select {
			case <-pl.reload:
			default:
			}
		}
	}
}

// Quit causes Run() to return at the start of the next display cycle. Safe
// to call from any goroutine.
func (pl *Player) Quit() {
	select {
	case pl.events <- gui.EventQuit{}:
	default:
	}
}

// again returns true if the animation should be restarted after it has
// reached the end of the sequence
func (pl *Player) again() bool {
	if pl.Repeat {
		return true
	}
	if !pl.prefs.Loop.Get().(bool) {
		return false
	}
	return pl.anim.Plays == animation.Forever || pl.stats.Plays < pl.anim.Plays
}

// Step performs one display cycle. It returns false if there was no frame to
// present because the animation has ended.
func (pl *Player) Step() (bool, error) {
	if pl.ended {
		return false, nil
	}

	if pl.MaxFrames > 0 && pl.stats.Presented >= pl.MaxFrames {
		pl.end()
		return false, nil
	}

	frame, err := pl.src.Next()
	if errors.Is(err, io.EOF) {
		pl.stats.Plays++
		if !pl.again() {
			pl.end()
			return false, nil
		}
		pl.src = pl.anim.Source()
		frame, err = pl.src.Next()
	}
	if err != nil {
		return false, fmt.Errorf("playback: %w", err)
	}

	err = pl.present(frame)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (pl *Player) end() {
	pl.ended = true
	logger.Logf(logger.Allow, "playback", "ended: %s", pl.stats)
}

// present composites the frame into the presenter's buffer and presents it
// with the frame's delay
func (pl *Player) present(frame *animation.Frame) error {
	err := pl.composite(frame, frame.Delay)
	if err != nil {
		return err
	}
	pl.stats.Presented++
	return nil
}

func (pl *Player) composite(frame *animation.Frame, delay time.Duration) error {
	w, h := pl.pres.Size()
	buf := pl.pres.Buffer()

	if pl.clear || w != pl.surfW || h != pl.surfH || frame.Width != pl.frameW || frame.Height != pl.frameH {
		if len(buf) < w*h*gui.PixelDepth {
			return fmt.Errorf("playback: %w", compositor.ErrBufferSize)
		}
		compositor.Clear(buf[:w*h*gui.PixelDepth], pl.prefs.BackgroundColor())
		pl.surfW, pl.surfH = w, h
		pl.frameW, pl.frameH = frame.Width, frame.Height
		pl.clear = false
	}

	err := compositor.CompositeInto(frame, buf, w, h)
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	err = pl.pres.Present(delay)
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	pl.current = frame

	return nil
}

// redraw the most recently presented frame. used when the surface has been
// resized or the background colour changed
func (pl *Player) redraw() error {
	pl.clear = true
	if pl.current == nil {
		return nil
	}
	return pl.composite(pl.current, gui.Redraw)
}

// restart the animation from the first frame
func (pl *Player) restart() {
	pl.src = pl.anim.Source()
	pl.ended = false
	pl.stats.Plays = 0
}

func (pl *Player) swap(anim *animation.Animation) {
	pl.anim = anim
	pl.restart()
	pl.clear = true
	logger.Logf(logger.Allow, "playback", "reloaded: %s", anim)
}

// handleEvent returns an error only if a redraw failed
func (pl *Player) handleEvent(ev gui.Event) error {
	switch ev := ev.(type) {
	case gui.EventQuit:
		pl.quit = true

	case gui.EventKeyboard:
		if !ev.Down {
			return nil
		}
		switch ev.Key {
		case "Escape", "Q":
			pl.quit = true
		case "Space":
			pl.paused = !pl.paused
		case "Right":
			if pl.paused {
				pl.step = true
			}
		case "R":
			pl.restart()
		case "F":
			pl.toggleFullScreen()
		}

	case gui.EventResize:
		return pl.redraw()
	}

	return nil
}

// not all presenters support full screen. that's not an error
func (pl *Player) toggleFullScreen() {
	err := pl.pres.SetFeature(gui.ReqFullScreen, !pl.fullScreen)
	if err != nil {
		logger.Log(logger.Allow, "playback", err)
		return
	}
	pl.fullScreen = !pl.fullScreen
}

// wait blocks until an event or a reloaded animation is received
func (pl *Player) wait() error {
	select {
	case ev := <-pl.events:
		return pl.handleEvent(ev)
	case anim := <-pl.reload:
		pl.swap(anim)
	}
	return nil
}

// sleep for the duration while continuing to service events. returns early
// if the user quits or the animation is reloaded
func (pl *Player) sleep(d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			return nil
		case ev := <-pl.events:
			if err := pl.handleEvent(ev); err != nil {
				return err
			}
			if pl.quit {
				return nil
			}
		case anim := <-pl.reload:
			pl.swap(anim)
			return nil
		}
	}
}

// service events and reloads that are already waiting. does not block
func (pl *Player) service() error {
	for {
		select {
		case ev := <-pl.events:
			if err := pl.handleEvent(ev); err != nil {
				return err
			}
		case anim := <-pl.reload:
			pl.swap(anim)
		default:
			return nil
		}
	}
}

// Run the playback loop until the user quits or, if ExitOnEnd is set, until
// the animation ends.
func (pl *Player) Run() error {
	lmtr, err := limiter.NewFPSLimiter(pl.prefs.FPSCap.Get().(int))
	if err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	defer lmtr.Stop()

	logger.Logf(logger.Allow, "playback", "playing %s", pl.anim)

	for {
		err := pl.service()
		if err != nil {
			return err
		}
		if pl.quit {
			break
		}

		if pl.ended {
			if pl.ExitOnEnd {
				break
			}
			err = pl.wait()
			if err != nil {
				return err
			}
			continue
		}

		if pl.paused && !pl.step {
			err = pl.wait()
			if err != nil {
				return err
			}
			continue
		}
		pl.step = false

		ok, err := pl.Step()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if pl.prefs.Delays.Get().(bool) {
			d := pl.current.Delay
			if d < minDelay {
				d = defaultDelay
			}
			err = pl.sleep(d)
			if err != nil {
				return err
			}
		} else {
			lmtr.Wait()
		}
	}

	logger.Logf(logger.Allow, "playback", "quit: %s", pl.stats)

	return nil
}
