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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(60)
//	defer fps.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		presentFrame()
//	}
//
// A limit of zero means that there is no limit and Wait() returns
// immediately.
package limiter

import (
	"fmt"
	"sync/atomic"
	"time"
)

// FpsLimiter will trigger every frames per second.
type FpsLimiter struct {
	framesPerSecond atomic.Int64

	// duration between ticks. zero if there is no limit
	secondsPerFrame atomic.Int64

	tick chan bool
	quit chan struct{}
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type.
func NewFPSLimiter(framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		tick: make(chan bool),
		quit: make(chan struct{}),
	}

	err := lim.SetLimit(framesPerSecond)
	if err != nil {
		return nil, err
	}

	// run ticker concurrently
	go func() {
		t := time.Now()
		adjust := time.Duration(0)

		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			spf := time.Duration(lim.secondsPerFrame.Load())
			if spf == 0 {
				continue
			}

			// the sleep is adjusted by how late the previous tick was
			time.Sleep(spf - adjust)

			nt := time.Now()
			adjust = max(0, min(spf, nt.Sub(t)-spf+adjust))
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits. A value of zero
// means there is no limit.
func (lim *FpsLimiter) SetLimit(framesPerSecond int) error {
	if framesPerSecond < 0 {
		return fmt.Errorf("limiter: invalid frames per second value (%d)", framesPerSecond)
	}

	lim.framesPerSecond.Store(int64(framesPerSecond))
	if framesPerSecond == 0 {
		lim.secondsPerFrame.Store(0)
	} else {
		lim.secondsPerFrame.Store(int64(time.Second / time.Duration(framesPerSecond)))
	}

	return nil
}

// Limit returns the current limit. Zero means there is no limit.
func (lim *FpsLimiter) Limit() int {
	return int(lim.framesPerSecond.Load())
}

// Wait will block until trigger.
func (lim *FpsLimiter) Wait() {
	if lim.secondsPerFrame.Load() == 0 {
		return
	}
	select {
	case <-lim.tick:
	case <-lim.quit:
	}
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen.
func (lim *FpsLimiter) HasWaited() bool {
	if lim.secondsPerFrame.Load() == 0 {
		return true
	}
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}

// Stop the ticker. Calls to Wait() after Stop() return immediately. Stop()
// should not be called more than once.
func (lim *FpsLimiter) Stop() {
	close(lim.quit)
}
