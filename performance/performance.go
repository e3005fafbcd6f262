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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/gui"
	"github.com/jetsetilly/letterbox/playback"
)

// Check the performance of playback using the supplied animation and
// presenter. The animation is repeated for the specified duration regardless
// of the loop preference.
//
// A cpu and memory profile, a trace (or a combination of those) are created
// as defined by the Profile argument.
func Check(output io.Writer, profile Profile, pres gui.Presenter, anim *animation.Animation, prefs *playback.Preferences, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("performance: duration must be positive (%v)", duration)
	}

	pl, err := playback.NewPlayer(pres, anim, prefs)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	pl.Repeat = true

	var elapsed time.Duration

	runner := func() error {
		// the quit request is handled at the start of the next display cycle
		t := time.AfterFunc(duration, pl.Quit)
		defer t.Stop()

		start := time.Now()
		err := pl.Run()
		elapsed = time.Since(start)
		return err
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	numFrames := pl.Stats().Presented
	fps, accuracy := CalcFPS(numFrames, elapsed.Seconds(), float64(prefs.FPSCap.Get().(int)))

	if accuracy > 0 {
		fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, elapsed.Seconds(), accuracy)
	} else {
		fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds)\n", fps, numFrames, elapsed.Seconds())
	}

	return nil
}
