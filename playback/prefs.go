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
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/letterbox/paths"
	"github.com/jetsetilly/letterbox/prefs"
	"github.com/lucasb-eyer/go-colorful"
)

// Preferences for the playback of an animation.
type Preferences struct {
	dsk *prefs.Disk

	// size of the drawing surface for presenters that can choose their size
	Width  prefs.Int
	Height prefs.Int

	// colour of the letterbox margins. a hex string of the form #rrggbb
	Background prefs.String

	// maximum number of frames presented per second. zero means no limit
	FPSCap prefs.Int

	// honour the frame delay values in the animation file rather than the
	// FPS cap
	Delays prefs.Bool

	// repeat the animation as many times as the file requests
	Loop prefs.Bool

	// the parsed value of the Background preference
	background atomic.Value // color.NRGBA
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", "preferences")
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is the same as NewPreferences() except that values
// are loaded from the named file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Width.SetHookPre(positive("width"))
	p.Height.SetHookPre(positive("height"))
	p.FPSCap.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("fps cap cannot be negative")
		}
		return nil
	})
	p.Background.SetHookPre(func(v prefs.Value) error {
		_, err := parseBackground(v.(string))
		return err
	})
	p.Background.SetHookPost(func(v prefs.Value) error {
		col, err := parseBackground(v.(string))
		if err != nil {
			return err
		}
		p.background.Store(col)
		return nil
	})

	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	err = p.dsk.Add("playback.width", &p.Width)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	err = p.dsk.Add("playback.height", &p.Height)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	err = p.dsk.Add("playback.background", &p.Background)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	err = p.dsk.Add("playback.fpscap", &p.FPSCap)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	err = p.dsk.Add("playback.delays", &p.Delays)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	err = p.dsk.Add("playback.loop", &p.Loop)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}

	return p, nil
}

func positive(name string) func(prefs.Value) error {
	return func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
		return nil
	}
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.Width.Set(800)
	_ = p.Height.Set(600)
	_ = p.Background.Set("#000000")
	_ = p.FPSCap.Set(60)
	_ = p.Delays.Set(false)
	_ = p.Loop.Set(false)
}

// Load playback preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current playback preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// BackgroundColor returns the Background preference as a colour. The colour
// is always opaque.
func (p *Preferences) BackgroundColor() color.NRGBA {
	if col, ok := p.background.Load().(color.NRGBA); ok {
		return col
	}
	return color.NRGBA{A: 255}
}

// parseBackground accepts colours of the form #rrggbb. the leading hash is
// optional
func parseBackground(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("background colour: %w", err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
