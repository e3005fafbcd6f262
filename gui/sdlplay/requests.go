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
	"fmt"

	"github.com/jetsetilly/letterbox/gui"
	"github.com/veandco/go-sdl2/sdl"
)

// serviceSync runs the function on the main thread and waits for it to
// complete.
func (scr *SdlPlay) serviceSync(f func() error) error {
	scr.service <- f
	return <-scr.serviceErr
}

// SetFeature implements the gui.Presenter interface.
func (scr *SdlPlay) SetFeature(request gui.FeatureReq, args ...gui.FeatureReqData) error {
	switch request {
	case gui.ReqSetTitle:
		title, err := argument[string](request, args)
		if err != nil {
			return err
		}
		return scr.serviceSync(func() error {
			scr.window.SetTitle(title)
			return nil
		})

	case gui.ReqFullScreen:
		fullScreen, err := argument[bool](request, args)
		if err != nil {
			return err
		}
		return scr.serviceSync(func() error {
			var flags uint32
			if fullScreen {
				flags = uint32(sdl.WINDOW_FULLSCREEN_DESKTOP)
			}
			if err := scr.window.SetFullscreen(flags); err != nil {
				return fmt.Errorf("sdlplay: %w", err)
			}
			return nil
		})

	case gui.ReqSetVisibility:
		visible, err := argument[bool](request, args)
		if err != nil {
			return err
		}
		return scr.serviceSync(func() error {
			if visible {
				scr.window.Show()
			} else {
				scr.window.Hide()
			}
			return nil
		})
	}

	return fmt.Errorf("sdlplay: %w: %v", gui.ErrUnsupportedFeature, request)
}

// argument returns the single argument of a feature request as type T
func argument[T any](request gui.FeatureReq, args []gui.FeatureReqData) (T, error) {
	var v T
	if len(args) != 1 {
		return v, fmt.Errorf("sdlplay: %v: expected one argument, got %d", request, len(args))
	}
	v, ok := args[0].(T)
	if !ok {
		return v, fmt.Errorf("sdlplay: %v: argument should be %T not %T", request, v, args[0])
	}
	return v, nil
}
