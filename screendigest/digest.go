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

// Package screendigest wraps a gui.Presenter and maintains a digest of every
// buffer that is presented. The digest can be used to check that the playback
// of an animation is the same from one version of the application to the
// next.
package screendigest

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jetsetilly/letterbox/gui"
)

// SHA1 is an implementation of gui.Presenter that decorates another
// presenter. Each call to Present() updates the digest before passing the
// call on.
//
// Note that the use of sha1 is fine for this application because this is not
// a cryptographic task.
type SHA1 struct {
	gui.Presenter

	crit   sync.Mutex
	digest [sha1.Size]byte
	pixels []byte
	frames int
}

// NewSHA1 is the preferred method of initialisation for the SHA1 type.
func NewSHA1(pres gui.Presenter) (*SHA1, error) {
	if pres == nil {
		return nil, errors.New("screendigest: presenter is nil")
	}
	return &SHA1{Presenter: pres}, nil
}

// Hash returns the current digest value as a hex string.
func (dig *SHA1) Hash() string {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return fmt.Sprintf("%x", dig.digest)
}

func (dig *SHA1) String() string {
	return dig.Hash()
}

// Frames returns the number of presented buffers that have contributed to the
// digest since the last reset.
func (dig *SHA1) Frames() int {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	return dig.frames
}

// ResetDigest resets the current digest value to 0.
func (dig *SHA1) ResetDigest() {
	dig.crit.Lock()
	defer dig.crit.Unlock()
	clear(dig.digest[:])
	dig.frames = 0
}

// Present implements the gui.Presenter interface. Redraws are not part of the digest.
func (dig *SHA1) Present(delay time.Duration) error {
	if delay == gui.Redraw {
		return dig.Presenter.Present(delay)
	}

	w, h := dig.Presenter.Size()
	buf := dig.Presenter.Buffer()

	sz := w * h * gui.PixelDepth
	if len(buf) < sz {
		return fmt.Errorf("screendigest: buffer too small for %dx%d surface", w, h)
	}

	dig.crit.Lock()

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the pixel data
	l := len(dig.digest) + sz
	if len(dig.pixels) != l {
		dig.pixels = make([]byte, l)
	}
	copy(dig.pixels, dig.digest[:])
	copy(dig.pixels[len(dig.digest):], buf[:sz])
	dig.digest = sha1.Sum(dig.pixels)
	dig.frames++

	dig.crit.Unlock()

	return dig.Presenter.Present(delay)
}
