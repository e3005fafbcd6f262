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

package regression

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/database"
	"github.com/jetsetilly/letterbox/gui/headless"
	"github.com/jetsetilly/letterbox/logger"
	"github.com/jetsetilly/letterbox/playback"
	"github.com/jetsetilly/letterbox/screendigest"
)

const digestEntryType = "digest"

const (
	digestFieldFilename int = iota
	digestFieldWidth
	digestFieldHeight
	digestFieldBackground
	digestFieldLoop
	digestFieldFrames
	digestFieldDigest
	digestFieldNotes
	numDigestFields
)

// Digest plays the animation on a headless presenter of the size specified in
// the preferences and returns the screen digest of everything presented.
//
// The FPSCap and Delays preferences are changed so that the animation plays
// as quickly as possible. If maxFrames is zero and the animation would loop
// forever then playback is limited to a single play.
func Digest(anim *animation.Animation, prf *playback.Preferences, maxFrames int) (string, error) {
	err := prf.FPSCap.Set(0)
	if err != nil {
		return "", err
	}
	err = prf.Delays.Set(false)
	if err != nil {
		return "", err
	}

	hd, err := headless.NewHeadless(prf.Width.Get().(int), prf.Height.Get().(int), false)
	if err != nil {
		return "", err
	}

	dig, err := screendigest.NewSHA1(hd)
	if err != nil {
		return "", err
	}

	pl, err := playback.NewPlayer(dig, anim, prf)
	if err != nil {
		return "", err
	}
	pl.ExitOnEnd = true
	pl.MaxFrames = maxFrames

	if pl.MaxFrames == 0 && prf.Loop.Get().(bool) && anim.Plays == animation.Forever {
		pl.MaxFrames = len(anim.Frames)
		logger.Logf(logger.Allow, "digest", "animation loops forever. limiting to %d frames", pl.MaxFrames)
	}

	err = pl.Run()
	if err != nil {
		return "", err
	}

	return dig.Hash(), nil
}

// DigestEntry is a regression entry that compares the screen digest of an
// animation with a previously stored value.
type DigestEntry struct {
	Filename   string
	Width      int
	Height     int
	Background string
	Loop       bool

	// maximum number of frames to present. zero means the whole animation
	Frames int

	// the digest produced when the entry was added
	Digest string

	// free text description of the entry
	Notes string

	// location of the preferences file. the file is never written
	prefsPath string
}

func deserialiseDigestEntry(fields []string) (database.Entry, error) {
	if len(fields) != numDigestFields {
		return nil, fmt.Errorf("digest: wrong number of fields (%d)", len(fields))
	}

	ent := &DigestEntry{
		Filename:   fields[digestFieldFilename],
		Background: fields[digestFieldBackground],
		Digest:     fields[digestFieldDigest],
		Notes:      fields[digestFieldNotes],
	}

	var err error

	ent.Width, err = strconv.Atoi(fields[digestFieldWidth])
	if err != nil {
		return nil, fmt.Errorf("digest: invalid width: %w", err)
	}
	ent.Height, err = strconv.Atoi(fields[digestFieldHeight])
	if err != nil {
		return nil, fmt.Errorf("digest: invalid height: %w", err)
	}
	ent.Loop, err = strconv.ParseBool(fields[digestFieldLoop])
	if err != nil {
		return nil, fmt.Errorf("digest: invalid loop value: %w", err)
	}
	ent.Frames, err = strconv.Atoi(fields[digestFieldFrames])
	if err != nil {
		return nil, fmt.Errorf("digest: invalid frame count: %w", err)
	}

	return ent, nil
}

// EntryType implements the database.Entry interface.
func (ent *DigestEntry) EntryType() string {
	return digestEntryType
}

// Serialise implements the database.Entry interface.
func (ent *DigestEntry) Serialise() ([]string, error) {
	return []string{
		ent.Filename,
		strconv.Itoa(ent.Width),
		strconv.Itoa(ent.Height),
		ent.Background,
		strconv.FormatBool(ent.Loop),
		strconv.Itoa(ent.Frames),
		ent.Digest,
		ent.Notes,
	}, nil
}

// CleanUp implements the database.Entry interface.
func (ent *DigestEntry) CleanUp() error {
	return nil
}

// String implements the database.Entry interface.
func (ent *DigestEntry) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "[%s] %s [%dx%d %s]", digestEntryType, filepath.Base(ent.Filename), ent.Width, ent.Height, ent.Background)
	if ent.Loop {
		s.WriteString(" loop")
	}
	if ent.Frames > 0 {
		fmt.Fprintf(&s, " frames=%d", ent.Frames)
	}
	if ent.Notes != "" {
		fmt.Fprintf(&s, " (%s)", ent.Notes)
	}
	return s.String()
}

func (ent *DigestEntry) preferences() (*playback.Preferences, error) {
	if ent.prefsPath == "" {
		return nil, errors.New("digest: no preferences path")
	}

	prf, err := playback.NewPreferencesFromFile(ent.prefsPath)
	if err != nil {
		return nil, err
	}

	// the stored settings are applied over whatever the file contained
	prf.SetDefaults()
	err = prf.Width.Set(ent.Width)
	if err != nil {
		return nil, err
	}
	err = prf.Height.Set(ent.Height)
	if err != nil {
		return nil, err
	}
	err = prf.Background.Set(ent.Background)
	if err != nil {
		return nil, err
	}
	err = prf.Loop.Set(ent.Loop)
	if err != nil {
		return nil, err
	}

	return prf, nil
}

// regress implements the Regressor interface.
func (ent *DigestEntry) regress(newRegression bool) (bool, string, error) {
	anim, err := animation.Open(ent.Filename)
	if err != nil {
		return false, "", fmt.Errorf("digest: %w", err)
	}

	prf, err := ent.preferences()
	if err != nil {
		return false, "", fmt.Errorf("digest: %w", err)
	}

	hash, err := Digest(anim, prf, ent.Frames)
	if err != nil {
		return false, "", fmt.Errorf("digest: %w", err)
	}

	if newRegression {
		ent.Digest = hash
		return true, "", nil
	}

	if hash != ent.Digest {
		return false, fmt.Sprintf("digest mismatch (%s)", hash), nil
	}

	return true, "", nil
}
