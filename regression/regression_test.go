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

package regression_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jetsetilly/letterbox/animation"
	"github.com/jetsetilly/letterbox/playback"
	"github.com/jetsetilly/letterbox/regression"
	"github.com/jetsetilly/letterbox/test"
)

// writeGIF creates a three frame animation. the fill colour of the last frame
// is specified so that the output of two files can differ
func writeGIF(t *testing.T, filename string, last color.Color) {
	t.Helper()
	g := &gif.GIF{LoopCount: 0}
	for i := 0; i < 3; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 8, 4), palette.Plan9)
		if i == 2 {
			idx := uint8(color.Palette(palette.Plan9).Index(last))
			for p := range img.Pix {
				img.Pix[p] = idx
			}
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}
	var b bytes.Buffer
	test.DemandSuccess(t, gif.EncodeAll(&b, g))
	test.DemandSuccess(t, os.WriteFile(filename, b.Bytes(), 0o644))
}

func newEntry(filename string) *regression.DigestEntry {
	return &regression.DigestEntry{
		Filename:   filename,
		Width:      32,
		Height:     16,
		Background: "#102030",
		Notes:      "test, with comma",
	}
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	red := filepath.Join(dir, "red.gif")
	blue := filepath.Join(dir, "blue.gif")
	writeGIF(t, red, color.NRGBA{R: 255, A: 255})
	writeGIF(t, blue, color.NRGBA{B: 255, A: 255})

	digest := func(filename string, maxFrames int) string {
		t.Helper()
		anim, err := animation.Open(filename)
		test.DemandSuccess(t, err)
		prf, err := playback.NewPreferencesFromFile(filepath.Join(dir, "prefs"))
		test.DemandSuccess(t, err)
		hash, err := regression.Digest(anim, prf, maxFrames)
		test.DemandSuccess(t, err)
		return hash
	}

	test.ExpectEquality(t, digest(red, 0), digest(red, 0))
	test.ExpectInequality(t, digest(red, 0), digest(blue, 0))

	// the differing frame is never presented
	test.ExpectEquality(t, digest(red, 2), digest(blue, 2))
}

func TestRegressionDatabase(t *testing.T) {
	dir := t.TempDir()
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim, color.NRGBA{R: 255, A: 255})

	rdb := regression.NewDatabase(filepath.Join(dir, "db"))

	var out strings.Builder

	// listing and running an empty database
	test.ExpectSuccess(t, rdb.List(&out))
	test.ExpectEquality(t, out.String(), "database is empty\n")
	test.ExpectFailure(t, rdb.Run(&out, false, false, nil))

	ent := newEntry(anim)
	test.DemandSuccess(t, rdb.Add(&out, ent))
	test.ExpectSuccess(t, regexp.MustCompile(`^[0-9a-f]{40}$`).MatchString(ent.Digest), ent.Digest)

	ent = newEntry(anim)
	ent.Loop = true
	ent.Frames = 5
	test.DemandSuccess(t, rdb.Add(&out, ent))

	out.Reset()
	test.ExpectSuccess(t, rdb.List(&out))
	test.ExpectEquality(t, out.String(),
		"000 [digest] anim.gif [32x16 #102030] (test, with comma)\n"+
			"001 [digest] anim.gif [32x16 #102030] loop frames=5 (test, with comma)\n"+
			"Total: 2\n")

	out.Reset()
	test.ExpectSuccess(t, rdb.Run(&out, false, false, nil))
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "2 succeed, 0 fail, 0 error, 0 skipped\n"), out.String())

	out.Reset()
	test.ExpectSuccess(t, rdb.Run(&out, false, false, []string{"1"}))
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "1 succeed, 0 fail, 0 error, 0 skipped\n"), out.String())

	test.ExpectFailure(t, rdb.Run(&out, false, false, []string{"x"}))
	test.ExpectFailure(t, rdb.Run(&out, false, false, []string{"7"}))

	// changing the animation causes both entries to fail
	writeGIF(t, anim, color.NRGBA{B: 255, A: 255})

	out.Reset()
	err := rdb.Run(&out, false, false, nil)
	test.ExpectSuccess(t, errors.Is(err, regression.ErrRegressionFailed))
	test.ExpectEquality(t, strings.Count(out.String(), "FAILED"), 2)
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "0 succeed, 2 fail, 0 error, 0 skipped\n"), out.String())

	out.Reset()
	err = rdb.Run(&out, false, true, nil)
	test.ExpectSuccess(t, errors.Is(err, regression.ErrRegressionFailed))
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "0 succeed, 1 fail, 0 error, 1 skipped\n"), out.String())

	// a missing animation is an error rather than a failure
	test.DemandSuccess(t, os.Remove(anim))

	out.Reset()
	err = rdb.Run(&out, false, false, []string{"0"})
	test.ExpectSuccess(t, errors.Is(err, regression.ErrRegressionFailed))
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "0 succeed, 0 fail, 1 error, 0 skipped\n"), out.String())
}

func TestRegressionAddMissingFile(t *testing.T) {
	dir := t.TempDir()
	rdb := regression.NewDatabase(filepath.Join(dir, "db"))

	var out strings.Builder
	test.ExpectFailure(t, rdb.Add(&out, newEntry(filepath.Join(dir, "missing.gif"))))

	// nothing was added
	out.Reset()
	test.ExpectSuccess(t, rdb.List(&out))
	test.ExpectEquality(t, out.String(), "database is empty\n")
}

func TestRegressionDelete(t *testing.T) {
	dir := t.TempDir()
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim, color.NRGBA{R: 255, A: 255})

	rdb := regression.NewDatabase(filepath.Join(dir, "db"))

	var out strings.Builder
	test.DemandSuccess(t, rdb.Add(&out, newEntry(anim)))
	test.DemandSuccess(t, rdb.Add(&out, newEntry(anim)))

	test.ExpectFailure(t, rdb.Delete(&out, nil, "x"))
	test.ExpectFailure(t, rdb.Delete(&out, nil, "9"))

	// declining the confirmation leaves the entry in place
	test.ExpectSuccess(t, rdb.Delete(&out, strings.NewReader("n\n"), "0"))
	out.Reset()
	test.ExpectSuccess(t, rdb.List(&out))
	test.ExpectSuccess(t, strings.HasSuffix(out.String(), "Total: 2\n"), out.String())

	test.ExpectSuccess(t, rdb.Delete(&out, strings.NewReader("y\n"), "0"))
	test.ExpectSuccess(t, rdb.Delete(&out, nil, "1"))

	out.Reset()
	test.ExpectSuccess(t, rdb.List(&out))
	test.ExpectEquality(t, out.String(), "database is empty\n")
}
