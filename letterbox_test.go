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

package main

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/letterbox/test"
)

// runLaunch runs the launch() function with the arguments and returns the
// exit value requested by the quit state request
func runLaunch(t *testing.T, args ...string) int {
	t.Helper()

	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (GuiCreator, error)),
		creation:      make(chan GuiCreator),
		creationError: make(chan error),
	}

	go launch(sync, args)

	for {
		select {
		case state := <-sync.state:
			if state.req != reqQuit {
				continue
			}
			if state.args == nil {
				return 0
			}
			return state.args.(int)
		case <-sync.creator:
			t.Fatalf("unexpected gui creation")
		case <-time.After(10 * time.Second):
			t.Fatalf("launch did not quit")
		}
	}
}

// inTempDir runs the test in a temporary directory so that the resource
// directory is created there
func inTempDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	dir := t.TempDir()
	test.DemandSuccess(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
	return dir
}

func writeGIF(t *testing.T, filename string) {
	t.Helper()
	g := &gif.GIF{LoopCount: 0}
	for i := 0; i < 3; i++ {
		g.Image = append(g.Image, image.NewPaletted(image.Rect(0, 0, 8, 4), palette.Plan9))
		g.Delay = append(g.Delay, 10)
	}
	var b bytes.Buffer
	test.DemandSuccess(t, gif.EncodeAll(&b, g))
	test.DemandSuccess(t, os.WriteFile(filename, b.Bytes(), 0o644))
}

func TestLaunchVersion(t *testing.T) {
	test.ExpectEquality(t, runLaunch(t, "version"), 0)
	test.ExpectEquality(t, runLaunch(t, "VERSION", "-revision"), 0)
	test.ExpectEquality(t, runLaunch(t, "version", "extra"), 20)
}

func TestLaunchHelp(t *testing.T) {
	test.ExpectEquality(t, runLaunch(t, "-help"), 0)
	test.ExpectEquality(t, runLaunch(t, "info", "-help"), 0)
}

func TestLaunchErrors(t *testing.T) {
	dir := inTempDir(t)

	// unknown flag for a named mode
	test.ExpectEquality(t, runLaunch(t, "info", "-nope"), 20)

	// missing and unreadable files
	test.ExpectEquality(t, runLaunch(t, "info"), 20)
	test.ExpectEquality(t, runLaunch(t, "info", filepath.Join(dir, "missing.gif")), 20)

	fn := filepath.Join(dir, "text.gif")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("hello"), 0o644))
	test.ExpectEquality(t, runLaunch(t, "info", fn), 20)

	// invalid preference value
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)
	test.ExpectEquality(t, runLaunch(t, "info", "-width", "-10", anim), 20)
}

func TestLaunchInfo(t *testing.T) {
	dir := inTempDir(t)
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)
	test.ExpectEquality(t, runLaunch(t, "info", "-width", "100", "-height", "100", anim), 0)

	// directories and archives are listed
	test.ExpectEquality(t, runLaunch(t, "info", dir), 0)

	b, err := os.ReadFile(anim)
	test.DemandSuccess(t, err)
	var z bytes.Buffer
	zw := zip.NewWriter(&z)
	f, err := zw.Create("inner.gif")
	test.DemandSuccess(t, err)
	_, err = f.Write(b)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, zw.Close())
	arc := filepath.Join(dir, "anims.zip")
	test.DemandSuccess(t, os.WriteFile(arc, z.Bytes(), 0o644))

	test.ExpectEquality(t, runLaunch(t, "info", arc), 0)
	test.ExpectEquality(t, runLaunch(t, "info", filepath.Join(arc, "inner.gif")), 0)
	test.ExpectEquality(t, runLaunch(t, "info", filepath.Join(arc, "missing.gif")), 20)
}

func TestLaunchDigest(t *testing.T) {
	dir := inTempDir(t)
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)
	test.ExpectEquality(t, runLaunch(t, "digest", "-loop", anim), 0)
	test.ExpectEquality(t, runLaunch(t, "digest", "-frames", "2", anim), 0)
}

func TestLaunchRegress(t *testing.T) {
	dir := inTempDir(t)
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)

	// running an empty database is an error but listing is not
	test.ExpectEquality(t, runLaunch(t, "regress", "run"), 20)
	test.ExpectEquality(t, runLaunch(t, "regress", "list"), 0)

	test.ExpectEquality(t, runLaunch(t, "regress", "add"), 20)
	test.ExpectEquality(t, runLaunch(t, "regress", "add", "-width", "64", "-height", "32", "-notes", "small", anim), 0)
	test.ExpectEquality(t, runLaunch(t, "regress", "add", "-loop", "-frames", "4", anim), 0)

	_, err := os.Stat(filepath.Join(dir, ".letterbox", "regression", "db"))
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, runLaunch(t, "regress", "list"), 0)
	test.ExpectEquality(t, runLaunch(t, "regress", "run"), 0)
	test.ExpectEquality(t, runLaunch(t, "regress", "run", "-verbose", "1"), 0)

	// the default sub-mode is RUN
	test.ExpectEquality(t, runLaunch(t, "regress"), 0)

	test.ExpectEquality(t, runLaunch(t, "regress", "delete", "-yes"), 20)
	test.ExpectEquality(t, runLaunch(t, "regress", "delete", "-yes", "0", "1"), 20)
	test.ExpectEquality(t, runLaunch(t, "regress", "delete", "-yes", "0"), 0)
	test.ExpectEquality(t, runLaunch(t, "regress", "run", "0"), 20)
	test.ExpectEquality(t, runLaunch(t, "regress", "run", "1"), 0)
}

func TestLaunchSavePrefs(t *testing.T) {
	dir := inTempDir(t)
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)

	test.ExpectEquality(t, runLaunch(t, "info", "-saveprefs", "-prefs", "playback.fpscap::25", "-background", "#102030", anim), 0)

	b, err := os.ReadFile(filepath.Join(dir, ".letterbox", "preferences"))
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Contains(b, []byte("playback.fpscap :: 25")))
	test.ExpectSuccess(t, bytes.Contains(b, []byte("playback.background :: #102030")))
}

func TestLaunchPerf(t *testing.T) {
	dir := inTempDir(t)
	anim := filepath.Join(dir, "anim.gif")
	writeGIF(t, anim)
	test.ExpectEquality(t, runLaunch(t, "perf", "-duration", "100ms", anim), 0)
	test.ExpectEquality(t, runLaunch(t, "perf", "-profile", "gpu", anim), 20)
}
