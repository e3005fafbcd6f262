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

package prefs_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/letterbox/prefs"
	"github.com/jetsetilly/letterbox/test"
)

func prefsFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "preferences")
}

func cmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := prefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w, x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("TRUE"))
	test.ExpectFailure(t, x.Set(10))

	test.ExpectSuccess(t, dsk.Save())
	cmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestString(t *testing.T) {
	fn := prefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("foo", &v))
	test.ExpectSuccess(t, v.Set("bar"))
	test.ExpectSuccess(t, dsk.Save())
	cmpFile(t, fn, "foo :: bar\n")

	test.ExpectSuccess(t, v.Set(123))
	test.ExpectEquality(t, v.String(), "123")
}

func TestInt(t *testing.T) {
	fn := prefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set(" 99 "))
	test.ExpectFailure(t, w.Set("foo"))
	test.ExpectEquality(t, w.Get().(int), 99)

	test.ExpectSuccess(t, dsk.Save())
	cmpFile(t, fn, "number :: 10\nnumberB :: 99\n")
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectSuccess(t, v.Set(1.5))
	test.ExpectEquality(t, v.Get().(float64), 1.5)
	test.ExpectEquality(t, v.String(), "1.500")
	test.ExpectSuccess(t, v.Set("0.25"))
	test.ExpectEquality(t, v.Get().(float64), 0.25)
	test.ExpectSuccess(t, v.Set(2))
	test.ExpectEquality(t, v.Get().(float64), 2.0)
	test.ExpectFailure(t, v.Set("x"))
	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get().(float64), 0.0)
}

func TestHooks(t *testing.T) {
	var v prefs.Int

	var post int
	v.SetHookPre(func(value prefs.Value) error {
		if value.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	v.SetHookPost(func(value prefs.Value) error {
		post = value.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(5))
	test.ExpectEquality(t, post, 5)

	// the pre hook prevents the value from changing
	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 5)
	test.ExpectEquality(t, post, 5)
}

func TestLoad(t *testing.T) {
	fn := prefsFile(t)

	// saving with one disk
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var a prefs.Bool
	var b prefs.Int
	var c prefs.String
	test.ExpectSuccess(t, dsk.Add("a", &a))
	test.ExpectSuccess(t, dsk.Add("b", &b))
	test.ExpectSuccess(t, dsk.Add("c", &c))
	test.ExpectSuccess(t, a.Set(true))
	test.ExpectSuccess(t, b.Set(42))
	test.ExpectSuccess(t, c.Set("hello world"))
	test.ExpectSuccess(t, dsk.Save())

	// loading with another disk that only knows about some of the keys
	dsk2, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var a2 prefs.Bool
	var c2 prefs.String
	var d2 prefs.Int
	test.ExpectSuccess(t, dsk2.Add("a", &a2))
	test.ExpectSuccess(t, dsk2.Add("c", &c2))
	test.ExpectSuccess(t, dsk2.Add("d", &d2))
	test.ExpectSuccess(t, d2.Set(7))
	test.ExpectSuccess(t, dsk2.Load())

	test.ExpectEquality(t, a2.Get().(bool), true)
	test.ExpectEquality(t, c2.String(), "hello world")
	test.ExpectEquality(t, d2.Get().(int), 7)

	// saving the second disk keeps the key it doesn't know about
	test.ExpectSuccess(t, dsk2.Save())
	cmpFile(t, fn, "a :: true\nb :: 42\nc :: hello world\nd :: 7\n")
}

func TestLoadMissingAndInvalid(t *testing.T) {
	fn := prefsFile(t)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	test.ExpectSuccess(t, dsk.Add("v", &v))
	test.ExpectSuccess(t, v.Set(3))

	// missing file leaves the value alone
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.Get().(int), 3)

	// file without the boilerplate
	test.DemandSuccess(t, os.WriteFile(fn, []byte("v :: 10\n"), 0o600))
	test.ExpectFailure(t, dsk.Load())

	// value that can't be converted
	test.DemandSuccess(t, os.WriteFile(fn, []byte(prefs.WarningBoilerPlate+"\nv :: ten\n"), 0o600))
	test.ExpectFailure(t, dsk.Load())
}

func TestAddErrors(t *testing.T) {
	dsk, err := prefs.NewDisk(prefsFile(t))
	test.DemandSuccess(t, err)

	var v prefs.Bool
	test.ExpectSuccess(t, dsk.Add("key", &v))
	test.ExpectFailure(t, dsk.Add("key", &v))
	test.ExpectFailure(t, dsk.Add("bad key", &v))
	test.ExpectFailure(t, dsk.Add("bad::key", &v))
	test.ExpectFailure(t, dsk.Add("", &v))

	_, err = prefs.NewDisk("")
	test.ExpectFailure(t, err)
}

func TestLoadCommandLine(t *testing.T) {
	fn := prefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	var w prefs.Int
	test.ExpectSuccess(t, dsk.Add("v", &v))
	test.ExpectSuccess(t, dsk.Add("w", &w))
	test.ExpectSuccess(t, v.Set(1))
	test.ExpectSuccess(t, w.Set(2))
	test.ExpectSuccess(t, dsk.Save())

	// command line value takes priority over the file
	prefs.PushCommandLineStack("v::100; unknown::1")
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, v.Get().(int), 100)
	test.ExpectEquality(t, w.Get().(int), 2)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "unknown::1")
}
