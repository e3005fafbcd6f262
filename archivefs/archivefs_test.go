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

package archivefs_test

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/letterbox/archivefs"
	"github.com/jetsetilly/letterbox/test"
)

// makeTestDir creates the following:
//
//	dir/
//	  Zebra.txt
//	  anims.zip
//	    cat.gif
//	    more/dog.gif
//	  sub/
func makeTestDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	test.DemandSuccess(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "Zebra.txt"), []byte("stripes"), 0o644))

	f, err := os.Create(filepath.Join(dir, "anims.zip"))
	test.DemandSuccess(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{
		"cat.gif":      "meow",
		"more/dog.gif": "woof",
	} {
		w, err := zw.Create(name)
		test.DemandSuccess(t, err)
		_, err = io.WriteString(w, content)
		test.DemandSuccess(t, err)
	}
	test.DemandSuccess(t, zw.Close())
	test.DemandSuccess(t, f.Close())

	return dir
}

func TestPath(t *testing.T) {
	dir := makeTestDir(t)

	var afs archivefs.Path
	defer afs.Close()

	// non-existent file
	test.ExpectFailure(t, afs.Set(filepath.Join(dir, "foo")))
	test.ExpectEquality(t, afs.String(), "")

	// real directory
	test.ExpectSuccess(t, afs.Set(dir))
	test.ExpectEquality(t, afs.String(), dir)
	test.ExpectSuccess(t, afs.IsDir())
	test.ExpectSuccess(t, !afs.InArchive())

	ent, err := afs.List()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", ent), "[anims.zip sub Zebra.txt]")
	test.ExpectSuccess(t, ent[0].IsArchive)
	test.ExpectSuccess(t, ent[1].IsDir && !ent[1].IsArchive)

	// real file
	pth := filepath.Join(dir, "Zebra.txt")
	test.ExpectSuccess(t, afs.Set(pth))
	test.ExpectSuccess(t, !afs.IsDir())
	test.ExpectEquality(t, afs.Base(), "Zebra.txt")
	test.ExpectEquality(t, afs.Dir(), dir)
	test.ExpectEquality(t, afs.DiskPath(), pth)

	r, sz, err := afs.Open()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sz, 7)
	r.(io.Closer).Close()

	// a file cannot be treated as a directory
	test.ExpectFailure(t, afs.Set(filepath.Join(dir, "Zebra.txt", "foo")))

	// root of archive
	arc := filepath.Join(dir, "anims.zip")
	test.ExpectSuccess(t, afs.Set(arc))
	test.ExpectSuccess(t, afs.IsDir())
	test.ExpectSuccess(t, afs.InArchive())
	test.ExpectEquality(t, afs.DiskPath(), arc)

	ent, err = afs.List()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", ent), "[more cat.gif]")

	_, _, err = afs.Open()
	test.ExpectFailure(t, err)

	// directory inside archive that has no entry of its own
	test.ExpectSuccess(t, afs.Set(filepath.Join(arc, "more")))
	test.ExpectSuccess(t, afs.IsDir())
	ent, err = afs.List()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", ent), "[dog.gif]")

	// file inside archive
	test.ExpectSuccess(t, afs.Set(filepath.Join(arc, "more", "dog.gif")))
	test.ExpectSuccess(t, !afs.IsDir())
	test.ExpectSuccess(t, afs.InArchive())
	test.ExpectEquality(t, afs.DiskPath(), arc)
	test.ExpectEquality(t, afs.Dir(), filepath.Join(arc, "more"))

	r, sz, err = afs.Open()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sz, 4)
	b, err := io.ReadAll(r)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(b), "woof")

	// file missing from archive
	test.ExpectFailure(t, afs.Set(filepath.Join(arc, "horse.gif")))
	test.ExpectSuccess(t, !afs.InArchive())
}

func TestReadFile(t *testing.T) {
	dir := makeTestDir(t)

	b, err := archivefs.ReadFile(filepath.Join(dir, "anims.zip", "cat.gif"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(b), "meow")

	b, err = archivefs.ReadFile(filepath.Join(dir, "Zebra.txt"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(b), "stripes")

	_, err = archivefs.ReadFile(filepath.Join(dir, "anims.zip"))
	test.ExpectFailure(t, err)
	_, err = archivefs.ReadFile(filepath.Join(dir, "sub"))
	test.ExpectFailure(t, err)

	pth, err := archivefs.DiskPath(filepath.Join(dir, "anims.zip", "more", "dog.gif"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join(dir, "anims.zip"))
}
