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

// Package archivefs allows files inside zip archives to be addressed as though
// the archive were a directory. For example, the path:
//
//	/home/user/anims.zip/cats/running.gif
//
// refers to the file cats/running.gif inside the archive anims.zip. Paths that
// do not pass through an archive refer to normal files and directories.
package archivefs

import (
	"fmt"
	"io"
)

// ReadFile returns the contents of the named file, which may be inside an
// archive.
func ReadFile(filename string) ([]byte, error) {
	var afs Path
	err := afs.Set(filename)
	if err != nil {
		return nil, err
	}
	defer afs.Close()

	if afs.IsDir() {
		return nil, fmt.Errorf("archivefs: %s is a directory", filename)
	}

	r, _, err := afs.Open()
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("archivefs: %w", err)
	}

	return b, nil
}

// DiskPath returns the file on disk that holds the named file. For a file
// inside an archive that is the archive file. For any other file it is the
// cleaned filename.
func DiskPath(filename string) (string, error) {
	var afs Path
	err := afs.Set(filename)
	if err != nil {
		return "", err
	}
	defer afs.Close()
	return afs.DiskPath(), nil
}
