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

package archivefs

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Node is a single entry in the listing of a directory or archive.
type Node struct {
	Name string

	// an archive is also considered to be a directory
	IsDir     bool
	IsArchive bool
}

func (n Node) String() string {
	return n.Name
}

// Path represents a single location in the file system, which may be inside
// an archive. The zero value is ready to use. Close() should be called when
// the Path is no longer required.
type Path struct {
	current string
	isDir   bool

	// the on-disk file or directory. for a location inside an archive this is
	// the archive file
	disk string

	zf *zip.ReadCloser

	// location inside the archive, separated into directory and file. paths
	// inside an archive always use forward slashes
	inZipDir  string
	inZipFile string
}

// String returns the current path.
func (afs Path) String() string {
	return afs.current
}

// Base returns the last element of the current path.
func (afs Path) Base() string {
	return filepath.Base(afs.current)
}

// Dir returns the current path if it is a directory. Otherwise it returns all
// but the last element of the current path.
func (afs Path) Dir() string {
	if afs.isDir {
		return afs.current
	}
	return filepath.Dir(afs.current)
}

// IsDir returns true if the current path is a directory. The root of an
// archive is a directory.
func (afs Path) IsDir() bool {
	return afs.isDir
}

// InArchive returns true if the current path is an archive or inside one.
func (afs Path) InArchive() bool {
	return afs.zf != nil
}

// DiskPath returns the file or directory on disk that holds the current path.
func (afs Path) DiskPath() string {
	return afs.disk
}

// Open the file at the current path. Returns the reader, the size of the data
// and any error. The reader will also implement io.Closer if it needs to be
// closed.
func (afs Path) Open() (io.ReadSeeker, int, error) {
	if afs.isDir {
		return nil, 0, fmt.Errorf("archivefs: open: %s is a directory", afs.current)
	}

	if afs.zf != nil {
		f, err := afs.zf.Open(path.Join(afs.inZipDir, afs.inZipFile))
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}
		defer f.Close()

		// zip entries are not seekable
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}

		return bytes.NewReader(b), len(b), nil
	}

	f, err := os.Open(afs.current)
	if err != nil {
		return nil, 0, fmt.Errorf("archivefs: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("archivefs: open: %w", err)
	}

	return f, int(info.Size()), nil
}

// Close any open archive and reset the path.
func (afs *Path) Close() {
	afs.current = ""
	afs.isDir = false
	afs.disk = ""
	afs.inZipDir = ""
	afs.inZipFile = ""
	if afs.zf != nil {
		afs.zf.Close()
		afs.zf = nil
	}
}

// List the entries at the current path. If the current path is a file then
// the entries of the containing directory are listed.
//
// Directories are listed first. Within that, entries are sorted
// alphabetically without regard to case.
func (afs *Path) List() ([]Node, error) {
	var ent []Node

	if afs.zf != nil {
		dir := afs.inZipDir
		if dir == "" {
			dir = "."
		}

		entries, err := fs.ReadDir(afs.zf, dir)
		if err != nil {
			return nil, fmt.Errorf("archivefs: list: %w", err)
		}

		for _, d := range entries {
			ent = append(ent, Node{Name: d.Name(), IsDir: d.IsDir()})
		}
	} else {
		dir := afs.Dir()

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("archivefs: list: %w", err)
		}

		for _, d := range entries {
			p := filepath.Join(dir, d.Name())

			// os.Stat() follows links so that links to directories are
			// listed as directories
			fi, err := os.Stat(p)
			if err != nil {
				continue
			}

			if fi.IsDir() {
				ent = append(ent, Node{Name: d.Name(), IsDir: true})
				continue
			}

			if isArchive(p) {
				ent = append(ent, Node{Name: d.Name(), IsDir: true, IsArchive: true})
			} else {
				ent = append(ent, Node{Name: d.Name()})
			}
		}
	}

	sortNodes(ent)

	return ent, nil
}

func isArchive(p string) bool {
	zf, err := zip.OpenReader(p)
	if err != nil {
		return false
	}
	zf.Close()
	return true
}

func sortNodes(ent []Node) {
	sort.SliceStable(ent, func(i int, j int) bool {
		if ent[i].IsDir != ent[j].IsDir {
			return ent[i].IsDir
		}
		return strings.ToLower(ent[i].Name) < strings.ToLower(ent[j].Name)
	})
}

// Set the current path. Each element of the path is checked in turn. An
// element that is an archive file is entered as though it were a directory.
func (afs *Path) Set(pth string) error {
	afs.Close()

	pth = filepath.Clean(pth)
	lst := strings.Split(pth, string(filepath.Separator))

	// splitting removes the leading separator of an absolute path
	if lst[0] == "" {
		lst[0] = string(filepath.Separator)
	}

	var current string

	for _, l := range lst {
		current = filepath.Join(current, l)

		if afs.zf != nil {
			p := path.Join(afs.inZipDir, l)

			zfi, err := fs.Stat(afs.zf, p)
			if err != nil {
				afs.Close()
				return fmt.Errorf("archivefs: set: %w", err)
			}

			afs.isDir = zfi.IsDir()
			if afs.isDir {
				afs.inZipDir = p
				afs.inZipFile = ""
			} else {
				afs.inZipFile = l
			}

			continue
		}

		fi, err := os.Stat(current)
		if err != nil {
			afs.Close()
			return fmt.Errorf("archivefs: set: %w", err)
		}

		afs.disk = current
		afs.isDir = fi.IsDir()
		if afs.isDir {
			continue
		}

		afs.zf, err = zip.OpenReader(current)
		if err == nil {
			afs.isDir = true
			continue
		}

		if !errors.Is(err, zip.ErrFormat) {
			afs.Close()
			return fmt.Errorf("archivefs: set: %w", err)
		}
	}

	afs.current = current

	return nil
}
