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

package animation

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jetsetilly/letterbox/archivefs"
	"github.com/jetsetilly/letterbox/logger"
)

// ReadPeeker is an io.Reader that can also peek n bytes ahead.
type ReadPeeker interface {
	io.Reader
	Peek(n int) ([]byte, error)
}

// AsReadPeeker converts an io.Reader to a ReadPeeker.
func AsReadPeeker(r io.Reader) ReadPeeker {
	if r, ok := r.(ReadPeeker); ok {
		return r
	}
	return bufio.NewReader(r)
}

// hasMagic returns whether r starts with the provided magic bytes. a '?' in
// the magic string matches any byte.
func hasMagic(magic string, r ReadPeeker) bool {
	b, err := r.Peek(len(magic))
	if err != nil || len(b) != len(magic) {
		return false
	}
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

type format struct {
	name   string
	magic  string
	decode func(io.Reader) (*Animation, error)
}

var formats = []format{
	{name: "gif", magic: "GIF8?a", decode: decodeGIF},
	{name: "webp", magic: "RIFF????WEBP", decode: decodeWebP},
	{name: "png", magic: "\x89PNG\r\n\x1a\n", decode: decodeStill},
	{name: "jpeg", magic: "\xff\xd8", decode: decodeStill},
	{name: "bmp", magic: "BM????\x00\x00\x00\x00", decode: decodeStill},
}

// Format returns the name of the image format held by r or the empty string
// if the format is not recognised.
func Format(r ReadPeeker) string {
	for _, f := range formats {
		if hasMagic(f.magic, r) {
			return f.name
		}
	}
	return ""
}

// Decode the image data in r. Animated GIF and animated WebP data result in an
// animation with many frames. All other supported formats, and non-animated
// GIF and WebP data, result in an animation of a single frame.
//
// Every frame in the returned animation is the full size of the animation
// canvas. Partial frames in the source data are composed onto the canvas
// during decoding.
func Decode(r io.Reader) (*Animation, error) {
	rp := AsReadPeeker(r)

	for _, f := range formats {
		if !hasMagic(f.magic, rp) {
			continue
		}

		anim, err := f.decode(rp)
		if err != nil {
			return nil, fmt.Errorf("animation: %s: %w", f.name, err)
		}
		if anim.Format == "" {
			anim.Format = f.name
		}

		err = anim.validate()
		if err != nil {
			return nil, fmt.Errorf("animation: %s: %w", f.name, err)
		}

		return anim, nil
	}

	return nil, fmt.Errorf("animation: %w", ErrUnknownFormat)
}

// Open and decode the named file. The file can be inside a zip archive.
func Open(filename string) (*Animation, error) {
	var afs archivefs.Path
	err := afs.Set(filename)
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	defer afs.Close()

	r, _, err := afs.Open()
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	anim, err := Decode(r)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "animation", "%s: %s", filename, anim)

	return anim, nil
}
