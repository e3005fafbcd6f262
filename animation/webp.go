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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/riff"
	"golang.org/x/image/webp"
)

// chunk identifiers used by the WebP container format
var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccVP8X = riff.FourCC{'V', 'P', '8', 'X'}
	fccVP8  = riff.FourCC{'V', 'P', '8', ' '}
	fccVP8L = riff.FourCC{'V', 'P', '8', 'L'}
	fccALPH = riff.FourCC{'A', 'L', 'P', 'H'}
	fccANIM = riff.FourCC{'A', 'N', 'I', 'M'}
	fccANMF = riff.FourCC{'A', 'N', 'M', 'F'}
)

// flags in the first byte of the VP8X chunk
const (
	vp8xAnimation = 0x02
	vp8xAlpha     = 0x10
)

// length of the fixed part of the VP8X, ANIM and ANMF chunks
const (
	vp8xLen       = 10
	animLen       = 6
	anmfHeaderLen = 16
)

var errWebPFrame = errors.New("malformed animation frame")

// webpFrame is a single ANMF chunk from an animated WebP file
type webpFrame struct {
	x, y          int
	width, height int
	duration      time.Duration

	// blend is false if the frame replaces the canvas area rather than being
	// alpha-blended with it
	blend bool

	// dispose is true if the frame area is to be cleared to the background
	// after the frame has been displayed
	dispose bool

	// alpha is the content of the optional ALPH chunk
	alpha []byte

	// the image bitstream. either a VP8 or VP8L chunk
	bitstreamID riff.FourCC
	bitstream   []byte
}

// webpHeader is the information in the VP8X and ANIM chunks
type webpHeader struct {
	flags         byte
	width, height int
	background    color.NRGBA
	loopCount     int
}

func (h webpHeader) isAnimated() bool {
	return h.flags&vp8xAnimation == vp8xAnimation
}

func u24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func putU24(b []byte, v int) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func decodeWebP(r io.Reader) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	hdr, frames, err := parseWebP(data)
	if err != nil {
		return nil, err
	}

	if !hdr.isAnimated() {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return stillAnimation("webp", img), nil
	}

	if len(frames) == 0 {
		return nil, ErrEmpty
	}

	anim := &Animation{
		Format: "webp",
		Width:  hdr.width,
		Height: hdr.height,
		Plays:  hdr.loopCount,
		Frames: make([]*Frame, 0, len(frames)),
	}

	// the background colour in the ANIM chunk is a hint only. the canvas
	// starts off transparent and disposed areas are cleared to transparent,
	// which is what libwebp's animation decoder does
	canvas := image.NewNRGBA(image.Rect(0, 0, hdr.width, hdr.height))

	for i, f := range frames {
		img, err := webp.Decode(bytes.NewReader(f.container()))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		rect := image.Rect(f.x, f.y, f.x+f.width, f.y+f.height).Intersect(canvas.Rect)

		op := draw.Src
		if f.blend {
			op = draw.Over
		}
		draw.Draw(canvas, rect, img, img.Bounds().Min, op)

		anim.Frames = append(anim.Frames, FrameFromImage(canvas, f.duration))

		if f.dispose {
			draw.Draw(canvas, rect, image.Transparent, image.Point{}, draw.Src)
		}
	}

	return anim, nil
}

// parseWebP walks the RIFF chunks of a WebP file. the ANMF chunks are returned
// in the order they appear in the file
func parseWebP(data []byte) (webpHeader, []webpFrame, error) {
	var hdr webpHeader
	var frames []webpFrame

	formType, rd, err := riff.NewReader(bytes.NewReader(data))
	if err != nil {
		return hdr, nil, err
	}
	if formType != fccWEBP {
		return hdr, nil, ErrUnknownFormat
	}

	for {
		id, chunkLen, chunkData, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return hdr, nil, err
		}

		switch id {
		case fccVP8X:
			if chunkLen < vp8xLen {
				return hdr, nil, fmt.Errorf("VP8X chunk too short (%d bytes)", chunkLen)
			}
			b := make([]byte, vp8xLen)
			if _, err := io.ReadFull(chunkData, b); err != nil {
				return hdr, nil, err
			}
			hdr.flags = b[0]
			hdr.width = u24(b[4:7]) + 1
			hdr.height = u24(b[7:10]) + 1

		case fccANIM:
			if chunkLen < animLen {
				return hdr, nil, fmt.Errorf("ANIM chunk too short (%d bytes)", chunkLen)
			}
			b := make([]byte, animLen)
			if _, err := io.ReadFull(chunkData, b); err != nil {
				return hdr, nil, err
			}

			// colour is stored in blue, green, red, alpha order
			hdr.background = color.NRGBA{R: b[2], G: b[1], B: b[0], A: b[3]}
			hdr.loopCount = int(binary.LittleEndian.Uint16(b[4:6]))

		case fccANMF:
			b, err := io.ReadAll(chunkData)
			if err != nil {
				return hdr, nil, err
			}
			f, err := parseANMF(b)
			if err != nil {
				return hdr, nil, fmt.Errorf("frame %d: %w", len(frames), err)
			}
			frames = append(frames, f)
		}
	}

	return hdr, frames, nil
}

// parseANMF parses the payload of an ANMF chunk
func parseANMF(b []byte) (webpFrame, error) {
	var f webpFrame

	if len(b) < anmfHeaderLen {
		return f, fmt.Errorf("%w: header too short", errWebPFrame)
	}

	f.x = u24(b[0:3]) * 2
	f.y = u24(b[3:6]) * 2
	f.width = u24(b[6:9]) + 1
	f.height = u24(b[9:12]) + 1
	f.duration = time.Duration(u24(b[12:15])) * time.Millisecond
	f.dispose = b[15]&0x01 == 0x01
	f.blend = b[15]&0x02 == 0x00

	// the frame data is a sequence of sub-chunks
	b = b[anmfHeaderLen:]
	for len(b) >= 8 {
		var id riff.FourCC
		copy(id[:], b[0:4])
		size := int(binary.LittleEndian.Uint32(b[4:8]))
		b = b[8:]
		if size < 0 || size > len(b) {
			return f, fmt.Errorf("%w: sub-chunk %q overruns frame", errWebPFrame, id[:])
		}

		switch id {
		case fccALPH:
			f.alpha = b[:size]
		case fccVP8, fccVP8L:
			f.bitstreamID = id
			f.bitstream = b[:size]
		}

		// chunks are padded to an even length
		size += size & 1
		b = b[min(size, len(b)):]
	}

	if f.bitstream == nil {
		return f, fmt.Errorf("%w: no image bitstream", errWebPFrame)
	}

	return f, nil
}

// container wraps the frame's bitstream in a standalone still WebP file so
// that it can be handled by the webp package decoder
func (f webpFrame) container() []byte {
	body := &bytes.Buffer{}
	body.Write(fccWEBP[:])

	// lossy frames with separate alpha data need an extended header. lossless
	// frames carry their own alpha
	if f.alpha != nil && f.bitstreamID == fccVP8 {
		x := make([]byte, vp8xLen)
		x[0] = vp8xAlpha
		putU24(x[4:7], f.width-1)
		putU24(x[7:10], f.height-1)
		writeChunk(body, fccVP8X, x)
		writeChunk(body, fccALPH, f.alpha)
	}
	writeChunk(body, f.bitstreamID, f.bitstream)

	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	_ = binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeChunk(w *bytes.Buffer, id riff.FourCC, data []byte) {
	w.Write(id[:])
	_ = binary.Write(w, binary.LittleEndian, uint32(len(data)))
	w.Write(data)
	if len(data)&1 == 1 {
		w.WriteByte(0)
	}
}
