package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PCX format errors.
var (
	ErrBadPCXDimensions = errors.New("PCX dimensions do not match pixel data")
	ErrBadPCXPalette    = errors.New("PCX palette must have 256 entries")
)

// PCXImage is an 8-bit palettized image, row-major pixels of palette
// indices. This is the shape the game expects for map.pcx minimaps.
type PCXImage struct {
	Width   int
	Height  int
	Pixels  []byte
	Palette [256][3]byte
}

// NewPCXImage creates a zeroed image of the given size.
func NewPCXImage(w, h int) *PCXImage {
	return &PCXImage{
		Width:  w,
		Height: h,
		Pixels: make([]byte, w*h),
	}
}

// Bytes encodes the image as a version 5, 8-bit, RLE-compressed PCX file
// with a trailing VGA palette block.
func (img *PCXImage) Bytes() ([]byte, error) {
	if len(img.Pixels) != img.Width*img.Height {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels",
			ErrBadPCXDimensions, img.Width, img.Height, len(img.Pixels))
	}

	buf := new(bytes.Buffer)

	// 128-byte header.
	buf.WriteByte(0x0A) // manufacturer
	buf.WriteByte(5)    // version 5 (with palette)
	buf.WriteByte(1)    // RLE encoding
	buf.WriteByte(8)    // bits per pixel

	binary.Write(buf, binary.LittleEndian, uint16(0))            // xmin
	binary.Write(buf, binary.LittleEndian, uint16(0))            // ymin
	binary.Write(buf, binary.LittleEndian, uint16(img.Width-1))  // xmax
	binary.Write(buf, binary.LittleEndian, uint16(img.Height-1)) // ymax
	binary.Write(buf, binary.LittleEndian, uint16(72))           // hdpi
	binary.Write(buf, binary.LittleEndian, uint16(72))           // vdpi

	buf.Write(make([]byte, 48)) // 16-color EGA palette, unused
	buf.WriteByte(0)            // reserved
	buf.WriteByte(1)            // planes
	// Bytes per scanline must be even.
	stride := img.Width
	if stride%2 != 0 {
		stride++
	}
	binary.Write(buf, binary.LittleEndian, uint16(stride))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // palette info: color
	binary.Write(buf, binary.LittleEndian, uint16(0)) // hscreen
	binary.Write(buf, binary.LittleEndian, uint16(0)) // vscreen
	buf.Write(make([]byte, 54))                       // header padding to 128

	// RLE-compressed scanlines.
	row := make([]byte, stride)
	for y := 0; y < img.Height; y++ {
		copy(row, img.Pixels[y*img.Width:(y+1)*img.Width])
		if stride > img.Width {
			row[stride-1] = 0
		}
		writeRLERow(buf, row)
	}

	// Trailing 256-color palette.
	buf.WriteByte(0x0C)
	for _, c := range img.Palette {
		buf.Write(c[:])
	}

	return buf.Bytes(), nil
}

// writeRLERow encodes a single scanline with PCX run-length encoding: runs
// of up to 63 identical bytes become (0xC0|count, value); single bytes below
// 0xC0 are stored literally.
func writeRLERow(buf *bytes.Buffer, row []byte) {
	for i := 0; i < len(row); {
		v := row[i]
		run := 1
		for i+run < len(row) && row[i+run] == v && run < 63 {
			run++
		}
		if run > 1 || v >= 0xC0 {
			buf.WriteByte(0xC0 | byte(run))
		}
		buf.WriteByte(v)
		i += run
	}
}

// Save writes the image to folder/name.pcx.
func (img *PCXImage) Save(folder, name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".pcx") {
		name += ".pcx"
	}
	data, err := img.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), data, 0o644); err != nil {
		return fmt.Errorf("writing PCX file: %w", err)
	}
	return nil
}
