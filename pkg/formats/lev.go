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

// LEV format errors.
var (
	ErrTruncatedLEVData = errors.New("truncated LEV data")
	ErrInvalidLEVLayout = errors.New("invalid LEV section layout")
)

const (
	levHeaderSize       = 48         // 4 uint32 + 2 float32 + 6 uint32
	levTerrainPointSize = 16         // float32 + 2 uint16 + 8 uint8
	levColorSize        = 12         // 3 float32
	levFourCC           = 0x304C4556 // "VEL0" little-endian, as found in stock levels
)

// LevHeader is the fixed-size header of a LEV file. Offsets are recomputed
// on save from the section sizes, so callers only ever set Width and Length.
type LevHeader struct {
	FourCC               uint32
	TerrainPointOffset   uint32
	Width                uint32
	Length               uint32
	HighestPoint         float32
	LowestPoint          float32
	ObjectListOffset     uint32
	ModelListOffset      uint32
	ExtraModelListOffset uint32
	LandPaletteOffset    uint32
	LevelConfigOffset    uint32
	EndOfLastBit         uint32
}

// TerrainPoint is one cell of the heightfield grid.
type TerrainPoint struct {
	Height       float32
	Normal       uint16
	Flags        uint16
	PaletteIndex uint8
	FlowDir      uint8
	StrataIndex  uint8
	Mat          uint8
	TextureDir   uint8
	UOff         uint8
	VOff         uint8
	AINodeType   uint8
}

// TPDraw marks a terrain point as drawable (no holes).
const TPDraw uint16 = 1

// LevColor is one entry of the land palette.
type LevColor struct {
	R, G, B float32
}

// Lev is a parsed LEV terrain container. Object, model and config sections
// are carried as opaque blobs so a load/save cycle is byte-exact.
type Lev struct {
	Header        LevHeader
	TerrainPoints []TerrainPoint
	ObjectData    []byte
	ModelData     []byte
	Colors        []LevColor
	ConfigData    []byte
}

// NewLev creates an empty in-memory LEV container with a flat w x l grid.
func NewLev(w, l int) *Lev {
	lev := &Lev{
		Header: LevHeader{
			FourCC: levFourCC,
			Width:  uint32(w),
			Length: uint32(l),
		},
		TerrainPoints: make([]TerrainPoint, w*l),
	}
	return lev
}

// ParseLev parses a LEV file from raw bytes.
func ParseLev(data []byte) (*Lev, error) {
	if len(data) < levHeaderSize {
		return nil, ErrTruncatedLEVData
	}

	lev := &Lev{}
	r := bytes.NewReader(data[:levHeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &lev.Header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedLEVData)
	}

	h := &lev.Header
	terrainStart := uint32(levHeaderSize)
	terrainEnd := h.ObjectListOffset
	if terrainEnd < terrainStart || terrainEnd > uint32(len(data)) {
		return nil, fmt.Errorf("%w: object list offset %d", ErrInvalidLEVLayout, terrainEnd)
	}

	terrainData := data[terrainStart:terrainEnd]
	count := len(terrainData) / levTerrainPointSize
	lev.TerrainPoints = make([]TerrainPoint, count)
	tr := bytes.NewReader(terrainData)
	for i := 0; i < count; i++ {
		if err := binary.Read(tr, binary.LittleEndian, &lev.TerrainPoints[i]); err != nil {
			return nil, fmt.Errorf("%w: terrain point %d", ErrTruncatedLEVData, i)
		}
	}
	if uint32(count) != h.Width*h.Length {
		return nil, fmt.Errorf("%w: %d terrain points for %dx%d grid",
			ErrInvalidLEVLayout, count, h.Width, h.Length)
	}

	section := func(start, end uint32) ([]byte, error) {
		if end < start || end > uint32(len(data)) {
			return nil, fmt.Errorf("%w: section [%d:%d]", ErrInvalidLEVLayout, start, end)
		}
		return data[start:end], nil
	}

	var err error
	if lev.ObjectData, err = section(h.ObjectListOffset, h.ModelListOffset); err != nil {
		return nil, err
	}
	if h.ModelListOffset != 0 && h.LandPaletteOffset != 0 {
		if lev.ModelData, err = section(h.ModelListOffset, h.LandPaletteOffset); err != nil {
			return nil, err
		}
	}
	if h.LandPaletteOffset != 0 && h.LevelConfigOffset != 0 {
		colorData, err := section(h.LandPaletteOffset, h.LevelConfigOffset)
		if err != nil {
			return nil, err
		}
		cr := bytes.NewReader(colorData)
		for i := 0; i < len(colorData)/levColorSize; i++ {
			var c LevColor
			if err := binary.Read(cr, binary.LittleEndian, &c); err != nil {
				return nil, fmt.Errorf("%w: palette entry %d", ErrTruncatedLEVData, i)
			}
			lev.Colors = append(lev.Colors, c)
		}
	}
	if lev.ConfigData, err = section(h.LevelConfigOffset, h.EndOfLastBit); err != nil {
		return nil, err
	}

	return lev, nil
}

// ParseLevFile parses a LEV file from disk.
func ParseLevFile(path string) (*Lev, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LEV file: %w", err)
	}
	return ParseLev(data)
}

// Bytes serialises the container, recomputing all header offsets.
func (l *Lev) Bytes() []byte {
	h := &l.Header
	h.TerrainPointOffset = levHeaderSize
	h.ObjectListOffset = levHeaderSize + uint32(len(l.TerrainPoints)*levTerrainPointSize)
	h.ModelListOffset = h.ObjectListOffset + uint32(len(l.ObjectData))
	h.LandPaletteOffset = h.ModelListOffset + uint32(len(l.ModelData))
	h.LevelConfigOffset = h.LandPaletteOffset + uint32(len(l.Colors)*levColorSize)
	h.EndOfLastBit = h.LevelConfigOffset + uint32(len(l.ConfigData))

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, *h)
	for i := range l.TerrainPoints {
		binary.Write(buf, binary.LittleEndian, l.TerrainPoints[i])
	}
	buf.Write(l.ObjectData)
	buf.Write(l.ModelData)
	for _, c := range l.Colors {
		binary.Write(buf, binary.LittleEndian, c)
	}
	buf.Write(l.ConfigData)
	return buf.Bytes()
}

// Save writes the container to folder/name.lev.
func (l *Lev) Save(folder, name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".lev") {
		name += ".lev"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	path := filepath.Join(folder, name)
	if err := os.WriteFile(path, l.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing LEV file: %w", err)
	}
	return nil
}
