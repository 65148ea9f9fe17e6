package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// OB3 format errors.
var (
	ErrInvalidOB3Magic  = errors.New("invalid OB3 magic: expected 'OBJC'")
	ErrTruncatedOB3Data = errors.New("truncated OB3 data")
)

// MapScaler converts between LEV grid units and the raw coordinate units
// stored in OB3 files. The factor was reverse engineered from stock levels.
const MapScaler = 51.2

// ob3FixedSize is the serialised size of one object without addon data:
// 4 (size) + 32 + 32 (names) + 13*4 (matrix, location, normal) + 5*4 (ids,
// flags, team) + 8 (addon padding).
const ob3FixedSize = 148

// Ob3Object is one entry of the object list. Location is in LEV grid units;
// conversion to file units happens on pack.
type Ob3Object struct {
	ObjectType     string
	AttachmentType string
	// Row-major 3x3 rotation matrix, identity by default.
	Rotation [9]float32
	// Location in LEV grid units (x, y, z).
	Location       [3]float32
	Normal         float32
	RenderableID   uint32
	ControllableID uint32
	ShadowFlags    uint32
	PermanentFlag  uint32
	TeamNumber     uint32
	ID             uint32
}

// SetYAxisRotation sets the rotation matrix to a rotation of deg degrees
// around the vertical axis.
func (o *Ob3Object) SetYAxisRotation(deg float64) {
	if deg == 0 {
		return
	}
	c := float32(math.Cos(deg * math.Pi / 180))
	s := float32(math.Sin(deg * math.Pi / 180))
	o.Rotation = [9]float32{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}
}

func (o *Ob3Object) pack() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(ob3FixedSize))
	buf.Write(packName(o.ObjectType))
	buf.Write(packName(o.AttachmentType))
	binary.Write(buf, binary.LittleEndian, o.Rotation)
	binary.Write(buf, binary.LittleEndian, [3]float32{
		o.Location[0] * MapScaler,
		o.Location[1] * MapScaler,
		o.Location[2] * MapScaler,
	})
	binary.Write(buf, binary.LittleEndian, o.Normal)
	binary.Write(buf, binary.LittleEndian, o.RenderableID)
	binary.Write(buf, binary.LittleEndian, o.ControllableID)
	binary.Write(buf, binary.LittleEndian, o.ShadowFlags)
	binary.Write(buf, binary.LittleEndian, o.PermanentFlag)
	binary.Write(buf, binary.LittleEndian, o.TeamNumber)
	buf.Write(make([]byte, 8)) // addons are not supported
	return buf.Bytes()
}

func packName(s string) []byte {
	b := make([]byte, 32)
	copy(b, s)
	return b
}

func unpackName(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// Ob3 is an object-list container. IDs are 1-indexed and assigned in
// insertion order, which downstream trigger scripts rely on.
type Ob3 struct {
	Objects []Ob3Object
}

// NewOb3 creates an empty object-list container.
func NewOb3() *Ob3 {
	return &Ob3{}
}

// ParseOb3 parses an OB3 file from raw bytes.
func ParseOb3(data []byte) (*Ob3, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedOB3Data
	}
	if string(data[0:4]) != "OBJC" {
		return nil, ErrInvalidOB3Magic
	}

	count := binary.LittleEndian.Uint32(data[4:8])
	ob3 := &Ob3{}
	off := 8
	for i := uint32(0); i < count; i++ {
		if off+4 > len(data) {
			return nil, fmt.Errorf("%w: object %d size", ErrTruncatedOB3Data, i)
		}
		size := int(binary.LittleEndian.Uint32(data[off : off+4]))
		if size < ob3FixedSize-8 || off+size > len(data) {
			return nil, fmt.Errorf("%w: object %d body (%d bytes)", ErrTruncatedOB3Data, i, size)
		}
		body := data[off+4 : off+size]

		var o Ob3Object
		o.ObjectType = unpackName(body[0:32])
		o.AttachmentType = unpackName(body[32:64])
		r := bytes.NewReader(body[64:])
		binary.Read(r, binary.LittleEndian, &o.Rotation)
		var rawLoc [3]float32
		binary.Read(r, binary.LittleEndian, &rawLoc)
		o.Location = [3]float32{rawLoc[0] / MapScaler, rawLoc[1] / MapScaler, rawLoc[2] / MapScaler}
		binary.Read(r, binary.LittleEndian, &o.Normal)
		binary.Read(r, binary.LittleEndian, &o.RenderableID)
		binary.Read(r, binary.LittleEndian, &o.ControllableID)
		binary.Read(r, binary.LittleEndian, &o.ShadowFlags)
		binary.Read(r, binary.LittleEndian, &o.PermanentFlag)
		if err := binary.Read(r, binary.LittleEndian, &o.TeamNumber); err != nil {
			return nil, fmt.Errorf("%w: object %d fields", ErrTruncatedOB3Data, i)
		}
		o.ID = i + 1
		if o.RenderableID == 0xFFFFFFFF {
			o.RenderableID = o.ID
		}
		ob3.Objects = append(ob3.Objects, o)
		off += size
	}
	return ob3, nil
}

// ParseOb3File parses an OB3 file from disk.
func ParseOb3File(path string) (*Ob3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OB3 file: %w", err)
	}
	return ParseOb3(data)
}

// AddObject appends a new object and returns its 1-indexed ID.
//
// Location is (x, y, z) in LEV grid units. OB3 stores x and z swapped and
// scaled by 10 relative to the LEV grid, which is handled here so callers
// work in grid units throughout.
func (f *Ob3) AddObject(objectType string, location [3]float32, attachmentType string, team uint32, yRotation float64) uint32 {
	o := Ob3Object{
		ObjectType:     objectType,
		AttachmentType: attachmentType,
		Rotation:       [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Location:       [3]float32{location[2] * 10, location[1], location[0] * 10},
		Normal:         1,
		ShadowFlags:    139,
		PermanentFlag:  1,
		TeamNumber:     team,
	}
	if team == 0 {
		o.ControllableID = 1 // only player objects are controllable
	}
	o.ID = uint32(len(f.Objects) + 1)
	o.RenderableID = o.ID
	o.SetYAxisRotation(yRotation)
	f.Objects = append(f.Objects, o)
	return o.ID
}

// Bytes serialises the container.
func (f *Ob3) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("OBJC")
	binary.Write(buf, binary.LittleEndian, uint32(len(f.Objects)))
	for i := range f.Objects {
		buf.Write(f.Objects[i].pack())
	}
	return buf.Bytes()
}

// Save writes the container to folder/name.ob3.
func (f *Ob3) Save(folder, name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".ob3") {
		name += ".ob3"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), f.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing OB3 file: %w", err)
	}
	return nil
}
