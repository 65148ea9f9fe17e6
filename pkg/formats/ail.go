package formats

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AreaRecord names a rectangular gameplay area. The bounding box is
// (left, top, right, bottom) in OB3 world units.
type AreaRecord struct {
	Name        string
	BoundingBox [4]int
}

// Ail is an area/location record container.
type Ail struct {
	AreaRecords []*AreaRecord
}

// NewAil creates an empty area record container.
func NewAil() *Ail {
	return &Ail{}
}

// ParseAil parses AIL text. Each [Section] is followed by a name line and a
// bounding box line; malformed boxes are kept as zero boxes.
func ParseAil(data string) *Ail {
	a := &Ail{}
	var current *AreaRecord
	sectionLine := -1
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case line == "[Section]":
			sectionLine = 0
		case sectionLine == 0:
			current = &AreaRecord{Name: line}
			a.AreaRecords = append(a.AreaRecords, current)
			sectionLine = 1
		case sectionLine == 1 && current != nil:
			parts := strings.Split(line, ",")
			if len(parts) == 4 {
				var box [4]int
				ok := true
				for i, p := range parts {
					v, err := strconv.Atoi(strings.TrimSpace(p))
					if err != nil {
						ok = false
						break
					}
					box[i] = v
				}
				if ok {
					current.BoundingBox = box
				}
			}
			sectionLine = 2
		}
	}
	return a
}

// ParseAilFile parses an AIL file from disk.
func ParseAilFile(path string) (*Ail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AIL file: %w", err)
	}
	return ParseAil(string(data)), nil
}

// Get returns the area record with the given name.
func (a *Ail) Get(name string) (*AreaRecord, bool) {
	for _, rec := range a.AreaRecords {
		if rec.Name == name {
			return rec, true
		}
	}
	return nil, false
}

// AddAreaRecord adds (or updates) a named area record.
func (a *Ail) AddAreaRecord(name string, boundingBox [4]int) *AreaRecord {
	if rec, ok := a.Get(name); ok {
		rec.BoundingBox = boundingBox
		return rec
	}
	rec := &AreaRecord{Name: name, BoundingBox: boundingBox}
	a.AreaRecords = append(a.AreaRecords, rec)
	return rec
}

// String serialises the container as AIL text.
func (a *Ail) String() string {
	var b strings.Builder
	for _, rec := range a.AreaRecords {
		b.WriteString("[Section]\n")
		fmt.Fprintf(&b, "%s\n", rec.Name)
		box := rec.BoundingBox
		fmt.Fprintf(&b, "%d,%d,%d,%d\n\n", box[0], box[1], box[2], box[3])
	}
	return b.String()
}

// Save writes the container to folder/name.ail.
func (a *Ail) Save(folder, name string) error {
	if !strings.HasSuffix(name, ".ail") {
		name += ".ail"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), []byte(a.String()), 0o644); err != nil {
		return fmt.Errorf("writing AIL file: %w", err)
	}
	return nil
}
