package formats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextRecord is a named in-game text string.
type TextRecord struct {
	Name    string
	Content string
}

// Ait is a text record container (localised mission strings).
type Ait struct {
	TextRecords []*TextRecord
}

// NewAit creates an empty text record container.
func NewAit() *Ait {
	return &Ait{}
}

// ParseAit parses AIT text. Each [name] header is followed by the record's
// content lines.
func ParseAit(data string) *Ait {
	a := &Ait{}
	var current *TextRecord
	for _, line := range strings.Split(data, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			current = &TextRecord{Name: strings.Trim(trimmed, "[]")}
			a.TextRecords = append(a.TextRecords, current)
			continue
		}
		if current == nil || trimmed == "" {
			continue
		}
		if current.Content != "" {
			current.Content += "\n"
		}
		current.Content += trimmed
	}
	return a
}

// ParseAitFile parses an AIT file from disk.
func ParseAitFile(path string) (*Ait, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AIT file: %w", err)
	}
	return ParseAit(string(data)), nil
}

// Get returns the text record with the given name.
func (a *Ait) Get(name string) (*TextRecord, bool) {
	for _, rec := range a.TextRecords {
		if rec.Name == name {
			return rec, true
		}
	}
	return nil, false
}

// AddTextRecord adds (or updates) a named text record.
func (a *Ait) AddTextRecord(name, content string) *TextRecord {
	if rec, ok := a.Get(name); ok {
		rec.Content = content
		return rec
	}
	rec := &TextRecord{Name: name, Content: content}
	a.TextRecords = append(a.TextRecords, rec)
	return rec
}

// String serialises the container as AIT text.
func (a *Ait) String() string {
	var b strings.Builder
	for _, rec := range a.TextRecords {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", rec.Name, rec.Content)
	}
	return b.String()
}

// Save writes the container to folder/name.ait.
func (a *Ait) Save(folder, name string) error {
	if !strings.HasSuffix(name, ".ait") {
		name += ".ait"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), []byte(a.String()), 0o644); err != nil {
		return fmt.Errorf("writing AIT file: %w", err)
	}
	return nil
}
