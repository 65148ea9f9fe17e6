package formats

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PatrolPoint is one waypoint of a patrol route, in LEV grid units.
type PatrolPoint struct {
	X, Y, Z float64
}

// PatrolRecord is a named patrol route.
type PatrolRecord struct {
	Title  string
	Points []PatrolPoint
}

// Pat is a patrol route container.
type Pat struct {
	PatrolRecords []*PatrolRecord
}

// NewPat creates an empty patrol container.
func NewPat() *Pat {
	return &Pat{}
}

// ParsePat parses PAT text. Coordinates on disk are in OB3 world units and
// are converted back to grid units.
func ParsePat(data string) *Pat {
	p := &Pat{}
	var current *PatrolRecord
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = &PatrolRecord{Title: strings.Trim(line, "[]")}
			p.PatrolRecords = append(p.PatrolRecords, current)
			continue
		}
		if current == nil || !strings.Contains(line, ",") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			continue
		}
		var vals [3]float64
		ok := true
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if ok {
			current.Points = append(current.Points, PatrolPoint{
				X: vals[0] / (10 * MapScaler),
				Y: vals[1] / MapScaler,
				Z: vals[2] / (10 * MapScaler),
			})
		}
	}
	return p
}

// ParsePatFile parses a PAT file from disk.
func ParsePatFile(path string) (*Pat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PAT file: %w", err)
	}
	return ParsePat(string(data)), nil
}

// Get returns the patrol record with the given title.
func (p *Pat) Get(title string) (*PatrolRecord, bool) {
	for _, rec := range p.PatrolRecords {
		if rec.Title == title {
			return rec, true
		}
	}
	return nil, false
}

// AddPatrolRecord adds (or updates) a named patrol route. Points are in LEV
// grid units.
func (p *Pat) AddPatrolRecord(title string, points []PatrolPoint) *PatrolRecord {
	if rec, ok := p.Get(title); ok {
		rec.Points = points
		return rec
	}
	rec := &PatrolRecord{Title: title, Points: points}
	p.PatrolRecords = append(p.PatrolRecords, rec)
	return rec
}

// String serialises the container as PAT text in OB3 world units.
func (p *Pat) String() string {
	var b strings.Builder
	for _, rec := range p.PatrolRecords {
		fmt.Fprintf(&b, "[%s]\n", rec.Title)
		for _, pt := range rec.Points {
			fmt.Fprintf(&b, "%.4f, %.4f, %.4f\n",
				pt.X*10*MapScaler, pt.Y*MapScaler, pt.Z*10*MapScaler)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Save writes the container to folder/name.pat.
func (p *Pat) Save(folder, name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".pat") {
		name += ".pat"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), []byte(p.String()), 0o644); err != nil {
		return fmt.Errorf("writing PAT file: %w", err)
	}
	return nil
}
