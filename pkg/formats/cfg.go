package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrCfgSectionNotFound is returned when a requested section does not exist.
var ErrCfgSectionNotFound = errors.New("cfg section not found")

// CfgRecord is one [Section] of a CFG file. Records keep their file order
// in case the game expects a particular section sequence.
type CfgRecord struct {
	Section string
	Values  []string
}

// Cfg is a level configuration container.
type Cfg struct {
	Records []*CfgRecord
}

// ParseCfg parses CFG text. Comments (";") and blank lines are dropped.
func ParseCfg(data string) *Cfg {
	c := &Cfg{}
	var current *CfgRecord
	for _, line := range strings.Split(data, "\n") {
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			current = &CfgRecord{Section: strings.Trim(line, "[]")}
			c.Records = append(c.Records, current)
		} else if current != nil {
			current.Values = append(current.Values, line)
		}
	}
	return c
}

// ParseCfgFile parses a CFG file from disk.
func ParseCfgFile(path string) (*Cfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CFG file: %w", err)
	}
	return ParseCfg(string(data)), nil
}

// Get returns the lines of the named section.
func (c *Cfg) Get(section string) ([]string, error) {
	for _, rec := range c.Records {
		if rec.Section == section {
			return rec.Values, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCfgSectionNotFound, section)
}

// Set replaces the named section's lines, creating the section if needed.
// Comment lines are stripped from the new value.
func (c *Cfg) Set(section string, lines ...string) {
	var split []string
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			if strings.HasPrefix(strings.TrimSpace(part), ";") {
				continue
			}
			split = append(split, part)
		}
	}
	for _, rec := range c.Records {
		if rec.Section == section {
			rec.Values = split
			return
		}
	}
	c.Records = append(c.Records, &CfgRecord{Section: section, Values: split})
}

// String serialises the container as CFG text with a creation header.
func (c *Cfg) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, ";Created by HWAE at %s\n", time.Now().Format("02\\01\\2006 (15:04)"))
	for _, rec := range c.Records {
		fmt.Fprintf(&b, "[%s]\n", rec.Section)
		for _, v := range rec.Values {
			fmt.Fprintf(&b, "%s\n", v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Save writes the container to folder/name.cfg.
func (c *Cfg) Save(folder, name string) error {
	if !strings.HasSuffix(name, ".cfg") {
		name += ".cfg"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), []byte(c.String()), 0o644); err != nil {
		return fmt.Errorf("writing CFG file: %w", err)
	}
	return nil
}
