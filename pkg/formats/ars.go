package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ARS format errors.
var (
	ErrMalformedTrigger = errors.New("malformed ARS trigger")
)

// triggerHeaderPattern matches: "name" : AIS_XXX [: id] : BOOL_AND|BOOL_OR
var triggerHeaderPattern = regexp.MustCompile(`"([^"]+)" *: *(AIS_[A-Z]+) *:? *(\d+)? *:? *([^{\s]+)`)

// ArsCondition is a condition within a trigger record.
type ArsCondition struct {
	Type   string
	Values []string
}

func (c *ArsCondition) pack() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Condition: %s\n", c.Type)
	for _, v := range c.Values {
		fmt.Fprintf(&b, "  %s\n", v)
	}
	return b.String()
}

// ArsAction is an action within a trigger record.
type ArsAction struct {
	Type   string
	Values []string
}

func (a *ArsAction) pack() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s\n", a.Type)
	for _, v := range a.Values {
		fmt.Fprintf(&b, "  %s\n", v)
	}
	return b.String()
}

// ArsRecord is a single script/trigger record.
type ArsRecord struct {
	Name       string
	PlayerType string
	PlayerID   int
	IsAnd      bool
	Conditions []ArsCondition
	Actions    []ArsAction
}

func (r *ArsRecord) pack() string {
	header := r.PlayerType
	if r.PlayerType == "AIS_SPECIFICPLAYER" {
		header = fmt.Sprintf("%s : %d", r.PlayerType, r.PlayerID)
	}
	boolType := "BOOL_OR"
	if r.IsAnd {
		boolType = "BOOL_AND"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Trigger: %q : %s : %s\n{\n", r.Name, header, boolType)
	for i := range r.Conditions {
		b.WriteString(r.Conditions[i].pack())
	}
	for i := range r.Actions {
		b.WriteString(r.Actions[i].pack())
	}
	b.WriteString("}\n\n")
	return b.String()
}

// Ars is a trigger/script container.
type Ars struct {
	Records []*ArsRecord
}

// NewArs creates an empty trigger container.
func NewArs() *Ars {
	return &Ars{}
}

// ParseArs parses ARS trigger text.
func ParseArs(data string) (*Ars, error) {
	a := &Ars{}
	if err := a.appendTriggers(data); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseArsFile parses an ARS file from disk.
func ParseArsFile(path string) (*Ars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ARS file: %w", err)
	}
	return ParseArs(string(data))
}

// LoadAdditionalData appends the records of another ARS file to this
// container.
func (a *Ars) LoadAdditionalData(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading additional ARS data: %w", err)
	}
	return a.appendTriggers(string(data))
}

func (a *Ars) appendTriggers(data string) error {
	chunks := strings.Split(data, "Trigger: ")
	for _, chunk := range chunks[1:] { // chunk 0 is the file header
		rec, err := parseTrigger(chunk)
		if err != nil {
			return err
		}
		a.Records = append(a.Records, rec)
	}
	return nil
}

func parseTrigger(trigger string) (*ArsRecord, error) {
	header, body, found := strings.Cut(trigger, "{")
	if !found {
		return nil, fmt.Errorf("%w: missing body in %q", ErrMalformedTrigger, trigger)
	}
	m := triggerHeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%w: unparsable header %q", ErrMalformedTrigger, strings.TrimSpace(header))
	}
	playerID := 0
	if m[3] != "" {
		playerID, _ = strconv.Atoi(m[3])
	}
	rec := &ArsRecord{
		Name:       m[1],
		PlayerType: m[2],
		PlayerID:   playerID,
		IsAnd:      m[4] == "BOOL_AND",
	}

	body = strings.ReplaceAll(body, "}", "")
	var kind, typ string
	var values []string
	flush := func() {
		switch kind {
		case "Condition":
			rec.Conditions = append(rec.Conditions, ArsCondition{Type: typ, Values: values})
		case "Action":
			rec.Actions = append(rec.Actions, ArsAction{Type: typ, Values: values})
		}
		kind, typ, values = "", "", nil
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Condition:"):
			flush()
			kind, typ = "Condition", strings.TrimSpace(strings.TrimPrefix(line, "Condition:"))
		case strings.HasPrefix(line, "Action:"):
			flush()
			kind, typ = "Action", strings.TrimSpace(strings.TrimPrefix(line, "Action:"))
		default:
			values = append(values, line)
		}
	}
	flush()
	return rec, nil
}

// AddActionToExistingRecord appends an action to the named record. A missing
// record is not an error; the action is simply not added.
func (a *Ars) AddActionToExistingRecord(recordName, actionTitle string, actionDetails []string) bool {
	for _, rec := range a.Records {
		if rec.Name == recordName {
			rec.Actions = append(rec.Actions, ArsAction{Type: actionTitle, Values: actionDetails})
			return true
		}
	}
	return false
}

// ActionsFromExistingRecord returns the actions of the named record, or nil
// if no such record exists.
func (a *Ars) ActionsFromExistingRecord(recordName string) []ArsAction {
	for _, rec := range a.Records {
		if rec.Name == recordName {
			return rec.Actions
		}
	}
	return nil
}

// String serialises the container as ARS trigger text.
func (a *Ars) String() string {
	var b strings.Builder
	b.WriteString("AIRS\n")
	for _, rec := range a.Records {
		b.WriteString(rec.pack())
	}
	return b.String()
}

// Save writes the container to folder/name.ars.
func (a *Ars) Save(folder, name string) error {
	if !strings.HasSuffix(name, ".ars") {
		name += ".ars"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, name), []byte(a.String()), 0o644); err != nil {
		return fmt.Errorf("writing ARS file: %w", err)
	}
	return nil
}
