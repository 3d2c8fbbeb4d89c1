package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Table is a named table with its columns in declaration order.
type Table struct {
	Name    string
	Columns []string
}

// Descriptor holds the immutable metadata for one industry's database
// schema. It is validated once at construction and shared read-only across
// sessions afterwards.
type Descriptor struct {
	Industry      string
	Description   string
	SchemaURL     string
	Tables        []Table
	Relationships []string // "table.col -> table.col"
}

var relationshipRe = regexp.MustCompile(`^(\w+)\.(\w+) -> (\w+)\.(\w+)$`)

// Validate checks the descriptor for structural problems. A descriptor that
// fails validation is rejected at load time, never trusted at use time.
func (d *Descriptor) Validate() error {
	if d.Industry == "" {
		return fmt.Errorf("descriptor has no industry name")
	}
	if len(d.Tables) == 0 {
		return fmt.Errorf("industry %q has no tables", d.Industry)
	}

	columns := make(map[string]map[string]bool, len(d.Tables))
	for _, t := range d.Tables {
		if t.Name == "" {
			return fmt.Errorf("industry %q has an unnamed table", d.Industry)
		}
		if _, ok := columns[t.Name]; ok {
			return fmt.Errorf("industry %q declares table %q twice", d.Industry, t.Name)
		}
		if len(t.Columns) == 0 {
			return fmt.Errorf("table %q in industry %q has no columns", t.Name, d.Industry)
		}
		cols := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if c == "" {
				return fmt.Errorf("table %q in industry %q has an empty column name", t.Name, d.Industry)
			}
			if cols[c] {
				return fmt.Errorf("table %q in industry %q declares column %q twice", t.Name, d.Industry, c)
			}
			cols[c] = true
		}
		columns[t.Name] = cols
	}

	for _, r := range d.Relationships {
		m := relationshipRe.FindStringSubmatch(r)
		if m == nil {
			return fmt.Errorf("industry %q has malformed relationship %q", d.Industry, r)
		}
		for _, ref := range [][2]string{{m[1], m[2]}, {m[3], m[4]}} {
			cols, ok := columns[ref[0]]
			if !ok {
				return fmt.Errorf("relationship %q references unknown table %q", r, ref[0])
			}
			if !cols[ref[1]] {
				return fmt.Errorf("relationship %q references unknown column %s.%s", r, ref[0], ref[1])
			}
		}
	}

	return nil
}

// HasTable reports whether the descriptor declares the named table.
func (d *Descriptor) HasTable(name string) bool {
	for _, t := range d.Tables {
		if t.Name == name {
			return true
		}
	}
	return false
}

// RenderPrompt renders the schema description used as the fixed preamble of
// every generative-service call. It is a pure function of the descriptor:
// the same descriptor always yields byte-identical text, with tables and
// relationships in declaration order.
func (d *Descriptor) RenderPrompt() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Database schema for the %s industry", d.Industry))
	if d.Description != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", d.Description))
	}
	sb.WriteString(":\n\nTables:\n")

	for _, t := range d.Tables {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", t.Name, strings.Join(t.Columns, ", ")))
	}

	if len(d.Relationships) > 0 {
		sb.WriteString("\nRelationships:\n")
		for _, r := range d.Relationships {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	return sb.String()
}
