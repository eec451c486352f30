// Package symbol maps LaTeX command names to MathML leaf elements.
//
// The table data lives in data/symbols.yaml and is embedded into the
// binary. Payloads are rendered in one of three encodings so that the same
// table serves entity references, numeric character references and plain
// UTF-8 output.
package symbol

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/symbols.yaml
var defaultData []byte

// Kind is the MathML element a symbol produces.
type Kind uint8

const (
	// KindNone produces no element.
	KindNone Kind = iota
	KindIdentifier
	KindOperator
	KindNumber
)

// String returns the MathML tag name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "mi"
	case KindOperator:
		return "mo"
	case KindNumber:
		return "mn"
	default:
		return "none"
	}
}

// PayloadKind says how a payload's text is interpreted.
type PayloadKind uint8

const (
	PayloadText PayloadKind = iota
	PayloadEntity
	PayloadCodepoint
)

// Payload is the content of a leaf element.
type Payload struct {
	Kind PayloadKind
	// Text is the literal text or the entity name.
	Text string
	// Code is set for PayloadCodepoint.
	Code rune
}

// Entry is one row of the table.
type Entry struct {
	Name    string
	Kind    Kind
	Display bool
	Upright bool
	Payload Payload
}

// Table is an immutable symbol table. It is safe for concurrent use.
type Table struct {
	entries    map[string]Entry
	entities   map[string]rune
	delimiters map[string]struct{}
}

type fileEntry struct {
	El      string `yaml:"el"`
	Entity  string `yaml:"entity"`
	Code    int    `yaml:"code"`
	Text    string `yaml:"text"`
	Upright bool   `yaml:"upright"`
	Display bool   `yaml:"display"`
}

type fileData struct {
	Entities   map[string]int       `yaml:"entities"`
	Delimiters []string             `yaml:"delimiters"`
	Symbols    map[string]fileEntry `yaml:"symbols"`
}

//nolint:gochecknoglobals // Lazily loaded shared table.
var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the built-in table. It panics if the embedded data is
// malformed, which only a broken build can cause.
func Default() *Table {
	defaultTableOnce.Do(func() {
		table, err := Load(defaultData)
		if err != nil {
			panic(fmt.Sprintf("symbol: embedded table: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Load builds a table from YAML data in the embedded format.
func Load(data []byte) (*Table, error) {
	var file fileData
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse symbol data: %w", err)
	}

	table := &Table{
		entries:    make(map[string]Entry, len(file.Symbols)),
		entities:   make(map[string]rune, len(file.Entities)),
		delimiters: make(map[string]struct{}, len(file.Delimiters)),
	}
	for name, code := range file.Entities {
		table.entities[name] = rune(code)
	}
	for _, name := range file.Delimiters {
		table.delimiters[name] = struct{}{}
	}
	for name, raw := range file.Symbols {
		entry, err := raw.entry(name)
		if err != nil {
			return nil, err
		}
		table.entries[name] = entry
	}
	return table, nil
}

func (f fileEntry) entry(name string) (Entry, error) {
	entry := Entry{Name: name, Upright: f.Upright, Display: f.Display}

	switch f.El {
	case "mi":
		entry.Kind = KindIdentifier
	case "mo":
		entry.Kind = KindOperator
	case "mn":
		entry.Kind = KindNumber
	case "none":
		return entry, nil
	default:
		return Entry{}, fmt.Errorf("symbol %q: unknown element %q", name, f.El)
	}

	switch {
	case f.Entity != "":
		entry.Payload = Payload{Kind: PayloadEntity, Text: f.Entity}
	case f.Code != 0:
		entry.Payload = Payload{Kind: PayloadCodepoint, Code: rune(f.Code)}
	case f.Text != "":
		entry.Payload = Payload{Kind: PayloadText, Text: f.Text}
	default:
		entry.Payload = Payload{Kind: PayloadEntity, Text: name}
	}
	return entry, nil
}

// Lookup returns the entry registered under a command name.
func (t *Table) Lookup(name string) (Entry, bool) {
	entry, ok := t.entries[name]
	return entry, ok
}

// Names returns every command name in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsDelimiter reports whether a command may follow \left or \right.
func (t *Table) IsDelimiter(name string) bool {
	_, ok := t.delimiters[name]
	return ok
}

// HasEntity reports whether the table knows the code point of an entity.
func (t *Table) HasEntity(name string) bool {
	_, ok := t.entities[name]
	return ok
}

// Render returns the text of a payload in the given encoding. raw is true
// when the text already contains markup references and must be written
// without escaping.
func (t *Table) Render(p Payload, enc Encoding) (text string, raw bool) {
	switch p.Kind {
	case PayloadEntity:
		return t.Entity(p.Text, enc)
	case PayloadCodepoint:
		return codepoint(p.Code, enc)
	default:
		return p.Text, false
	}
}

// Entity renders a named entity. Names without a known code point are
// always written as entity references.
func (t *Table) Entity(name string, enc Encoding) (text string, raw bool) {
	code, ok := t.entities[name]
	if enc == EntityReference || !ok {
		return "&" + name + ";", true
	}
	return codepoint(code, enc)
}

func codepoint(code rune, enc Encoding) (string, bool) {
	if enc == UTF8 {
		return string(code), false
	}
	return fmt.Sprintf("&#x%x;", code), true
}

// Describe returns a one-line human description of an entry.
func (e Entry) Describe() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Payload.Kind {
	case PayloadEntity:
		b.WriteString(" &" + e.Payload.Text + ";")
	case PayloadCodepoint:
		fmt.Fprintf(&b, " U+%04X", e.Payload.Code)
	default:
		if e.Kind != KindNone {
			fmt.Fprintf(&b, " %q", e.Payload.Text)
		}
	}
	if e.Display {
		b.WriteString(" (display)")
	}
	if e.Upright {
		b.WriteString(" (upright)")
	}
	return b.String()
}
