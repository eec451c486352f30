package mathml

import (
	"strings"
)

// SubSup attaches a subscript and a superscript to a body. Its tag name
// and child order are derived from the populated slots when the element is
// read, so the slots may be filled in any order.
type SubSup struct {
	Element

	body Node
	sub  Node
	sup  Node
}

// NewSubSup wraps body. With display set, sub and sup render as under and
// over.
func NewSubSup(display bool, body Node) *SubSup {
	s := &SubSup{Element: Element{kind: KindSubSup, display: display}, body: body}
	return s
}

func (s *SubSup) Body() Node { return s.body }
func (s *SubSup) Sub() Node  { return s.sub }
func (s *SubSup) Sup() Node  { return s.sup }

func (s *SubSup) SetSub(n Node) { s.sub = n }
func (s *SubSup) SetSup(n Node) { s.sup = n }

// Name returns msub, msup, msubsup, munder, mover, munderover, or mrow
// when neither slot is set.
func (s *SubSup) Name() string {
	if s.sub == nil && s.sup == nil {
		return "mrow"
	}
	var b strings.Builder
	b.WriteString("m")
	if s.sub != nil {
		if s.display {
			b.WriteString("under")
		} else {
			b.WriteString("sub")
		}
	}
	if s.sup != nil {
		if s.display {
			b.WriteString("over")
		} else {
			b.WriteString("sup")
		}
	}
	return b.String()
}

// Children returns body, sub and sup in that order, skipping empty slots.
func (s *SubSup) Children() []Node {
	children := make([]Node, 0, 3)
	for _, n := range []Node{s.body, s.sub, s.sup} {
		if n != nil {
			children = append(children, n)
		}
	}
	return children
}

func (s *SubSup) String() string {
	return Serialize(s)
}

// Fenced wraps content in a pair of delimiters.
type Fenced struct {
	Element
}

func NewFenced(children ...Node) *Fenced {
	f := &Fenced{Element: Element{kind: KindFenced}}
	f.Append(children...)
	return f
}

// SetOpen sets the opening delimiter. "." means no delimiter. raw marks a
// value that already holds an entity reference.
func (f *Fenced) SetOpen(delim string, raw bool) {
	f.setDelimiter("open", delim, raw)
}

// SetClose sets the closing delimiter, with the same rules as SetOpen.
func (f *Fenced) SetClose(delim string, raw bool) {
	f.setDelimiter("close", delim, raw)
}

func (f *Fenced) setDelimiter(name, delim string, raw bool) {
	switch delim {
	case ".":
		delim = ""
	case `\{`:
		delim = "{"
	case `\}`:
		delim = "}"
	}
	if raw {
		f.SetRawAttr(name, delim)
	} else {
		f.SetAttr(name, delim)
	}
}

func (f *Fenced) String() string {
	return Serialize(f)
}

// Align is a column alignment.
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
)

// Line is a table rule style.
type Line string

const (
	LineSolid Line = "solid"
	LineNone  Line = "none"
)

// Table is an mtable.
type Table struct {
	Element
}

func NewTable(rows ...Node) *Table {
	t := &Table{Element: Element{kind: KindTable}}
	t.Append(rows...)
	return t
}

// SetColumnAlign sets columnalign. The attribute is dropped when the list
// is empty or every column is centered.
func (t *Table) SetColumnAlign(aligns []Align) {
	setList(&t.Element, "columnalign", aligns, AlignCenter)
}

// SetColumnLines sets columnlines, dropped when there are no solid rules.
func (t *Table) SetColumnLines(lines []Line) {
	setList(&t.Element, "columnlines", lines, LineNone)
}

// SetRowLines sets rowlines, dropped when there are no solid rules.
func (t *Table) SetRowLines(lines []Line) {
	setList(&t.Element, "rowlines", lines, LineNone)
}

func (t *Table) String() string {
	return Serialize(t)
}

func setList[T ~string](e *Element, name string, values []T, fallback T) {
	allDefault := true
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
		if v != fallback {
			allDefault = false
		}
	}
	if allDefault {
		e.DelAttr(name)
		return
	}
	e.SetAttr(name, strings.Join(parts, " "))
}
