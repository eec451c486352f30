// Package mathml provides the MathML element tree produced by the LaTeX
// parser and a serializer for it.
//
// A tree is built from Element values (and the SubSup, Fenced and Table
// specializations) holding ordered attributes and children. Character data
// is held by Text nodes; a raw Text is written verbatim, which is how entity
// references reach the output.
package mathml

import (
	"slices"
)

// Namespaces written on root and break elements.
const (
	Namespace      = "http://www.w3.org/1998/Math/MathML"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// Kind classifies a node.
type Kind uint8

// Node kinds.
const (
	KindText Kind = iota
	KindMath
	KindRow
	KindIdentifier
	KindOperator
	KindNumber
	KindMText
	KindSpace
	KindFrac
	KindSqrt
	KindRoot
	KindOver
	KindUnder
	KindSubSup
	KindFenced
	KindTable
	KindTableRow
	KindTableCell
	KindNone
	KindBreak
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindTags = [...]string{
	KindText:       "",
	KindMath:       "math",
	KindRow:        "mrow",
	KindIdentifier: "mi",
	KindOperator:   "mo",
	KindNumber:     "mn",
	KindMText:      "mtext",
	KindSpace:      "mspace",
	KindFrac:       "mfrac",
	KindSqrt:       "msqrt",
	KindRoot:       "mroot",
	KindOver:       "mover",
	KindUnder:      "munder",
	KindSubSup:     "mrow",
	KindFenced:     "mfenced",
	KindTable:      "mtable",
	KindTableRow:   "mtr",
	KindTableCell:  "mtd",
	KindNone:       "none",
	KindBreak:      "br",
}

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSubSup:
		return "subsup"
	default:
		if int(k) < len(kindTags) {
			return kindTags[k]
		}
		return "unknown"
	}
}

// Node is an element or a run of character data.
type Node interface {
	Kind() Kind
	// Name is the tag name. It is empty for character data.
	Name() string
	Attrs() []Attr
	Children() []Node
}

// Attr is one attribute. Raw values are written without escaping.
type Attr struct {
	Name  string
	Value string
	Raw   bool
}

// Text is character data.
type Text struct {
	Value string
	// Raw text already contains markup references and is written verbatim.
	Raw bool
}

// String returns escaped character data.
func String(s string) *Text {
	return &Text{Value: s}
}

// Raw returns character data that is written verbatim.
func Raw(s string) *Text {
	return &Text{Value: s, Raw: true}
}

func (t *Text) Kind() Kind       { return KindText }
func (t *Text) Name() string     { return "" }
func (t *Text) Attrs() []Attr    { return nil }
func (t *Text) Children() []Node { return nil }

// Element is a tagged node with ordered attributes and children.
type Element struct {
	kind     Kind
	attrs    []Attr
	children []Node
	display  bool
}

// New returns an empty element of the given kind.
func New(kind Kind, children ...Node) *Element {
	e := &Element{kind: kind}
	e.Append(children...)
	return e
}

func (e *Element) Kind() Kind       { return e.kind }
func (e *Element) Name() string     { return kindTags[e.kind] }
func (e *Element) Attrs() []Attr    { return e.attrs }
func (e *Element) Children() []Node { return e.children }

// Append adds children in order. Nil nodes are skipped.
func (e *Element) Append(children ...Node) {
	for _, child := range children {
		if child != nil {
			e.children = append(e.children, child)
		}
	}
}

// Pop removes and returns the last child, or nil when there is none.
func (e *Element) Pop() Node {
	if len(e.children) == 0 {
		return nil
	}
	last := e.children[len(e.children)-1]
	e.children = e.children[:len(e.children)-1]
	return last
}

// Len returns the number of children.
func (e *Element) Len() int {
	return len(e.children)
}

// SetAttr sets an attribute, keeping the position of an existing one.
func (e *Element) SetAttr(name, value string) {
	e.setAttr(Attr{Name: name, Value: value})
}

// SetRawAttr sets an attribute whose value is written without escaping.
func (e *Element) SetRawAttr(name, value string) {
	e.setAttr(Attr{Name: name, Value: value, Raw: true})
}

func (e *Element) setAttr(attr Attr) {
	for i := range e.attrs {
		if e.attrs[i].Name == attr.Name {
			e.attrs[i] = attr
			return
		}
	}
	e.attrs = append(e.attrs, attr)
}

// Attr returns the value of an attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// DelAttr removes an attribute if present.
func (e *Element) DelAttr(name string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(attr Attr) bool {
		return attr.Name == name
	})
}

// AsDisplayStyle marks the element as display style and returns it.
func (e *Element) AsDisplayStyle() *Element {
	e.display = true
	return e
}

// DisplayStyle reports whether the element was marked as display style.
// Sub/sup attached to such an element render as under/over in block math.
func (e *Element) DisplayStyle() bool {
	return e.display
}

// Variant is a mathvariant attribute value.
type Variant string

// Variants written by the parser.
const (
	VariantNormal     Variant = "normal"
	VariantBold       Variant = "bold"
	VariantBoldItalic Variant = "bold-italic"
)

// SetVariant sets the mathvariant attribute.
func (e *Element) SetVariant(v Variant) {
	e.SetAttr("mathvariant", string(v))
}

// String serializes the element.
func (e *Element) String() string {
	return Serialize(e)
}

// IsDisplayStyle reports whether n is an element marked as display style.
func IsDisplayStyle(n Node) bool {
	d, ok := n.(interface{ DisplayStyle() bool })
	return ok && d.DisplayStyle()
}

// NewMath returns a math root in the MathML namespace.
func NewMath(display bool) *Element {
	e := New(KindMath)
	e.SetAttr("xmlns", Namespace)
	if display {
		e.SetAttr("display", "block")
	} else {
		e.SetAttr("display", "inline")
	}
	return e
}

func NewRow(children ...Node) *Element { return New(KindRow, children...) }

// NewIdentifier returns an mi element holding text.
func NewIdentifier(text *Text) *Element { return New(KindIdentifier, text) }

// NewOperator returns an mo element holding text.
func NewOperator(text *Text) *Element { return New(KindOperator, text) }

// NewNumber returns an mn element holding text.
func NewNumber(text *Text) *Element { return New(KindNumber, text) }

// NewMText returns an mtext element holding escaped text.
func NewMText(s string) *Element { return New(KindMText, String(s)) }

// NewSpace returns an mspace of the given width.
func NewSpace(width string) *Element {
	e := New(KindSpace)
	e.SetAttr("width", width)
	return e
}

func NewFrac(numerator, denominator Node) *Element {
	return New(KindFrac, numerator, denominator)
}

func NewSqrt(children ...Node) *Element { return New(KindSqrt, children...) }

// NewRoot returns an mroot. MathML puts the base first and the index second.
func NewRoot(index, base Node) *Element {
	return New(KindRoot, base, index)
}

func NewOver(base, over Node) *Element   { return New(KindOver, base, over) }
func NewUnder(base, under Node) *Element { return New(KindUnder, base, under) }

func NewNone() *Element { return New(KindNone) }

// NewBreak returns an XHTML line break.
func NewBreak() *Element {
	e := New(KindBreak)
	e.SetAttr("xmlns", XHTMLNamespace)
	return e
}

func NewTableRow(cells ...Node) *Element { return New(KindTableRow, cells...) }
func NewTableCell(children ...Node) *Element {
	return New(KindTableCell, children...)
}
