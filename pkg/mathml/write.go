package mathml

import (
	"io"
	"strings"
)

//nolint:gochecknoglobals // Read-only replacer.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five XML special characters with entity references.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Serialize renders a node as markup. Attribute values are single-quoted
// and elements without children are written as <name />.
func Serialize(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

// WriteTo writes the serialized node to w.
func WriteTo(w io.Writer, n Node) (int64, error) {
	written, err := io.WriteString(w, Serialize(n))
	return int64(written), err
}

func write(b *strings.Builder, n Node) {
	if n.Kind() == KindText {
		t, ok := n.(*Text)
		if !ok {
			return
		}
		if t.Raw {
			b.WriteString(t.Value)
		} else {
			escaper.WriteString(b, t.Value) //nolint:errcheck // strings.Builder never fails.
		}
		return
	}

	name := n.Name()
	b.WriteByte('<')
	b.WriteString(name)
	for _, attr := range n.Attrs() {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString("='")
		if attr.Raw {
			b.WriteString(attr.Value)
		} else {
			escaper.WriteString(b, attr.Value) //nolint:errcheck // strings.Builder never fails.
		}
		b.WriteByte('\'')
	}

	children := n.Children()
	if len(children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	for _, child := range children {
		write(b, child)
	}
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}
