package mathml

import "slices"

// Clone returns a deep copy of n. Attribute lists and children are not
// shared with the original.
func Clone(n Node) Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *Text:
		c := *v
		return &c
	case *SubSup:
		return &SubSup{
			Element: v.Element.clone(),
			body:    Clone(v.body),
			sub:     Clone(v.sub),
			sup:     Clone(v.sup),
		}
	case *Fenced:
		return &Fenced{Element: v.Element.clone()}
	case *Table:
		return &Table{Element: v.Element.clone()}
	case *Element:
		c := v.clone()
		return &c
	default:
		return n
	}
}

func (e *Element) clone() Element {
	c := Element{
		kind:    e.kind,
		attrs:   slices.Clone(e.attrs),
		display: e.display,
	}
	if len(e.children) > 0 {
		c.children = make([]Node, 0, len(e.children))
		for _, child := range e.children {
			c.children = append(c.children, Clone(child))
		}
	}
	return c
}
