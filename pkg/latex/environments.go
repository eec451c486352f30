package latex

import (
	"github.com/yaklabco/gomathml/pkg/latex/scanner"
	"github.com/yaklabco/gomathml/pkg/mathml"
)

func builtinEnvironments() map[string]EnvironmentFunc {
	return map[string]EnvironmentFunc{
		"array":  arrayEnvironment,
		"matrix": matrixEnvironment,
	}
}

type columnKind uint8

const (
	// columnCell holds one cell of each row, separated by &.
	columnCell columnKind = iota
	// columnRule is the empty column placed around outer or doubled rules.
	columnRule
	// columnInsert repeats fixed content in every row (@{...}).
	columnInsert
)

type column struct {
	kind    columnKind
	content mathml.Node
}

type layout struct {
	columns []column
	aligns  []mathml.Align
	vlines  []mathml.Line
	cells   int
}

func (l *layout) add(kind columnKind, align mathml.Align, content mathml.Node) {
	l.columns = append(l.columns, column{kind: kind, content: content})
	l.aligns = append(l.aligns, align)
	if kind == columnCell {
		l.cells++
	}
}

//nolint:gochecknoglobals // Read-only lookup table.
var columnAligns = map[string]mathml.Align{
	"l": mathml.AlignLeft,
	"c": mathml.AlignCenter,
	"r": mathml.AlignRight,
	"@": mathml.AlignCenter,
}

// parseLayout reads an array column specification such as {|l|c@{,}r}.
func (c *Context) parseLayout() (*layout, error) {
	spec, block, err := c.argument(KindSyntax)
	if err != nil {
		return nil, err
	}
	closer := ""
	if block {
		closer = "}"
	}

	ls := scanner.New(spec)
	syntaxError := func(at int) error {
		return &ParseError{Kind: KindSyntax, Rest: spec[at:] + closer}
	}

	l := &layout{}
	_, vlined := ls.Check(vlineRE)
	columned := false
	for !ls.EOS() {
		unit, _, err := ls.ScanAny(false)
		if err != nil {
			return nil, syntaxError(ls.Pos())
		}
		unitStart := ls.Pos() - len(unit)

		if unit == "|" {
			if vlined {
				l.add(columnRule, mathml.AlignCenter, nil)
			}
			l.vlines = append(l.vlines, mathml.LineSolid)
			vlined = true
			columned = false
			continue
		}

		align, ok := columnAligns[unit]
		if !ok {
			return nil, syntaxError(unitStart)
		}
		if columned {
			l.vlines = append(l.vlines, mathml.LineNone)
		}
		vlined = false
		columned = true

		if unit != "@" {
			l.add(columnCell, align, nil)
			continue
		}
		content, ok, err := ls.ScanAny(false)
		if err != nil || !ok {
			return nil, syntaxError(unitStart)
		}
		row := mathml.NewRow()
		if err := c.parseFrame(content, row, c.font, ls.Rest()+closer); err != nil {
			return nil, err
		}
		l.add(columnInsert, align, single(row))
	}
	if vlined {
		l.add(columnRule, mathml.AlignCenter, nil)
	}
	if len(l.columns) == 0 {
		return nil, syntaxError(0)
	}
	return l, nil
}

// arrayEnvironment parses \begin{array}{layout} rows \end{array}.
func arrayEnvironment(c *Context, _ string) (mathml.Node, error) {
	l, err := c.parseLayout()
	if err != nil {
		return nil, err
	}

	s := c.s
	table := mathml.NewTable()
	var hlines []mathml.Line
	hlined, rowParsed := false, false
	for s.PeekCommand() != "end" {
		if s.EOS() {
			return nil, newError(KindMatchingEndMissing)
		}
		if s.PeekCommand() == "hline" {
			s.ScanCommand()
			if !rowParsed {
				table.Append(mathml.NewTableRow())
			}
			hlines = append(hlines, mathml.LineSolid)
			rowParsed, hlined = false, true
			continue
		}

		if rowParsed {
			hlines = append(hlines, mathml.LineNone)
		}
		before := s.Pos()
		row, err := c.arrayRow(l)
		if err != nil {
			return nil, err
		}
		table.Append(row)
		if _, ok := s.Scan(rowSepRE); !ok && s.Pos() == before {
			// A layout without cell columns cannot consume anything else.
			return nil, newError(KindSyntax)
		}
		rowParsed, hlined = true, false
	}

	table.SetColumnAlign(l.aligns)
	table.SetColumnLines(l.vlines)
	table.SetRowLines(hlines)
	if hlined {
		row := mathml.NewTableRow()
		for range len(l.vlines) + 1 {
			row.Append(mathml.NewTableCell())
		}
		table.Append(row)
	}
	return table, nil
}

func (c *Context) arrayRow(l *layout) (*mathml.Element, error) {
	s := c.s
	tr := mathml.NewTableRow()
	seen := 0
	for _, col := range l.columns {
		switch col.kind {
		case columnRule:
			tr.Append(mathml.NewTableCell())
		case columnInsert:
			tr.Append(mathml.NewTableCell(mathml.Clone(col.content)))
		case columnCell:
			td := mathml.NewTableCell()
			if err := c.parseCell(td); err != nil {
				return nil, err
			}
			tr.Append(td)
			seen++
			if seen < l.cells {
				if _, ok := s.Scan(ampRE); !ok {
					return nil, newError(KindTooFewColumns)
				}
			}
		}
	}
	if _, ok := s.Check(ampRE); ok {
		return nil, newError(KindTooManyColumns)
	}
	return tr, nil
}

// parseCell parses elements into td until the cell ends.
func (c *Context) parseCell(td *mathml.Element) error {
	cell := c.share(td)
	for !c.atCellEnd() {
		nodes, err := cell.parseElement()
		if err != nil {
			return err
		}
		td.Append(nodes...)
	}
	return nil
}

func (c *Context) atCellEnd() bool {
	s := c.s
	if s.EOS() || s.PeekCommand() == "end" {
		return true
	}
	if _, ok := s.Check(ampRE); ok {
		return true
	}
	_, ok := s.Check(rowSepRE)
	return ok
}

// matrixEnvironment parses rows of &-separated cells with no layout.
func matrixEnvironment(c *Context, _ string) (mathml.Node, error) {
	s := c.s
	table := mathml.NewTable()
	var hlines []mathml.Line
	hlined, rowParsed := false, false
	for s.PeekCommand() != "end" {
		if s.EOS() {
			return nil, newError(KindMatchingEndMissing)
		}
		if s.PeekCommand() == "hline" {
			s.ScanCommand()
			if !rowParsed {
				table.Append(mathml.NewTableRow())
			}
			hlines = append(hlines, mathml.LineSolid)
			rowParsed, hlined = false, true
			continue
		}

		if rowParsed {
			hlines = append(hlines, mathml.LineNone)
		}
		tr := mathml.NewTableRow()
		for {
			td := mathml.NewTableCell()
			if err := c.parseCell(td); err != nil {
				return nil, err
			}
			tr.Append(td)
			if _, ok := s.Scan(ampRE); !ok {
				break
			}
		}
		table.Append(tr)
		s.Scan(rowSepRE)
		rowParsed, hlined = true, false
	}

	table.SetRowLines(hlines)
	if hlined {
		table.Append(mathml.NewTableRow())
	}
	return table, nil
}
