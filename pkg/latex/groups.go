package latex

import (
	"slices"

	"github.com/yaklabco/gomathml/pkg/latex/macro"
	"github.com/yaklabco/gomathml/pkg/mathml"
)

// beginGroup handles \begin{name}: macro environments first, then the
// registered environment handlers.
func beginGroup(c *Context, _ string) ([]mathml.Node, error) {
	s := c.s
	start := s.Pos() - len(s.Matched())

	name, ok, err := c.environmentName()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(KindEnvironmentNameMissing)
	}
	nameStart := s.Pos() - len(s.Matched())

	p := c.sess.parser
	if env, ok := p.macros.Environment(name); ok {
		return c.expandEnvironment(env, start)
	}

	fn, ok := p.environments[name]
	if !ok {
		s.SetPos(nameStart)
		return nil, newError(KindUndefinedEnvironment)
	}
	node, err := fn(c, name)
	if err != nil {
		return nil, err
	}
	if _, ok := s.ScanCommand(); !ok || s.Group(1) != "end" {
		return nil, newError(KindMatchingEndMissing)
	}
	if err := c.matchEnd(name); err != nil {
		return nil, err
	}
	return one(node), nil
}

// environmentName scans the name following \begin or \end.
func (c *Context) environmentName() (string, bool, error) {
	s := c.s
	_, ok, err := s.ScanBlock()
	if err != nil {
		return "", false, err
	}
	if ok {
		return s.Group(1), true, nil
	}
	unit, ok, err := s.ScanAny(false)
	return unit, ok, err
}

// matchEnd checks the name after a consumed \end.
func (c *Context) matchEnd(name string) error {
	s := c.s
	pos := s.Pos()
	got, ok, err := c.environmentName()
	if err != nil {
		return err
	}
	if !ok || got != name {
		if ok {
			pos = s.Pos() - len(s.Matched())
		}
		s.SetPos(pos)
		return newError(KindEnvironmentMismatch)
	}
	return nil
}

// fencedGroup handles \left ... \right and \bigg ... \bigg.
func fencedGroup(c *Context, name string) ([]mathml.Node, error) {
	closing := "right"
	if name == "bigg" {
		closing = name
	}

	s := c.s
	afterCommand := s.Pos()
	open, raw, err := c.delimiter()
	if err != nil {
		return nil, err
	}
	fenced := mathml.NewFenced()
	fenced.SetOpen(open, raw)

	row := mathml.NewRow()
	inner := c.share(row)
	for s.PeekCommand() != closing {
		if s.EOS() {
			s.SetPos(afterCommand)
			return nil, newError(KindBraceNotClosed)
		}
		nodes, err := inner.parseElement()
		if err != nil {
			return nil, err
		}
		row.Append(nodes...)
	}
	s.ScanCommand()

	closeText, raw, err := c.delimiter()
	if err != nil {
		return nil, err
	}
	fenced.SetClose(closeText, raw)
	fenced.Append(row)
	return one(fenced), nil
}

// delimiter scans the brace after \left, \right or \bigg.
func (c *Context) delimiter() (string, bool, error) {
	s := c.s
	pos := s.Pos()
	unit, ok, err := s.ScanAny(false)
	if err != nil {
		return "", false, err
	}
	if ok && bracesRE.MatchString(unit) {
		return unit, false, nil
	}
	if ok && len(unit) > 1 && unit[0] == '\\' {
		p := c.sess.parser
		name := unit[1:]
		if entry, found := p.symbols.Lookup(name); found && p.symbols.IsDelimiter(name) {
			text, raw := p.symbols.Render(entry.Payload, p.encoding)
			return text, raw, nil
		}
	}
	s.SetPos(pos)
	return "", false, newError(KindNeedBrace)
}

// expandCommand substitutes a macro command and parses the result in place
// of the command.
func (c *Context) expandCommand(cmd macro.Command, start int) ([]mathml.Node, error) {
	sess := c.sess
	circular := slices.Contains(sess.commands, cmd.Name)
	sess.commands = append(sess.commands, cmd.Name)
	defer func() { sess.commands = sess.commands[:len(sess.commands)-1] }()
	outermost := sess.expansionDepth() == 1

	nodes, err := c.expandCommandBody(cmd, circular)
	if err != nil {
		return nil, c.macroError(err, start, outermost)
	}
	return nodes, nil
}

func (c *Context) expandCommandBody(cmd macro.Command, circular bool) ([]mathml.Node, error) {
	if circular {
		return nil, newError(KindCircularReference)
	}
	if err := c.sess.ctx.Err(); err != nil {
		return nil, err
	}

	option, hasOption, err := c.macroOption(cmd.HasOption)
	if err != nil {
		return nil, err
	}
	args, err := c.macroArguments(cmd.Positional())
	if err != nil {
		return nil, err
	}

	p := c.sess.parser
	var text string
	if hasOption {
		text, _, err = p.macros.ExpandCommandWithOption(cmd.Name, args, option)
	} else {
		text, _, err = p.macros.ExpandCommand(cmd.Name, args)
	}
	if err != nil {
		return nil, err
	}
	return c.parseExpansion(text)
}

// expandEnvironment substitutes a macro environment. Argument and body
// errors are reported as they are; errors in the expansion are wrapped.
func (c *Context) expandEnvironment(env macro.Environment, start int) ([]mathml.Node, error) {
	s := c.s
	afterName := s.Pos()

	option, hasOption, err := c.macroOption(env.HasOption)
	if err != nil {
		return nil, err
	}
	args, err := c.macroArguments(env.Positional())
	if err != nil {
		return nil, err
	}
	body, err := c.environmentBody(afterName)
	if err != nil {
		return nil, err
	}
	if err := c.matchEnd(env.Name); err != nil {
		return nil, err
	}

	sess := c.sess
	circular := slices.Contains(sess.environments, env.Name)
	sess.environments = append(sess.environments, env.Name)
	defer func() { sess.environments = sess.environments[:len(sess.environments)-1] }()
	outermost := sess.expansionDepth() == 1

	nodes, err := c.expandEnvironmentBody(env, body, args, option, hasOption, circular)
	if err != nil {
		return nil, c.macroError(err, start, outermost)
	}
	return nodes, nil
}

func (c *Context) expandEnvironmentBody(
	env macro.Environment, body string, args []string, option string, hasOption, circular bool,
) ([]mathml.Node, error) {
	if circular {
		return nil, newError(KindCircularReference)
	}
	if err := c.sess.ctx.Err(); err != nil {
		return nil, err
	}

	p := c.sess.parser
	var (
		text string
		err  error
	)
	if hasOption {
		text, _, err = p.macros.ExpandEnvironmentWithOption(env.Name, body, args, option)
	} else {
		text, _, err = p.macros.ExpandEnvironment(env.Name, body, args)
	}
	if err != nil {
		return nil, err
	}
	return c.parseExpansion(text)
}

func (c *Context) parseExpansion(text string) ([]mathml.Node, error) {
	row := mathml.NewRow()
	if err := c.parseFrame(text, row, c.font, ""); err != nil {
		return nil, err
	}
	return row.Children(), nil
}

// macroOption scans an optional [..] argument when the macro takes one.
func (c *Context) macroOption(accepts bool) (string, bool, error) {
	if !accepts {
		return "", false, nil
	}
	_, ok, err := c.s.ScanOption()
	if err != nil || !ok {
		return "", false, err
	}
	return c.s.Group(1), true, nil
}

func (c *Context) macroArguments(n int) ([]string, error) {
	args := make([]string, 0, n)
	for range n {
		arg, _, err := c.argument(KindNeedMoreParameters)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// environmentBody scans raw source up to the \end that closes the
// environment, counting nested \begin and \end pairs. The cursor is left
// after that \end.
func (c *Context) environmentBody(afterName int) (string, error) {
	s := c.s
	bodyStart := s.Pos()
	depth := 0
	for {
		before := s.Pos()
		unit, ok, err := s.ScanAny(false)
		if err != nil || !ok {
			s.SetPos(afterName)
			return "", newError(KindMatchingEndMissing)
		}
		switch unit {
		case `\begin`:
			depth++
		case `\end`:
			if depth == 0 {
				return s.String()[bodyStart:before], nil
			}
			depth--
		}
	}
}

// macroError finishes an error leaving a macro expansion. Only the
// outermost expansion reports it, rewinding to the macro's start so the
// failure points at the text the user wrote.
func (c *Context) macroError(err error, start int, outermost bool) error {
	perr, ok := asParseError(err)
	if !ok || !outermost {
		return err
	}
	c.s.SetPos(start)
	if perr.Kind == KindCircularReference {
		return newError(KindCircularReference)
	}
	return macroFailure(perr)
}
