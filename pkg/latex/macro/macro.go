// Package macro stores user-defined LaTeX commands and environments and
// expands them by positional substitution.
//
// Definitions are read from \newcommand and \newenvironment declarations:
//
//	\newcommand{\name}[arity][default]{body}
//	\newcommand\name\body
//	\newenvironment{name}[arity][default]{begin}{end}
//
// When a default is given, the optional argument is parameter #1 and the
// remaining arity-1 parameters are positional.
package macro

import (
	"errors"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/gomathml/pkg/latex/scanner"
)

// builtinScript defines the matrix variants that are plain wrappers around
// the matrix environment.
const builtinScript = `
\newenvironment{smallmatrix}{\begin{matrix}}{\end{matrix}}
\newenvironment{pmatrix}{\left(\begin{matrix}}{\end{matrix}\right)}
\newenvironment{bmatrix}{\left[\begin{matrix}}{\end{matrix}\right]}
\newenvironment{Bmatrix}{\left\{\begin{matrix}}{\end{matrix}\right\}}
\newenvironment{vmatrix}{\left|\begin{matrix}}{\end{matrix}\right|}
\newenvironment{Vmatrix}{\left\|\begin{matrix}}{\end{matrix}\right\|}
`

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	arityRE   = regexp.MustCompile(`^\d+`)
	envNameRE = regexp.MustCompile(`^[a-zA-Z]+(?:\s+[a-zA-Z]+)*`)
)

// Command is a macro defined with \newcommand.
type Command struct {
	Name  string
	Arity int
	// HasOption is set when the declaration gave a default for #1.
	HasOption bool
	Default   string
	Body      string
}

// Positional returns how many arguments follow the optional one.
func (c Command) Positional() int {
	if c.HasOption {
		return c.Arity - 1
	}
	return c.Arity
}

// Environment is a macro defined with \newenvironment.
type Environment struct {
	Name      string
	Arity     int
	HasOption bool
	Default   string
	Begin     string
	End       string
}

// Positional returns how many arguments follow the optional one.
func (e Environment) Positional() int {
	if e.HasOption {
		return e.Arity - 1
	}
	return e.Arity
}

// Table holds command and environment macros. A Table is not safe for
// concurrent mutation; use Clone to give each parser its own copy.
type Table struct {
	commands     map[string]Command
	environments map[string]Environment
}

// NewTable returns a table holding the built-in matrix environments.
func NewTable() *Table {
	t := Empty()
	if err := t.Parse(builtinScript); err != nil {
		panic("macro: built-in script: " + err.Error())
	}
	return t
}

// Empty returns a table with no definitions.
func Empty() *Table {
	return &Table{
		commands:     make(map[string]Command),
		environments: make(map[string]Environment),
	}
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return &Table{
		commands:     maps.Clone(t.commands),
		environments: maps.Clone(t.environments),
	}
}

// DefineCommand registers or replaces a command.
func (t *Table) DefineCommand(c Command) error {
	if err := checkParams(c.Body, c.Arity); err != nil {
		return err
	}
	t.commands[c.Name] = c
	return nil
}

// DefineEnvironment registers or replaces an environment.
func (t *Table) DefineEnvironment(e Environment) error {
	if err := checkParams(e.Begin, e.Arity); err != nil {
		return err
	}
	if err := checkParams(e.End, e.Arity); err != nil {
		return err
	}
	t.environments[e.Name] = e
	return nil
}

// Command returns the command registered under name.
func (t *Table) Command(name string) (Command, bool) {
	c, ok := t.commands[name]
	return c, ok
}

// Environment returns the environment registered under name.
func (t *Table) Environment(name string) (Environment, bool) {
	e, ok := t.environments[name]
	return e, ok
}

// Len returns the number of commands and environments.
func (t *Table) Len() (commands, environments int) {
	return len(t.commands), len(t.environments)
}

// ExpandCommand substitutes args into a command body, using the declared
// default for the optional argument. ok is false when name is undefined.
func (t *Table) ExpandCommand(name string, args []string) (string, bool, error) {
	c, ok := t.commands[name]
	if !ok {
		return "", false, nil
	}
	values, err := params(c.HasOption, c.Default, c.Arity, args)
	if err != nil {
		return "", true, err
	}
	out, err := substitute(c.Body, values)
	return out, true, err
}

// ExpandCommandWithOption is ExpandCommand with an explicit optional
// argument. The option is ignored when the command declares none.
func (t *Table) ExpandCommandWithOption(name string, args []string, option string) (string, bool, error) {
	c, ok := t.commands[name]
	if !ok {
		return "", false, nil
	}
	values, err := params(c.HasOption, option, c.Arity, args)
	if err != nil {
		return "", true, err
	}
	out, err := substitute(c.Body, values)
	return out, true, err
}

// ExpandEnvironment substitutes args into the begin and end templates and
// wraps body between them.
func (t *Table) ExpandEnvironment(name, body string, args []string) (string, bool, error) {
	e, ok := t.environments[name]
	if !ok {
		return "", false, nil
	}
	values, err := params(e.HasOption, e.Default, e.Arity, args)
	if err != nil {
		return "", true, err
	}
	out, err := e.expand(body, values)
	return out, true, err
}

// ExpandEnvironmentWithOption is ExpandEnvironment with an explicit
// optional argument.
func (t *Table) ExpandEnvironmentWithOption(name, body string, args []string, option string) (string, bool, error) {
	e, ok := t.environments[name]
	if !ok {
		return "", false, nil
	}
	values, err := params(e.HasOption, option, e.Arity, args)
	if err != nil {
		return "", true, err
	}
	out, err := e.expand(body, values)
	return out, true, err
}

func (e Environment) expand(body string, values []string) (string, error) {
	begin, err := substitute(e.Begin, values)
	if err != nil {
		return "", err
	}
	end, err := substitute(e.End, values)
	if err != nil {
		return "", err
	}
	return " " + begin + " " + body + " " + end + " ", nil
}

// params binds the optional and positional arguments to #1..#arity.
func params(hasOption bool, option string, arity int, args []string) ([]string, error) {
	values := args
	if hasOption {
		values = make([]string, 0, arity)
		values = append(values, option)
		values = append(values, args...)
	}
	if len(values) < arity {
		return nil, &Error{Kind: KindNeedMoreParameter}
	}
	return values, nil
}

// substitute replaces #1..#9 with values. A backslash-escaped # is kept.
func substitute(template string, values []string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && i+1 < len(template):
			b.WriteByte(c)
			b.WriteByte(template[i+1])
			i++
		case c == '#' && i+1 < len(template) && isParamDigit(template[i+1]):
			k := int(template[i+1] - '0')
			if k > len(values) {
				return "", &Error{Kind: KindNeedMoreParameter}
			}
			b.WriteString(values[k-1])
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// checkParams reports the first placeholder above arity. The error's Rest
// starts at the offending digit.
func checkParams(template string, arity int) error {
	for i := 0; i < len(template); i++ {
		switch {
		case template[i] == '\\':
			i++
		case template[i] == '#' && i+1 < len(template) && isParamDigit(template[i+1]):
			if int(template[i+1]-'0') > arity {
				return &Error{Kind: KindParameterTooLarge, Rest: template[i+1:]}
			}
			i++
		}
	}
	return nil
}

func isParamDigit(c byte) bool {
	return c >= '1' && c <= '9'
}

// Parse reads \newcommand and \newenvironment declarations from src and
// registers them. On failure nothing after the failing declaration is
// registered and the returned *Error splits src at the failure point.
func (t *Table) Parse(src string) error {
	s := scanner.New(src)
	for {
		s.ScanSpace()
		if s.EOS() {
			return nil
		}

		var err error
		switch s.PeekCommand() {
		case "newcommand":
			s.ScanCommand()
			err = t.parseNewCommand(s)
		case "newenvironment":
			s.ScanCommand()
			err = t.parseNewEnvironment(s)
		default:
			err = &Error{Kind: KindSyntax}
		}
		if err != nil {
			return finish(src, err, s)
		}
	}
}

// finish fills in Done and Rest. Errors raised inside a block or option
// already carry the inner rest and the closing delimiter; the outer rest
// is appended here.
func finish(src string, err error, s *scanner.Scanner) error {
	var merr *Error
	if !errors.As(err, &merr) {
		return err
	}
	merr.Rest += s.Rest()
	if len(merr.Rest) <= len(src) {
		merr.Done = src[:len(src)-len(merr.Rest)]
	}
	return merr
}

func scanError(err error) error {
	switch {
	case errors.Is(err, scanner.ErrBlockNotClosed):
		return &Error{Kind: KindBlockNotClosed}
	case errors.Is(err, scanner.ErrOptionNotClosed):
		return &Error{Kind: KindOptionNotClosed}
	default:
		return err
	}
}

func (t *Table) parseNewCommand(s *scanner.Scanner) error {
	name, err := scanCommandName(s)
	if err != nil {
		return err
	}
	arity, hasOption, def, err := scanArity(s)
	if err != nil {
		return err
	}

	body, closer, ok, err := scanArgument(s)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: KindNeedParameter}
	}
	if err := checkParams(body, arity); err != nil {
		return inBlock(err, closer)
	}

	return t.DefineCommand(Command{Name: name, Arity: arity, HasOption: hasOption, Default: def, Body: body})
}

func (t *Table) parseNewEnvironment(s *scanner.Scanner) error {
	name, err := scanEnvironmentName(s)
	if err != nil {
		return err
	}
	arity, hasOption, def, err := scanArity(s)
	if err != nil {
		return err
	}

	begin, closer, ok, err := scanArgument(s)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: KindNeedBeginBlock}
	}
	if err := checkParams(begin, arity); err != nil {
		return inBlock(err, closer)
	}

	end, closer, ok, err := scanArgument(s)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: KindNeedEndBlock}
	}
	if err := checkParams(end, arity); err != nil {
		return inBlock(err, closer)
	}

	return t.DefineEnvironment(Environment{
		Name: name, Arity: arity, HasOption: hasOption, Default: def,
		Begin: begin, End: end,
	})
}

// inBlock appends the closing delimiter of the block an error came from.
func inBlock(err error, closer string) error {
	var merr *Error
	if errors.As(err, &merr) {
		merr.Rest += closer
	}
	return err
}

// scanArgument reads a block's inner text or a single unit. closer is "}"
// for blocks so errors inside can rebuild the source.
func scanArgument(s *scanner.Scanner) (text, closer string, ok bool, err error) {
	_, ok, err = s.ScanBlock()
	if err != nil {
		return "", "", false, scanError(err)
	}
	if ok {
		return s.Group(1), "}", true, nil
	}
	unit, ok, err := s.ScanAny(false)
	if err != nil {
		return "", "", false, scanError(err)
	}
	return unit, "", ok, nil
}

func scanCommandName(s *scanner.Scanner) (string, error) {
	_, ok, err := s.ScanBlock()
	if err != nil {
		return "", scanError(err)
	}
	if !ok {
		if _, ok := s.ScanCommand(); !ok {
			return "", &Error{Kind: KindNeedNewCommand}
		}
		return s.Group(1), nil
	}

	inner := scanner.New(s.Group(1))
	if _, ok := inner.ScanCommand(); !ok {
		return "", &Error{Kind: KindNeedNewCommand, Rest: inner.Rest() + "}"}
	}
	name := inner.Group(1)
	if !inner.EOS() {
		return "", &Error{Kind: KindSyntax, Rest: inner.Rest() + "}"}
	}
	return name, nil
}

func scanEnvironmentName(s *scanner.Scanner) (string, error) {
	text, closer, ok, err := scanArgument(s)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &Error{Kind: KindSyntax}
	}
	inner := scanner.New(text)
	name, ok := inner.Scan(envNameRE)
	if !ok || !inner.EOS() {
		if closer == "" {
			s.SetPos(s.Pos() - len(text))
			return "", &Error{Kind: KindSyntax}
		}
		return "", &Error{Kind: KindSyntax, Rest: inner.Rest() + closer}
	}
	return name, nil
}

// scanArity reads the optional [n] and [default] that follow a name.
func scanArity(s *scanner.Scanner) (arity int, hasOption bool, def string, err error) {
	_, ok, err := s.ScanOption()
	if err != nil {
		return 0, false, "", scanError(err)
	}
	if !ok {
		return 0, false, "", nil
	}

	inner := scanner.New(s.Group(1))
	digits, ok := inner.Scan(arityRE)
	if !ok || !inner.EOS() {
		return 0, false, "", &Error{Kind: KindNeedPositiveNumber, Rest: inner.Rest() + "]"}
	}
	arity, convErr := strconv.Atoi(digits)
	if convErr != nil {
		inner.Reset()
		return 0, false, "", &Error{Kind: KindNeedPositiveNumber, Rest: inner.Rest() + "]"}
	}

	_, ok, err = s.ScanOption()
	if err != nil {
		return 0, false, "", scanError(err)
	}
	if ok {
		return arity, true, s.Group(1), nil
	}
	return arity, false, "", nil
}
