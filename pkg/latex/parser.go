package latex

import (
	"context"
	"maps"
	"regexp"
	"slices"

	"github.com/yaklabco/gomathml/pkg/latex/macro"
	"github.com/yaklabco/gomathml/pkg/latex/scanner"
	"github.com/yaklabco/gomathml/pkg/mathml"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// DefaultMaxDepth bounds element nesting when Options.MaxDepth is zero.
// It admits a few hundred levels of braces; constructs that parse their
// arguments as nested elements use more than one level per source level.
const DefaultMaxDepth = 512

// Options configures a Parser.
type Options struct {
	// Encoding selects how symbols are written.
	Encoding symbol.Encoding
	// Symbols defaults to symbol.Default().
	Symbols *symbol.Table
	// Macros defaults to a fresh macro.NewTable().
	Macros *macro.Table
	// UnsecureEntity lets \entity emit any name, not only registered ones.
	UnsecureEntity bool
	// MaxDepth limits nested elements. Zero means DefaultMaxDepth.
	//
	// The limit counts element frames on the parser's stack, not source
	// nesting: every element parsed inside a group or an argument adds one
	// frame, so {{a}} takes three and each \frac level takes about two.
	MaxDepth int
}

// CommandFunc handles a command after its name was consumed. The returned
// nodes are appended to the current container in order.
type CommandFunc func(c *Context, name string) ([]mathml.Node, error)

// EnvironmentFunc handles the body of \begin{name}. It must stop in front
// of the closing \end, which the caller consumes and checks.
type EnvironmentFunc func(c *Context, name string) (mathml.Node, error)

// Parser turns LaTeX math into MathML trees.
//
// A Parser may be used by several goroutines at once as long as none of
// them changes it; Macro, AddEntity, AddCommand, AddEnvironment and
// SetUnsecureEntity are configuration calls.
type Parser struct {
	symbols        *symbol.Table
	encoding       symbol.Encoding
	macros         *macro.Table
	entities       map[string]struct{}
	unsecureEntity bool
	maxDepth       int
	commands       map[string]CommandFunc
	environments   map[string]EnvironmentFunc
}

// NewParser returns a parser with the built-in commands and environments.
func NewParser(opts Options) *Parser {
	p := &Parser{
		symbols:        opts.Symbols,
		encoding:       opts.Encoding,
		macros:         opts.Macros,
		entities:       make(map[string]struct{}),
		unsecureEntity: opts.UnsecureEntity,
		maxDepth:       opts.MaxDepth,
		commands:       builtinCommands(),
		environments:   builtinEnvironments(),
	}
	if p.symbols == nil {
		p.symbols = symbol.Default()
	}
	if p.macros == nil {
		p.macros = macro.NewTable()
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	return p
}

// Macro returns the parser's macro table. Declarations parsed into it are
// visible to later parses.
func (p *Parser) Macro() *macro.Table {
	return p.macros
}

// Symbols returns the symbol table in use.
func (p *Parser) Symbols() *symbol.Table {
	return p.symbols
}

// Encoding returns the output encoding.
func (p *Parser) Encoding() symbol.Encoding {
	return p.encoding
}

// AddEntity whitelists entity names for \entity.
func (p *Parser) AddEntity(names ...string) {
	for _, name := range names {
		p.entities[name] = struct{}{}
	}
}

// Entities returns the whitelisted entity names in sorted order.
func (p *Parser) Entities() []string {
	return slices.Sorted(maps.Keys(p.entities))
}

// SetUnsecureEntity toggles the \entity whitelist.
func (p *Parser) SetUnsecureEntity(v bool) {
	p.unsecureEntity = v
}

// AddCommand registers or replaces a command handler. Macros of the same
// name still take precedence.
func (p *Parser) AddCommand(name string, fn CommandFunc) {
	p.commands[name] = fn
}

// AddEnvironment registers or replaces an environment handler.
func (p *Parser) AddEnvironment(name string, fn EnvironmentFunc) {
	p.environments[name] = fn
}

// Parse converts src into a <math> element. display selects block
// rendering, which also turns the limits of large operators into under and
// over scripts.
func (p *Parser) Parse(src string, display bool) (*mathml.Element, error) {
	return p.ParseContext(context.Background(), src, display)
}

// ParseContext is Parse with cancellation, checked between top level
// elements and before each macro expansion.
func (p *Parser) ParseContext(ctx context.Context, src string, display bool) (*mathml.Element, error) {
	math := mathml.NewMath(display)
	c := &Context{
		sess:      &session{parser: p, ctx: ctx, display: display},
		s:         scanner.New(src),
		container: math,
	}

	for !c.s.EOS() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nodes, err := c.parseElement()
		if err != nil {
			return nil, finish(src, c.own(err, ""))
		}
		math.Append(nodes...)
	}
	return math, nil
}

// finish fills in Done once Rest holds the unconsumed tail of src.
func finish(src string, err error) error {
	perr, ok := err.(*ParseError) //nolint:errorlint // own always returns the bare pointer.
	if !ok {
		return err
	}
	if len(perr.Rest) <= len(src) {
		perr.Done = src[:len(src)-len(perr.Rest)]
	}
	return perr
}

// session is the state shared by every frame of one parse.
type session struct {
	parser       *Parser
	ctx          context.Context //nolint:containedctx // Scoped to a single parse.
	display      bool
	depth        int
	commands     []string
	environments []string
}

func (s *session) expansionDepth() int {
	return len(s.commands) + len(s.environments)
}

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	numberRE   = regexp.MustCompile(`^(?:\.\d+|\d+(?:\.\d+)?)`)
	letterRE   = regexp.MustCompile(`^[a-zA-Z]`)
	operatorRE = regexp.MustCompile(`^[,.+\-*=/()\[\]<>"|;:!]`)
	subRE      = regexp.MustCompile(`^_`)
	supRE      = regexp.MustCompile(`^(?:'+|\^)`)
	caretRE    = regexp.MustCompile(`^\^`)
	tildeRE    = regexp.MustCompile(`^~`)
	ampRE      = regexp.MustCompile(`^&`)
	vlineRE    = regexp.MustCompile(`^\|`)
	rowSepRE   = regexp.MustCompile(`^\\\\`)
	bracesRE   = regexp.MustCompile(`^[.|\[\]()<>]$`)
)
