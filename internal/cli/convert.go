package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/config"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/mathml"
	"github.com/yaklabco/gomathml/pkg/reporter"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// errNoInput is returned when convert has neither an argument nor piped input.
var errNoInput = errors.New("no formula given: pass one as an argument or pipe it on standard input")

const (
	labelArgument = "<argument>"
	labelStdin    = "<stdin>"
)

type convertFlags struct {
	display   bool
	inline    bool
	encoding  string
	format    string
	compact   bool
	noContext bool

	unsecureEntity bool
	maxDepth       int
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [latex]",
		Short: "Convert one LaTeX formula to MathML",
		Long:    convertLongDescription,
		Example: convertExamples,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.display, "display", "d", false, "render as block math")
	cmd.Flags().BoolVar(&flags.inline, "inline", false, "render as inline math even if the configuration asks for block")
	cmd.Flags().StringVar(&flags.encoding, "encoding", "", "symbol encoding: entity, character, utf8")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide the source context of parse errors")
	cmd.Flags().BoolVar(&flags.unsecureEntity, "unsecure-entity", false, "let \\entity emit names outside the entities list")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum element nesting (0 = parser default)")
	cmd.MarkFlagsMutuallyExclusive("display", "inline")

	setFlagGroup(cmd, groupLaTeX, "display", "inline", "encoding", "unsecure-entity", "max-depth")
	setFlagGroup(cmd, groupOutput, "format", "compact", "no-context")

	return cmd
}

const convertLongDescription = `Convert a single LaTeX formula to a MathML <math> element.

The formula is taken from the argument, or read from standard input when no
argument is given. Parse errors are printed with the part that was read
successfully and the part where parsing stopped.`

const convertExamples = `  gomathml convert 'x^2 + y^2 = z^2'
  gomathml convert --display '\sum_{i=1}^n i'
  echo '\frac{a}{b}' | gomathml convert
  gomathml convert --format json '\alpha'`

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	ctx := commandContext(cmd)

	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}
	if flags.encoding != "" {
		if _, err := symbol.ParseEncoding(flags.encoding); err != nil {
			return withExitCode(ExitInvalidUsage, err)
		}
	}

	if flags.maxDepth < 0 {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid max-depth %d: must be >= 0", flags.maxDepth))
	}

	src, label, err := readFormula(cmd, args)
	if err != nil {
		return err
	}

	cliCfg := &config.Config{
		Encoding:       flags.encoding,
		Display:        flags.display,
		UnsecureEntity: flags.unsecureEntity,
		MaxDepth:       flags.maxDepth,
	}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	display := cfg.Display && !flags.inline

	parser, err := cfg.NewParser()
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("build parser: %w", err))
	}

	logging.ForFormula(ctx, label, display).Debug("converting formula",
		logging.FieldEncoding, cfg.Encoding)

	conv := reporter.Conversion{Label: label, Source: src, Display: display}
	math, err := parser.ParseContext(ctx, src, display)
	if err != nil {
		var perr *latex.ParseError
		if !errors.As(err, &perr) {
			return fmt.Errorf("convert: %w", err)
		}
		conv.Err = perr
	} else {
		conv.Output = mathml.Serialize(math)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if err := rep.ReportConversion(ctx, conv); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report conversion: %w", err))
	}

	if conv.Err != nil {
		return ErrParseErrors
	}
	return nil
}

// readFormula returns the formula to convert and a label naming its source.
// Standard input is only read when it is not an interactive terminal.
func readFormula(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 1 {
		return args[0], labelArgument, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", "", withExitCode(ExitInvalidUsage, errNoInput)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", withExitCode(ExitIOError, fmt.Errorf("read standard input: %w", err))
	}
	src := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(src) == "" {
		return "", "", withExitCode(ExitInvalidUsage, errNoInput)
	}
	return src, labelStdin, nil
}
