package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/config"
	"github.com/yaklabco/gomathml/pkg/reporter"
	"github.com/yaklabco/gomathml/pkg/runner"
)

type renderFlags struct {
	format         string
	ignore         []string
	include        []string
	extensions     []string
	followSymlinks bool
	dryRun         bool
	noContext      bool
	compact        bool
	showWritten    bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render the math in documents to MathML",
		Long:    renderLongDescription,
		Example: renderExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	addRenderFlags(cmd, &cfg, flags)

	return cmd
}

const renderLongDescription = `Render the math spans of Markdown, HTML and plain-text documents.

By default, renders every .md, .markdown, .txt and .tex file in the current
directory and its subdirectories. Each document is written next to its
input with an .html extension; HTML inputs are written as .mathml.html.
Outputs are only rewritten when their content changes.

Math spans are $...$, $$...$$, \(...\) and \[...\]. In Markdown, fenced
blocks labelled math, latex or tex are rendered as display math.`

const renderExamples = `  gomathml render                       # Render current directory
  gomathml render docs/                 # Render docs directory
  gomathml render notes.md --stdout     # Print the rendered document
  gomathml render --output-dir site     # Mirror outputs under site/
  gomathml render --dry-run --format json`

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if _, err := reporter.ParseFormat(flags.format); err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	// Only set values that were explicitly provided via CLI flags.
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	cfg.Ignore = flags.ignore
	cfg.Extensions = flags.extensions

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	logger.Debug("configuration loaded",
		logging.FieldEncoding, finalCfg.Encoding,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldOutput, finalCfg.OutputDir,
	)

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     finalCfg.Extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           finalCfg.Jobs,
		OutputDir:      finalCfg.OutputDir,
		DryRun:         flags.dryRun || finalCfg.Stdout,
		Config:         finalCfg,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	// A parser built up front reports configuration mistakes before
	// discovery starts.
	if _, err := finalCfg.NewParser(); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("build parser: %w", err))
	}

	result, err := runner.New(finalCfg.NewParser).Run(ctx, runOpts)
	if err != nil {
		return withExitCode(ExitIOError, errors.Join(errors.New("render run failed"), err))
	}

	// With --stdout the report moves to stderr so that stdout carries only
	// the rendered documents.
	reportWriter := cmd.OutOrStdout()
	if finalCfg.Stdout {
		reportWriter = cmd.ErrOrStderr()
		if err := writeContents(cmd.OutOrStdout(), result); err != nil {
			return withExitCode(ExitIOError, err)
		}
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      reportWriter,
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		ShowWritten: flags.showWritten,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	switch ExitCodeFromResult(result) {
	case ExitIOError:
		return withExitCode(ExitIOError, errors.New("some files could not be rendered"))
	case ExitParseErrors:
		return ErrParseErrors
	default:
		return nil
	}
}

// writeContents prints the rendered documents of a dry run in path order.
func writeContents(w io.Writer, result *runner.Result) error {
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			continue
		}
		if _, err := w.Write(outcome.Content); err != nil {
			return fmt.Errorf("write %s: %w", outcome.Output, err)
		}
	}
	return nil
}

func addRenderFlags(cmd *cobra.Command, cfg *config.Config, flags *renderFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "", "directory receiving the rendered files")
	cmd.Flags().BoolVar(&cfg.Stdout, "stdout", false, "print rendered documents instead of writing files")
	cmd.Flags().StringVar(&cfg.Encoding, "encoding", "", "symbol encoding: entity, character, utf8")
	cmd.Flags().BoolVar(&cfg.UnsecureEntity, "unsecure-entity", false, "let \\entity emit names outside the entities list")
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", 0, "maximum element nesting of a formula (0 = parser default)")
	cmd.Flags().BoolVar(&cfg.Markdown.DetectTeX, "detect-tex", false,
		"render unlabelled fenced blocks that look like TeX as display math")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only render files matching these glob patterns")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to render (default .md,.markdown,.txt,.tex)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render without writing files")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide the source context of parse errors")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
	cmd.Flags().BoolVar(&flags.showWritten, "show-written", false, "list every output file written")

	setFlagGroup(cmd, groupLaTeX, "encoding", "unsecure-entity", "max-depth", "detect-tex")
	setFlagGroup(cmd, groupInput, "ignore", "include", "ext", "follow-symlinks")
	setFlagGroup(cmd, groupOutput, "format", "output-dir", "stdout", "dry-run",
		"no-context", "compact", "show-written")
}
