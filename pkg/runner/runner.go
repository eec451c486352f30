package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/config"
	"github.com/yaklabco/gomathml/pkg/document"
	"github.com/yaklabco/gomathml/pkg/fsutil"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/markdown"
)

// ParserFactory builds an independent parser. The runner calls it once
// per worker.
type ParserFactory func() (*latex.Parser, error)

// Runner renders documents with one parser per worker.
type Runner struct {
	// NewParser builds the parser of each worker.
	NewParser ParserFactory
}

// New creates a Runner. A nil factory builds parsers from each run's
// configuration.
func New(factory ParserFactory) *Runner {
	return &Runner{NewParser: factory}
}

// Run discovers files under opts.Paths and renders them concurrently.
// Outcomes are ordered by path. Parse errors inside documents are
// recorded on the outcomes and do not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	cfg := opts.effectiveConfig()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("files discovered", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	jobs = min(jobs, len(files))

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	// Parsers are built up front so that configuration errors fail the
	// run before any file is touched.
	workers := make([]*worker, jobs)
	for i := range workers {
		w, err := r.newWorker(cfg, opts, workDir)
		if err != nil {
			return nil, err
		}
		workers[i] = w
	}
	logger.Debug("starting workers", logging.FieldJobs, jobs)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers complete out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	logger.Debug("run complete",
		logging.FieldFilesConverted, result.Stats.FilesProcessed,
		logging.FieldFilesWithErrors, result.Stats.FilesWithParseErrors,
		logging.FieldMathTotal, result.Stats.MathTotal)

	return result, nil
}

// worker owns the parser and renderers of one goroutine.
type worker struct {
	opts     Options
	workDir  string
	markdown *markdown.Renderer
	html     *document.Converter
	text     *document.Converter
}

func (r *Runner) newWorker(cfg *config.Config, opts Options, workDir string) (*worker, error) {
	factory := r.NewParser
	if factory == nil {
		factory = cfg.NewParser
	}
	p, err := factory()
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}

	return &worker{
		opts:    opts,
		workDir: workDir,
		markdown: markdown.NewRenderer(markdown.RendererOptions{
			Extension: markdown.ExtensionOptions{
				Parser:          p,
				FencedLanguages: cfg.Markdown.FencedLanguages,
				DetectTeX:       cfg.Markdown.DetectTeX,
			},
			GFM:    true,
			Unsafe: true,
		}),
		html: document.NewConverter(p, document.Options{}),
		text: document.NewConverter(p, document.Options{EscapeText: true}),
	}, nil
}

// run processes files from workCh and sends outcomes to outCh.
func (w *worker) run(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := w.process(ctx, path)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// process renders one file.
func (w *worker) process(ctx context.Context, path string) FileOutcome {
	logger := logging.ForFile(ctx, path)
	outcome := FileOutcome{Path: path, Format: DetectFormat(path)}

	content, mode, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	rendered, err := w.render(ctx, &outcome, content)
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}

	outcome.Output = OutputPath(path, w.workDir, w.opts.OutputDir)
	if w.opts.DryRun {
		outcome.Content = rendered
		return outcome
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.Output, rendered, mode)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Written = written

	logger.Debug("file rendered",
		logging.FieldOutput, outcome.Output,
		logging.FieldMathTotal, outcome.Math,
		logging.FieldErrorsTotal, len(outcome.ParseErrors))

	return outcome
}

func (w *worker) render(ctx context.Context, outcome *FileOutcome, content []byte) ([]byte, error) {
	if outcome.Format == FormatMarkdown {
		res, err := w.markdown.Convert(ctx, content)
		if err != nil {
			return nil, err
		}
		outcome.Math = res.Math
		outcome.ParseErrors = res.Errors
		return res.HTML, nil
	}

	conv := w.text
	if outcome.Format == FormatHTML {
		conv = w.html
	}
	out, spans, err := conv.Convert(ctx, string(content))
	if err != nil {
		var perr *latex.ParseError
		if errors.As(err, &perr) {
			outcome.ParseErrors = append(outcome.ParseErrors, perr)
		}
		return nil, err
	}
	for _, span := range spans {
		if !span.IsMath() {
			continue
		}
		outcome.Math++
		if span.Err != nil {
			outcome.ParseErrors = append(outcome.ParseErrors, span.Err)
		}
	}
	return []byte(out), nil
}
