package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"github.com/bethropolis/rwalk/internal/config"
	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/logger"
	"github.com/bethropolis/rwalk/internal/printer"
	"github.com/bethropolis/rwalk/internal/setup"
	"github.com/bethropolis/rwalk/internal/summary"
	"github.com/bethropolis/rwalk/internal/walker"
)

// ErrLintFailed is returned by Lint when any file has error diagnostics.
var ErrLintFailed = errors.New("ignore files have errors")

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	Output io.Writer
	Errors io.Writer
	closer io.Closer
}

// New creates a new App writing results to stdout, or to cfg.OutputFile
// when set, and logs to stderr.
func New(cfg *config.Config, stdout, stderr io.Writer) (*App, error) {
	// Configure color globally
	color.NoColor = !cfg.UseColors

	log, err := logger.NewWithFormat(stderr, cfg.LogFormat, cfg.UseColors)
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.EffectiveLogLevel())

	a := &App{
		cfg:    cfg,
		log:    log,
		Output: stdout,
		Errors: stderr,
	}

	// Set up output destination
	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		a.Output = file
		a.closer = file
	}

	return a, nil
}

// Close releases the output file, if one was opened.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Run walks the configured root and prints every entry.
func (a *App) Run(ctx context.Context) error {
	startTime := time.Now() // Start timer for overall execution

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.log.Debug("Directory: %s", a.cfg.RootDir)
	a.log.Debug("Color output: %v", a.cfg.UseColors)

	var status io.Writer
	if !a.cfg.Quiet {
		status = a.Errors
	}
	opts, walkOptions, err := setup.ConfigureWalker(a.cfg, setup.WalkerConfig{
		Context: ctx,
		Logger:  a.log,
		Status:  status,
	})
	if err != nil {
		return err
	}

	// --- Create the printer ---
	p := printer.New().
		WithOutput(a.Output).
		WithFormat(a.cfg.Format).
		WithLong(a.cfg.Long).
		WithColors(a.cfg.Format == config.FormatPlain && a.cfg.ColorsFor(a.Output))

	// --- Start the directory walk ---
	a.log.Debug("Walking directory: %s", a.cfg.RootDir)
	w := walker.New(opts, walkOptions...)
	defer w.Close()

	for entry, err := range w.All() {
		if err != nil {
			a.clearProgress()
			return a.walkError(ctx, err)
		}
		if !a.wanted(entry) {
			continue
		}
		if err := p.PrintEntry(entry); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	a.clearProgress()

	// Finalize the printer (important for JSON output to close the array)
	if err := p.Finalize(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// --- Show results summary ---
	summary.DisplayResults(a.log, w.Stats(), p.GetCount(), time.Since(startTime), a.cfg.Quiet)

	// --- Show Skipped Items (if requested) ---
	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, w.Skipped(), a.Errors, a.cfg.Quiet)
	}
	return nil
}

// Check explains, for each path, whether the configured walk would yield it.
func (a *App) Check(paths []string) error {
	opts, err := setup.WalkOptions(a.cfg)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, path := range paths {
		e, err := walker.Explain(opts, path, walker.WithLogger(a.log))
		if err != nil {
			if errors.Is(err, walker.ErrConfig) || errors.Is(err, walker.ErrPatternCompile) {
				result = multierror.Append(result, err)
				continue
			}
			return err
		}
		summary.DisplayExplanation(a.Output, e)
	}
	return result.ErrorOrNil()
}

// Lint checks the given ignore files and prints their diagnostics.
func (a *App) Lint(files []string) error {
	var reports []*ignore.LintReport
	for _, file := range files {
		report, err := ignore.Lint(file, a.cfg.CaseInsensitive)
		if err != nil {
			return fmt.Errorf("lint %s: %w", file, err)
		}
		a.log.Debug("Linted %s: %d patterns, %d diagnostics", file, report.Patterns, len(report.Diagnostics))
		reports = append(reports, report)
	}

	if errs := summary.DisplayLint(a.Output, reports); errs > 0 {
		return fmt.Errorf("%w: %d errors", ErrLintFailed, errs)
	}
	return nil
}

// wanted applies the --type display filter. Filtered entries are still
// descended into.
func (a *App) wanted(e *walker.Entry) bool {
	switch a.cfg.Type {
	case "f":
		return e.Type == walker.TypeFile
	case "d":
		return e.IsDir()
	case "l":
		return e.Symlink
	default:
		return true
	}
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func (a *App) walkError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return fmt.Errorf("timeout of %v reached: %w", a.cfg.Timeout, err)
	}
	return fmt.Errorf("critical error during directory walk: %w", err)
}

// clearProgress ends the progress status line.
func (a *App) clearProgress() {
	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.Errors)
	}
}
