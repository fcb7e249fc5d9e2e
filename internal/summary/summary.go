// Package summary handles display of walk results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/walker"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...any)
}

// DisplayResults shows the end results of a walk
func DisplayResults(
	logger Logger,
	stats walker.Stats,
	printed int64,
	duration time.Duration,
	quiet bool,
) {
	if quiet {
		return
	}
	logger.Info("Printed %d entries (%d files, %d directories yielded).", printed, stats.YieldedFiles, stats.YieldedDirs)
	logger.Info("Saw %d files and %d directories, skipped %d, %d errors.",
		stats.TotalFiles, stats.TotalDirs, stats.SkippedFiles+stats.SkippedDirs, stats.Errors)
	logger.Info("Walk complete in %v.", duration.Round(time.Millisecond))
}

// DisplaySkippedItems prints a table of skipped items and reasons to output
func DisplaySkippedItems(
	logger Logger,
	skippedItems []walker.SkippedItem,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...any) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	if len(skippedItems) == 0 {
		infoLog("No items were skipped.")
		return
	}

	infoLog("Skipped %d items.", len(skippedItems))

	// Sort for consistent output
	items := append([]walker.SkippedItem(nil), skippedItems...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})

	table := tablewriter.NewWriter(output)
	table.SetHeader([]string{"Type", "Path", "Reason"})
	table.SetAutoWrapText(false)
	for _, item := range items {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR"
		}
		table.Append([]string{typeStr, item.Path, string(item.Reason)})
	}
	table.Render()
}

// DisplayLint prints the diagnostics of each report as a table. It returns
// the number of error diagnostics.
func DisplayLint(output io.Writer, reports []*ignore.LintReport) int {
	errs := 0
	table := tablewriter.NewWriter(output)
	table.SetHeader([]string{"File", "Line", "Severity", "Message"})
	table.SetAutoWrapText(false)

	rows := 0
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			if d.Severity == ignore.SeverityError {
				errs++
			}
			line := strconv.Itoa(d.Line)
			if d.Column > 0 {
				line += ":" + strconv.Itoa(d.Column)
			}
			table.Append([]string{d.File, line, string(d.Severity), d.Message})
			rows++
		}
	}

	if rows > 0 {
		table.Render()
	}
	for _, r := range reports {
		fmt.Fprintf(output, "%s: %d patterns, %d diagnostics\n", r.File, r.Patterns, len(r.Diagnostics))
	}
	return errs
}

// DisplayExplanation prints one line per checked path:
//
//	path: ignored (reason) [source:line:pattern]
//	path: included [source:line:pattern]
func DisplayExplanation(output io.Writer, e walker.Explanation) {
	status := "included"
	if e.Ignored {
		status = fmt.Sprintf("ignored (%s)", e.Reason)
		if e.Ancestor != "" {
			status += " via parent " + e.Ancestor
		}
	}

	if p := e.Match.Pattern; p != nil {
		status += " [" + p.String() + "]"
	}
	fmt.Fprintf(output, "%s: %s\n", e.Path, status)
}
