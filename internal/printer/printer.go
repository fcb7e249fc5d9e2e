// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/docker/go-units"
	"github.com/fatih/color"

	"github.com/bethropolis/rwalk/internal/walker"
)

// Printer writes walk entries to the configured output destination
type Printer struct {
	output         io.Writer
	count          atomic.Int64
	useColors      bool
	long           bool
	jsonOutput     bool
	jsonStarted    bool
	markdownOutput bool
	dirColor       *color.Color
	linkColor      *color.Color
}

// New creates a new Printer with default settings
func New() *Printer {
	p := &Printer{
		output:    os.Stdout,
		dirColor:  color.New(color.FgBlue, color.Bold),
		linkColor: color.New(color.FgCyan),
	}
	return p.WithColors(true)
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	for _, c := range []*color.Color{p.dirColor, p.linkColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// WithLong adds type and size columns to plain output, and sizes to JSON
func (p *Printer) WithLong(enabled bool) *Printer {
	p.long = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// WithMarkdown enables Markdown output mode
func (p *Printer) WithMarkdown(enabled bool) *Printer {
	p.markdownOutput = enabled
	return p
}

// WithFormat selects plain, json or markdown output by name
func (p *Printer) WithFormat(format string) *Printer {
	return p.WithJSON(format == "json").WithMarkdown(format == "markdown")
}

// JSONEntry represents an entry in JSON output
type JSONEntry struct {
	Path    string `json:"path"`
	RelPath string `json:"rel_path"`
	Type    string `json:"type"`
	Depth   int    `json:"depth"`
	Symlink bool   `json:"symlink,omitempty"`
	Size    *int64 `json:"size,omitempty"`
}

// PrintEntry writes one entry in the selected format
func (p *Printer) PrintEntry(e *walker.Entry) error {
	// Increment the entry counter
	p.count.Add(1)

	switch {
	case p.jsonOutput:
		return p.printJSON(e)
	case p.markdownOutput:
		return p.printMarkdown(e)
	default:
		return p.printPlain(e)
	}
}

func (p *Printer) printJSON(e *walker.Entry) error {
	if !p.jsonStarted {
		// Start the JSON array
		if _, err := fmt.Fprint(p.output, "[\n"); err != nil {
			return err
		}
		p.jsonStarted = true
	} else {
		// Add comma between entries
		if _, err := fmt.Fprint(p.output, ",\n"); err != nil {
			return err
		}
	}

	entry := JSONEntry{
		Path:    e.Path,
		RelPath: e.RelPath,
		Type:    e.Type.String(),
		Depth:   e.Depth,
		Symlink: e.Symlink,
	}
	if p.long && e.Type == walker.TypeFile {
		if size, err := e.Size(); err == nil {
			entry.Size = &size
		}
	}

	jsonData, err := json.MarshalIndent(entry, "  ", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Path, err)
	}

	_, err = fmt.Fprintf(p.output, "  %s", jsonData)
	return err
}

func (p *Printer) printMarkdown(e *walker.Entry) error {
	indent := strings.Repeat("  ", max(e.Depth, 0))
	name := e.Name()
	if e.IsDir() {
		name += "/"
	}
	_, err := fmt.Fprintf(p.output, "%s- `%s`\n", indent, name)
	return err
}

func (p *Printer) printPlain(e *walker.Entry) error {
	name := e.Path
	switch {
	case e.Symlink:
		name = p.linkColor.Sprint(name)
	case e.IsDir():
		name = p.dirColor.Sprint(name)
	}

	if !p.long {
		_, err := fmt.Fprintln(p.output, name)
		return err
	}

	_, err := fmt.Fprintf(p.output, "%-7s %10s  %s\n", e.Type, sizeColumn(e), name)
	return err
}

// sizeColumn formats a file's size in binary units; other types get "-".
func sizeColumn(e *walker.Entry) string {
	if e.Type != walker.TypeFile {
		return "-"
	}
	size, err := e.Size()
	if err != nil {
		return "?"
	}
	return units.BytesSize(float64(size))
}

// Finalize completes any pending operations (like closing JSON array)
func (p *Printer) Finalize() error {
	if !p.jsonOutput {
		return nil
	}
	if !p.jsonStarted {
		_, err := fmt.Fprint(p.output, "[]\n")
		return err
	}
	// Close the JSON array
	_, err := fmt.Fprint(p.output, "\n]\n")
	return err
}

// GetCount returns the number of entries printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
