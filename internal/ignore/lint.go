package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/hashicorp/go-multierror"

	"github.com/bethropolis/rwalk/internal/pattern"
)

// Severity grades a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one problem found in an ignore file.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity Severity
	Message  string
}

func (d Diagnostic) Error() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
}

// LintReport collects the diagnostics of one file.
type LintReport struct {
	File        string
	Patterns    int
	Diagnostics []Diagnostic
}

// Err aggregates error diagnostics, nil when there are none.
func (r *LintReport) Err() error {
	var result *multierror.Error
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			result = multierror.Append(result, d)
		}
	}
	return result.ErrorOrNil()
}

// Lint checks an ignore file. Every line goes through the walker's own
// compiler; the file is also parsed by go-gitignore, whose parse errors are
// reported as warnings since that parser is stricter about some globs git
// accepts. Duplicate patterns and re-includes that cannot take effect because
// an earlier rule excludes a parent directory are warnings too.
func Lint(path string, caseInsensitive bool) (*LintReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	report := &LintReport{File: path}
	opts := pattern.Options{
		Dir:             filepath.Dir(path),
		CaseInsensitive: caseInsensitive,
		Source:          path,
	}

	var compiled []*pattern.Pattern
	seen := make(map[string]int)

	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		lineOpts := opts
		lineOpts.Line = lineNo
		p, err := pattern.Compile(line, lineOpts)
		if err != nil {
			msg := err.Error()
			var ce *pattern.CompileError
			if errors.As(err, &ce) {
				msg = fmt.Sprintf("invalid pattern %q: %s", ce.Text, ce.Reason)
			}
			report.add(Diagnostic{Line: lineNo, Severity: SeverityError, Message: msg})
			continue
		}
		if p == nil {
			continue
		}

		if first, dup := seen[p.Text()]; dup {
			report.add(Diagnostic{
				Line:     lineNo,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("duplicate of line %d", first),
			})
		} else {
			seen[p.Text()] = lineNo
		}

		if p.Negated() {
			if blocker := excludedParent(compiled, p); blocker != nil {
				report.add(Diagnostic{
					Line:     lineNo,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("re-include has no effect: parent directory excluded by line %d (%s)", blocker.Line(), blocker.Text()),
				})
			}
		}

		compiled = append(compiled, p)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	report.Patterns = len(compiled)

	gitignore.New(bytes.NewReader(data), filepath.Dir(path), func(e gitignore.Error) bool {
		pos := e.Position()
		report.add(Diagnostic{
			Line:     pos.Line,
			Column:   pos.Column,
			Severity: SeverityWarning,
			Message:  "go-gitignore: " + e.Error(),
		})
		return true
	})

	return report, nil
}

func (r *LintReport) add(d Diagnostic) {
	d.File = r.File
	r.Diagnostics = append(r.Diagnostics, d)
}

// excludedParent returns the last earlier pattern excluding a literal parent
// directory of the negated pattern neg. Parents only reached through globs
// are not checked.
func excludedParent(earlier []*pattern.Pattern, neg *pattern.Pattern) *pattern.Pattern {
	body := strings.TrimPrefix(neg.Text(), "!")
	body = strings.Trim(body, "/")
	segments := strings.Split(body, "/")
	if len(segments) < 2 {
		return nil
	}

	for i := 1; i < len(segments); i++ {
		parent := strings.Join(segments[:i], "/")
		if strings.ContainsAny(parent, `*?[\`) {
			return nil
		}

		var decided *pattern.Pattern
		for j := len(earlier) - 1; j >= 0; j-- {
			if earlier[j].MatchRelative(parent, true) {
				decided = earlier[j]
				break
			}
		}
		if decided != nil && !decided.Negated() {
			return decided
		}
	}
	return nil
}
