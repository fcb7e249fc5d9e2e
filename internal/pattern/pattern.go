// Package pattern compiles single gitignore-style glob lines into matchers.
//
// A compiled Pattern remembers the directory it came from, whether it is
// negated, anchored or restricted to directories, and the precedence tier of
// the source that produced it. Patterns are immutable once compiled and safe
// for concurrent use.
package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Pattern is one compiled ignore rule.
type Pattern struct {
	text            string
	negated         bool
	anchored        bool
	dirOnly         bool
	caseInsensitive bool
	dir             string
	tier            Tier
	source          string
	line            int
	re              *regexp.Regexp
}

// Options describe where a pattern line came from and how to compile it.
type Options struct {
	// Dir is the directory the pattern is relative to. Paths handed to Match
	// must share the same base (absolute Dir means absolute paths).
	Dir string
	// CaseInsensitive compiles the whole pattern case-insensitively.
	CaseInsensitive bool
	// Tier is the precedence tier of the source.
	Tier Tier
	// Source names the file or list the line was read from (diagnostics only).
	Source string
	// Line is the 1-based line number inside Source, 0 when unknown.
	Line int
}

// Compile compiles one pattern line.
//
// Blank lines and comments hold no pattern: Compile returns a nil Pattern and
// a nil error for them. Malformed lines return a *CompileError.
func Compile(line string, opts Options) (*Pattern, error) {
	text := strings.TrimSuffix(line, "\r")
	if text == "" || text[0] == '#' {
		return nil, nil
	}

	body := trimTrailingSpace(text)
	if body == "" {
		return nil, nil
	}

	p := &Pattern{
		text:            text,
		caseInsensitive: opts.CaseInsensitive,
		dir:             filepath.Clean(opts.Dir),
		tier:            opts.Tier,
		source:          opts.Source,
		line:            opts.Line,
	}
	if opts.Dir == "" {
		p.dir = ""
	}

	if body[0] == '!' {
		p.negated = true
		body = body[1:]
	}

	if strings.HasSuffix(body, "/") && !strings.HasSuffix(body, `\/`) {
		p.dirOnly = true
		body = strings.TrimRight(body, "/")
	}

	if strings.HasPrefix(body, "/") {
		p.anchored = true
		body = strings.TrimLeft(body, "/")
	} else if strings.Contains(body, "/") {
		// A separator in the middle ties the pattern to its directory too.
		p.anchored = true
	}

	if body == "" {
		return nil, nil
	}

	expr, err := translate(body)
	if err != nil {
		return nil, &CompileError{Source: opts.Source, Line: opts.Line, Text: text, Reason: err.Error()}
	}

	prefix := "^"
	if opts.CaseInsensitive {
		prefix = "(?i)^"
	}

	re, err := regexp.Compile(prefix + expr + "$")
	if err != nil {
		return nil, &CompileError{Source: opts.Source, Line: opts.Line, Text: text, Reason: err.Error()}
	}
	p.re = re

	return p, nil
}

// MustCompile is like Compile but panics on malformed input. Test and
// package-level defaults only.
func MustCompile(line string, opts Options) *Pattern {
	p, err := Compile(line, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path (sharing Dir's base) is matched. Paths outside
// Dir, and Dir itself, never match.
func (p *Pattern) Match(path string, isDir bool) bool {
	rel, ok := Relative(p.dir, path)
	if !ok {
		return false
	}
	return p.MatchRelative(rel, isDir)
}

// MatchRelative matches a slash-separated path already relative to Dir.
func (p *Pattern) MatchRelative(rel string, isDir bool) bool {
	if rel == "" {
		return false
	}
	if p.dirOnly && !isDir {
		return false
	}

	if !p.anchored {
		if i := strings.LastIndexByte(rel, '/'); i >= 0 {
			rel = rel[i+1:]
		}
	}

	return p.re.MatchString(rel)
}

// Text returns the source line as written.
func (p *Pattern) Text() string { return p.text }

// Negated reports whether the pattern re-includes ("!") instead of excluding.
func (p *Pattern) Negated() bool { return p.negated }

// Anchored reports whether the pattern is tied to Dir rather than any depth.
func (p *Pattern) Anchored() bool { return p.anchored }

// DirOnly reports whether the pattern only matches directories.
func (p *Pattern) DirOnly() bool { return p.dirOnly }

// CaseInsensitive reports the case mode the pattern was compiled with.
func (p *Pattern) CaseInsensitive() bool { return p.caseInsensitive }

// Dir returns the origin directory.
func (p *Pattern) Dir() string { return p.dir }

// Tier returns the precedence tier of the pattern's source.
func (p *Pattern) Tier() Tier { return p.tier }

// Source returns the originating file or list name.
func (p *Pattern) Source() string { return p.source }

// Line returns the 1-based line number within Source.
func (p *Pattern) Line() int { return p.line }

func (p *Pattern) String() string {
	if p.source == "" {
		return p.text
	}
	if p.line > 0 {
		return fmt.Sprintf("%s:%d:%s", p.source, p.line, p.text)
	}
	return fmt.Sprintf("%s:%s", p.source, p.text)
}

// Relative returns path relative to dir in slash form. ok is false when path
// is not strictly below dir. An empty dir accepts any already relative path.
func Relative(dir, path string) (string, bool) {
	if dir == "" {
		rel := filepath.ToSlash(path)
		rel = strings.TrimPrefix(rel, "./")
		return rel, rel != "" && rel != "."
	}

	if !strings.HasPrefix(path, dir) {
		return "", false
	}

	rest := path[len(dir):]
	if rest == "" {
		return "", false
	}

	if !strings.HasSuffix(dir, string(os.PathSeparator)) {
		if rest[0] != os.PathSeparator {
			return "", false
		}
		rest = rest[1:]
	}

	if rest == "" {
		return "", false
	}

	return filepath.ToSlash(rest), true
}

// trimTrailingSpace drops trailing blanks unless the last one is escaped.
func trimTrailingSpace(s string) string {
	for len(s) > 0 {
		last := s[len(s)-1]
		if last != ' ' && last != '\t' {
			break
		}
		if escapedAt(s, len(s)-1) {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// escapedAt reports whether s[i] is preceded by an odd number of backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
