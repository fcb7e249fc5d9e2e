package pattern

import (
	"bufio"
	"fmt"
	"io"
)

// ParseLines compiles every line read from r in order. opts.Line is ignored;
// each pattern gets its own line number. The first malformed line aborts the
// parse, since a partially applied ignore file changes meaning.
func ParseLines(r io.Reader, opts Options) ([]*Pattern, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 1<<20)

	patterns := make([]*Pattern, 0, 16)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Text()
		if lineNo == 1 {
			line = trimBOM(line)
		}

		lineOpts := opts
		lineOpts.Line = lineNo
		p, err := Compile(line, lineOpts)
		if err != nil {
			return nil, err
		}
		if p != nil {
			patterns = append(patterns, p)
		}
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan patterns: %w", err)
	}

	return patterns, nil
}

// CompileAll compiles in-memory pattern strings, numbering them from 1.
func CompileAll(lines []string, opts Options) ([]*Pattern, error) {
	patterns := make([]*Pattern, 0, len(lines))
	for i, line := range lines {
		lineOpts := opts
		lineOpts.Line = i + 1
		p, err := Compile(line, lineOpts)
		if err != nil {
			return nil, err
		}
		if p != nil {
			patterns = append(patterns, p)
		}
	}
	return patterns, nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
