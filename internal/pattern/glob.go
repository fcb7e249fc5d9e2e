package pattern

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	errTrailingEscape = errors.New("trailing backslash escapes nothing")
	errUnclosedClass  = errors.New("unterminated character class")
)

// translate turns a glob body (no leading "!", anchoring "/" or trailing "/")
// into a regular expression body matching a slash-separated path.
func translate(glob string) (string, error) {
	var b strings.Builder
	b.Grow(len(glob) * 2)

	for i := 0; i < len(glob); {
		c := glob[i]
		switch c {
		case '\\':
			if i+1 >= len(glob) {
				return "", errTrailingEscape
			}
			r, size := utf8.DecodeRuneInString(glob[i+1:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			i += 1 + size

		case '*':
			j := i
			for j < len(glob) && glob[j] == '*' {
				j++
			}
			segStart := i == 0 || glob[i-1] == '/'
			segEnd := j == len(glob) || glob[j] == '/'

			if j-i != 2 || !segStart || !segEnd {
				// Anything other than a whole "**" segment stays inside one segment.
				b.WriteString(`[^/]*`)
				i = j
				continue
			}

			switch {
			case i == 0 && j == len(glob):
				b.WriteString(`.*`)
				i = j
			case j == len(glob):
				// "dir/**" matches everything below dir but not dir itself.
				b.WriteString(`.+`)
				i = j
			default:
				// "**/" at the start or "/**/" in the middle: zero or more segments.
				b.WriteString(`(?:.*/)?`)
				i = j + 1
			}

		case '?':
			b.WriteString(`[^/]`)
			i++

		case '[':
			next, err := writeClass(&b, glob, i)
			if err != nil {
				return "", err
			}
			i = next

		default:
			r, size := utf8.DecodeRuneInString(glob[i:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			i += size
		}
	}

	return b.String(), nil
}

// writeClass translates the bracket expression starting at glob[start] and
// returns the index just past its closing bracket.
func writeClass(b *strings.Builder, glob string, start int) (int, error) {
	i := start + 1
	negated := false
	if i < len(glob) && (glob[i] == '!' || glob[i] == '^') {
		negated = true
		i++
	}

	var body strings.Builder
	first := true
	for {
		if i >= len(glob) {
			return 0, errUnclosedClass
		}

		c := glob[i]
		switch {
		case c == ']' && !first:
			if negated {
				b.WriteString(`[^/`)
			} else {
				b.WriteString(`[`)
			}
			b.WriteString(body.String())
			b.WriteString(`]`)
			return i + 1, nil

		case c == '[' && i+1 < len(glob) && glob[i+1] == ':':
			end := strings.Index(glob[i+2:], ":]")
			if end < 0 {
				return 0, errUnclosedClass
			}
			body.WriteString(glob[i : i+2+end+2])
			i += 2 + end + 2

		case c == '\\':
			if i+1 >= len(glob) {
				return 0, errTrailingEscape
			}
			r, size := utf8.DecodeRuneInString(glob[i+1:])
			body.WriteString(classLiteral(r))
			i += 1 + size

		case c == '-':
			body.WriteByte('-')
			i++

		default:
			r, size := utf8.DecodeRuneInString(glob[i:])
			body.WriteString(classLiteral(r))
			i += size
		}
		first = false
	}
}

// classLiteral escapes r for use inside a regexp bracket expression.
func classLiteral(r rune) string {
	switch r {
	case '\\', ']', '[', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}
