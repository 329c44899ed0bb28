// Package format detects and tokenizes the textual table dialects.
//
// The package turns a raw table text into an ordered list of column header
// labels and a list of body rows of raw cell strings. Three dialects are
// supported: reStructuredText simple tables, reStructuredText grid tables,
// and Markdown tables. Cell contents are not interpreted here.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMarkup is returned when a table text does not parse as any supported
// dialect or is structurally malformed.
var ErrMarkup = errors.New("table markup error")

var (
	blankPattern       = regexp.MustCompile(`^\s*$`)
	simpleBorderLine   = regexp.MustCompile(`^ *=[= ]*$`)
	gridFrameLine      = regexp.MustCompile(`^\+[-+]*-\+ *$`)
	gridHeaderSepLine  = regexp.MustCompile(`^\+[=+]*=\+ *$`)
	markdownSeparators = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)
)

// Normalize strips leading/trailing blank lines and removes the common
// indentation so tables can be embedded with arbitrary leading whitespace.
//
// The indent width is the minimum leading-space width of the first two
// remaining lines. Two lines rather than one accommodates Markdown tables
// whose first content line is less indented than its separator line. This
// is a heuristic, not a general rule.
func Normalize(text string) ([]string, error) {
	lines := strings.Split(text, "\n")

	start := 0
	for start < len(lines) && blankPattern.MatchString(lines[start]) {
		start++
	}
	end := len(lines)
	for end > start && blankPattern.MatchString(lines[end-1]) {
		end--
	}
	lines = lines[start:end]
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: the text has no content", ErrMarkup)
	}

	indent := leadingSpaces(lines[0])
	if len(lines) > 1 {
		if n := leadingSpaces(lines[1]); n < indent {
			indent = n
		}
	}

	stripped := make([]string, len(lines))
	for i, line := range lines {
		if len(line) < indent {
			stripped[i] = ""
		} else {
			stripped[i] = line[indent:]
		}
	}
	return stripped, nil
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// Parse detects the table dialect and tokenizes the lines into column
// labels and body rows of raw cell strings. The lines should already be
// normalized with Normalize.
//
// Dialects are tried in a fixed order: reStructuredText simple table,
// reStructuredText grid table, Markdown table.
func Parse(lines []string) (labels []string, rows [][]string, err error) {
	if len(lines) < 3 {
		return nil, nil, fmt.Errorf("%w: a table needs at least 3 lines, got %d", ErrMarkup, len(lines))
	}

	first := lines[0]
	last := lines[len(lines)-1]

	switch {
	case simpleBorderLine.MatchString(first) && simpleBorderLine.MatchString(last):
		return parseSimple(lines)
	case gridFrameLine.MatchString(first) && gridFrameLine.MatchString(last):
		return parseGrid(lines)
	case markdownSeparators.MatchString(lines[1]) && strings.Contains(lines[1], "-"):
		return parseMarkdown(lines)
	default:
		return nil, nil, fmt.Errorf("%w: the table format is unknown", ErrMarkup)
	}
}

// span is a half-open column extent [start, end) in a physical line.
type span struct {
	start int
	end   int
}

// cut extracts and trims the cell text for the span. The last column
// extends to the end of the line.
func (s span) cut(line string, lastColumn bool) string {
	if s.start >= len(line) {
		return ""
	}
	end := s.end
	if lastColumn || end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[s.start:end])
}
