package format

import (
	"fmt"
	"strings"
)

// parseMarkdown tokenizes a Markdown table:
//
//	| A    | B      |
//	|:-----|-------:|
//	| 1    | 2      |
//
// The second line is the alignment separator; the colons are accepted and
// ignored. Leading and trailing pipes are optional. Every row must carry
// the same number of cells as the header.
func parseMarkdown(lines []string) ([]string, [][]string, error) {
	labels := splitPipes(lines[0])
	if len(labels) == 0 {
		return nil, nil, fmt.Errorf("%w: the Markdown header has no columns", ErrMarkup)
	}

	seps := splitPipes(lines[1])
	if len(seps) != len(labels) {
		return nil, nil, fmt.Errorf("%w: the Markdown separator has %d columns, the header has %d",
			ErrMarkup, len(seps), len(labels))
	}

	var rows [][]string
	for _, line := range lines[2:] {
		if blankPattern.MatchString(line) {
			continue
		}
		cells := splitPipes(line)
		if len(cells) != len(labels) {
			return nil, nil, fmt.Errorf("%w: the Markdown row %q has %d columns, the header has %d",
				ErrMarkup, line, len(cells), len(labels))
		}
		rows = append(rows, cells)
	}
	return labels, rows, nil
}

// splitPipes splits a pipe-delimited line into trimmed cells, tolerating
// optional leading and trailing pipes.
func splitPipes(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
