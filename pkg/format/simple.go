package format

import (
	"fmt"
	"strings"
)

// parseSimple tokenizes a reStructuredText simple table:
//
//	====== =======
//	state  event
//	====== =======
//	'stop' 'accel'
//	'run'  'brake'
//	====== =======
//
// The first border line defines the column extents. Lines between the
// first and second borders are the header; a header written on several
// lines (a directive sub-line under a label) is space-joined per column.
// Body lines whose first column is blank continue the previous row.
func parseSimple(lines []string) ([]string, [][]string, error) {
	var borders []int
	for i, line := range lines {
		if simpleBorderLine.MatchString(line) {
			borders = append(borders, i)
		}
	}
	if len(borders) != 3 {
		return nil, nil, fmt.Errorf("%w: a simple table needs 3 border lines, got %d", ErrMarkup, len(borders))
	}
	if borders[0] != 0 || borders[2] != len(lines)-1 {
		return nil, nil, fmt.Errorf("%w: a simple table must start and end with a border line", ErrMarkup)
	}

	spans := simpleSpans(lines[0])
	if len(spans) == 0 {
		return nil, nil, fmt.Errorf("%w: the border line has no columns", ErrMarkup)
	}

	headerLines := lines[borders[0]+1 : borders[1]]
	if len(headerLines) == 0 {
		return nil, nil, fmt.Errorf("%w: the table has no header", ErrMarkup)
	}
	labels := joinCells(headerLines, spans)

	var rows [][]string
	for _, line := range lines[borders[1]+1 : borders[2]] {
		if blankPattern.MatchString(line) {
			continue
		}
		cells := cutCells(line, spans)
		if cells[0] == "" && len(rows) > 0 {
			// Continuation of the previous logical row.
			prev := rows[len(rows)-1]
			for i := range prev {
				prev[i] = strings.TrimSpace(prev[i] + " " + cells[i])
			}
			continue
		}
		if cells[0] == "" {
			return nil, nil, fmt.Errorf("%w: the first body row has an empty first column", ErrMarkup)
		}
		rows = append(rows, cells)
	}
	return labels, rows, nil
}

// simpleSpans derives column extents from a border line of '=' runs.
// Each column reaches from the start of its run to the start of the next
// run, so cell text may spill into the separating spaces.
func simpleSpans(border string) []span {
	var spans []span
	i := 0
	for i < len(border) {
		if border[i] != '=' {
			i++
			continue
		}
		start := i
		for i < len(border) && border[i] == '=' {
			i++
		}
		spans = append(spans, span{start: start, end: i})
	}
	for j := 0; j+1 < len(spans); j++ {
		spans[j].end = spans[j+1].start
	}
	return spans
}

func cutCells(line string, spans []span) []string {
	cells := make([]string, len(spans))
	for i, s := range spans {
		cells[i] = s.cut(line, i == len(spans)-1)
	}
	return cells
}

// joinCells space-joins the per-column cells of several physical lines
// into one logical row.
func joinCells(lines []string, spans []span) []string {
	joined := make([]string, len(spans))
	for _, line := range lines {
		cells := cutCells(line, spans)
		for i, c := range cells {
			joined[i] = strings.TrimSpace(joined[i] + " " + c)
		}
	}
	return joined
}
