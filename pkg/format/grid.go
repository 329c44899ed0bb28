package format

import (
	"fmt"
	"strings"
)

// parseGrid tokenizes a reStructuredText grid table:
//
//	+-----+-----+
//	|  A  |  B  |
//	| (a) | (b) |
//	+=====+=====+
//	| a1  | b1  |
//	+-----+-----+
//	| a2  | b2  |
//	+-----+-----+
//
// The '+' positions of the top frame define the column boundaries. A
// '+===+' line separates the header from the body. Physical lines between
// two frame lines form one logical row; their cells are space-joined.
func parseGrid(lines []string) ([]string, [][]string, error) {
	bounds := gridBounds(lines[0])
	if len(bounds) < 2 {
		return nil, nil, fmt.Errorf("%w: the grid frame has no columns", ErrMarkup)
	}

	headerSep := -1
	for i, line := range lines {
		if gridHeaderSepLine.MatchString(line) {
			if headerSep != -1 {
				return nil, nil, fmt.Errorf("%w: the grid table has more than one header separator", ErrMarkup)
			}
			headerSep = i
		}
	}
	if headerSep == -1 {
		return nil, nil, fmt.Errorf("%w: the grid table has no header separator", ErrMarkup)
	}

	header, err := gridRows(lines[1:headerSep], bounds)
	if err != nil {
		return nil, nil, err
	}
	if len(header) != 1 {
		return nil, nil, fmt.Errorf("%w: the grid table needs exactly one header row, got %d", ErrMarkup, len(header))
	}

	rows, err := gridRows(lines[headerSep+1:len(lines)-1], bounds)
	if err != nil {
		return nil, nil, err
	}
	return header[0], rows, nil
}

// gridBounds returns the '+' positions of a frame line.
func gridBounds(frame string) []int {
	var bounds []int
	for i := 0; i < len(frame); i++ {
		if frame[i] == '+' {
			bounds = append(bounds, i)
		}
	}
	return bounds
}

// gridRows groups cell lines into logical rows delimited by frame lines
// and space-joins multi-line cells.
func gridRows(lines []string, bounds []int) ([][]string, error) {
	ncols := len(bounds) - 1
	var rows [][]string
	var current []string

	flush := func() {
		if current != nil {
			rows = append(rows, current)
			current = nil
		}
	}

	for _, line := range lines {
		if gridFrameLine.MatchString(line) {
			flush()
			continue
		}
		cells, err := gridCells(line, bounds)
		if err != nil {
			return nil, err
		}
		if current == nil {
			current = cells
			continue
		}
		for i := 0; i < ncols; i++ {
			current[i] = strings.TrimSpace(current[i] + " " + cells[i])
		}
	}
	flush()
	return rows, nil
}

// gridCells splits one '|' line at the column boundaries.
func gridCells(line string, bounds []int) ([]string, error) {
	for _, b := range bounds {
		if b >= len(line) || line[b] != '|' {
			return nil, fmt.Errorf("%w: the grid row %q does not align with the frame", ErrMarkup, line)
		}
	}
	cells := make([]string, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		cells[i] = strings.TrimSpace(line[bounds[i]+1 : bounds[i+1]])
	}
	return cells, nil
}
