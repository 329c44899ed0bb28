package table

import (
	"errors"

	"github.com/fjkz/inline-table/pkg/format"
)

var (
	// ErrMarkup is returned when a table text does not parse as any
	// supported dialect or carries an unknown directive.
	ErrMarkup = format.ErrMarkup

	// ErrLookup is returned when a query cannot be answered: an invalid
	// label, an empty condition, no matching row, or a row that matched
	// but is not applicable.
	ErrLookup = errors.New("lookup failed")

	// ErrSchema is returned when two tables with different widths, labels,
	// or column types are combined.
	ErrSchema = errors.New("schema mismatch")

	// ErrValue is returned when a cell evaluates to a value the column
	// type cannot hold, e.g. a collection cell without membership support.
	ErrValue = errors.New("invalid cell value")
)
