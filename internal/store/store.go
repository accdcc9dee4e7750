// Package store defines the tabular storage contract the transition engine
// depends on: whole-column reads and writes, row-range reads, named lists,
// and registry appends. The Google Sheets implementation lives in
// internal/sheets; MemStore backs the tests.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"purchasing_manager/internal/config"
)

// Store is the minimal surface the engine mutates through. Columns are
// addressed by 1-based index and contain only data rows; the header region
// is invisible to the engine.
type Store interface {
	// Column returns the values of one column for every data row, in order.
	Column(ctx context.Context, index int) ([]string, error)
	// SetColumn overwrites one column for every data row in a single write.
	SetColumn(ctx context.Context, index int, values []string) error
	// Rows returns full-width rows for the given range.
	Rows(ctx context.Context, rr RowRange) ([][]string, error)
	// NamedList returns the non-empty values of a named range, flattened.
	NamedList(ctx context.Context, name string) ([]string, error)
	// NamedListRaw returns all values of a named range including empties,
	// for lists that are paired with another list by index.
	NamedListRaw(ctx context.Context, name string) ([]string, error)
	// AppendRow appends a row to the named sheet.
	AppendRow(ctx context.Context, sheet string, row []string) error
}

// RowRange is a contiguous run of sheet rows, identified by the 1-based row
// number of its first row.
type RowRange struct {
	Start int
	Count int
}

// End returns the 1-based row number of the last row in the range.
func (rr RowRange) End() int {
	return rr.Start + rr.Count - 1
}

// ClipHeader moves the range start forward past the header region, shrinking
// the range accordingly. Returns false if nothing remains.
func (rr RowRange) ClipHeader() (RowRange, bool) {
	firstDataRow := config.NumHeaderRows + 1
	if rr.Start < firstDataRow {
		shift := firstDataRow - rr.Start
		rr.Start = firstDataRow
		rr.Count -= shift
	}
	if rr.Count <= 0 {
		return RowRange{}, false
	}
	return rr, true
}

// ClipHeaderAll clips every range, dropping any that fall entirely within
// the header.
func ClipHeaderAll(ranges []RowRange) []RowRange {
	var clipped []RowRange
	for _, rr := range ranges {
		if c, ok := rr.ClipHeader(); ok {
			clipped = append(clipped, c)
		}
	}
	return clipped
}

// ValuesIndex converts a 1-based sheet row number into an index into a
// data-row slice (where index 0 is the first row after the header).
func ValuesIndex(sheetRow int) int {
	return sheetRow - config.NumHeaderRows - 1
}

// ParseRowRanges parses a selection expression like "4:6,9" into row ranges.
func ParseRowRanges(expr string) ([]RowRange, error) {
	var ranges []RowRange
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		start, end := part, part
		if i := strings.IndexByte(part, ':'); i >= 0 {
			start, end = part[:i], part[i+1:]
		}

		startRow, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid row range %q: %w", part, err)
		}
		endRow, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("invalid row range %q: %w", part, err)
		}
		if startRow < 1 || endRow < startRow {
			return nil, fmt.Errorf("invalid row range %q", part)
		}

		ranges = append(ranges, RowRange{Start: startRow, Count: endRow - startRow + 1})
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("empty row selection %q", expr)
	}
	return ranges, nil
}

// CellString safely extracts a string cell from a row at the given 0-based
// index, tolerating short rows.
func CellString(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return row[index]
	}
	return ""
}
