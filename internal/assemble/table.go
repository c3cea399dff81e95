package assemble

import (
	"fmt"
	"sort"

	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

// CalendarMode selects how date columns are rendered.
type CalendarMode int

const (
	// CalendarLocal renders the local calendar date only.
	CalendarLocal CalendarMode = iota
	// CalendarGregorian renders the Gregorian date only.
	CalendarGregorian
	// CalendarBoth keeps the local date and adds a Gregorian column.
	CalendarBoth
)

// Options control assembly of a record set into a Table.
type Options struct {
	// KeyColumn is the natural-key column used for sorting and
	// deduplication. Empty skips both.
	KeyColumn string

	// DateColumn names the column holding jalali.Date cells, rendered per
	// Calendar. Empty skips date handling.
	DateColumn string

	Calendar CalendarMode

	// Weekday appends a weekday column derived from the date column.
	Weekday bool
}

// Table is the canonical tabular result. Cells are string, int64, float64,
// jalali.Date or nil for absent.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Builder accumulates rows for one table.
type Builder struct {
	columns []string
	rows    [][]any
}

// NewBuilder creates a builder with the given column names.
func NewBuilder(columns ...string) *Builder {
	return &Builder{columns: columns}
}

// Row appends one row. The value count must match the column count.
func (b *Builder) Row(values ...any) {
	if len(values) != len(b.columns) {
		panic(fmt.Sprintf("row has %d values for %d columns", len(values), len(b.columns)))
	}
	b.rows = append(b.rows, values)
}

// Len returns the number of accumulated rows.
func (b *Builder) Len() int { return len(b.rows) }

// FloatCell converts a nullable float to a cell.
func FloatCell(f model.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

// IntCell converts a nullable int to a cell.
func IntCell(i model.Int) any {
	if !i.Valid {
		return nil
	}
	return i.Int64
}

// Build assembles the accumulated rows into a table: sort, dedup, calendar
// rendering, weekday annotation, empty row/column pruning. Building twice
// from the same rows yields the same table.
func (b *Builder) Build(opts Options) Table {
	t := Table{
		Columns: append([]string(nil), b.columns...),
		Rows:    make([][]any, len(b.rows)),
	}
	for i, row := range b.rows {
		t.Rows[i] = append([]any(nil), row...)
	}

	if key := columnIndex(t.Columns, opts.KeyColumn); key >= 0 {
		sort.SliceStable(t.Rows, func(i, j int) bool {
			return cellLess(t.Rows[i][key], t.Rows[j][key])
		})
		t.Rows = dedupRows(t.Rows, key)
	}

	if dateCol := columnIndex(t.Columns, opts.DateColumn); dateCol >= 0 {
		t = renderDates(t, dateCol, opts)
	}

	t = dropEmptyRows(t)
	t = dropEmptyColumns(t)
	return t
}

func columnIndex(columns []string, name string) int {
	if name == "" {
		return -1
	}
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

// dedupRows keeps the first occurrence of each key after the sort.
func dedupRows(rows [][]any, key int) [][]any {
	out := rows[:0]
	for i, row := range rows {
		if i > 0 && cellEqual(rows[i-1][key], row[key]) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func renderDates(t Table, dateCol int, opts Options) Table {
	gregorianCol := -1
	if opts.Calendar == CalendarBoth {
		gregorianCol = dateCol + 1
		t.Columns = insertAt(t.Columns, gregorianCol, "gregorian")
	}
	weekdayCol := -1
	if opts.Weekday {
		weekdayCol = len(t.Columns)
		t.Columns = append(t.Columns, "weekday")
	}

	for i, row := range t.Rows {
		day, ok := row[dateCol].(jalali.Date)
		if !ok {
			if gregorianCol >= 0 {
				row = insertAt(row, gregorianCol, nil)
			}
			if weekdayCol >= 0 {
				row = append(row, nil)
			}
			t.Rows[i] = row
			continue
		}

		gregorian := day.ToGregorian()
		switch opts.Calendar {
		case CalendarLocal:
			row[dateCol] = day.String()
		case CalendarGregorian:
			row[dateCol] = gregorian.Format("2006-01-02")
		case CalendarBoth:
			row[dateCol] = day.String()
			row = insertAt[any](row, gregorianCol, gregorian.Format("2006-01-02"))
		}
		if weekdayCol >= 0 {
			row = append(row, gregorian.Weekday().String())
		}
		t.Rows[i] = row
	}
	return t
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func dropEmptyRows(t Table) Table {
	rows := t.Rows[:0]
	for _, row := range t.Rows {
		if !rowEmpty(row) {
			rows = append(rows, row)
		}
	}
	t.Rows = rows
	return t
}

func dropEmptyColumns(t Table) Table {
	keep := make([]int, 0, len(t.Columns))
	for c := range t.Columns {
		empty := len(t.Rows) > 0
		for _, row := range t.Rows {
			if !cellEmpty(row[c]) {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, c)
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}

	columns := make([]string, len(keep))
	for i, c := range keep {
		columns[i] = t.Columns[c]
	}
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]any, len(keep))
		for j, c := range keep {
			cells[j] = row[c]
		}
		rows[i] = cells
	}
	return Table{Columns: columns, Rows: rows}
}

func rowEmpty(row []any) bool {
	for _, c := range row {
		if !cellEmpty(c) {
			return false
		}
	}
	return true
}

func cellEmpty(c any) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

func cellLess(a, b any) bool {
	switch av := a.(type) {
	case jalali.Date:
		if bv, ok := b.(jalali.Date); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return false
}

func cellEqual(a, b any) bool {
	return a == b
}
