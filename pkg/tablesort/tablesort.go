// Package tablesort orders report tables the way a sortable HTML table does
// when a header is clicked.
package tablesort

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Direction is the sorted-state marker carried by a header cell.
type Direction string

const (
	Unsorted   Direction = ""
	Ascending  Direction = "sorted-asc"
	Descending Direction = "sorted-desc"
)

// ParseDirection maps "asc"/"desc" and the header class names onto Direction.
func ParseDirection(value string) Direction {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "asc", string(Ascending):
		return Ascending
	case "desc", string(Descending):
		return Descending
	default:
		return Unsorted
	}
}

// Cell is one body cell. SortKey is an optional marker whose text is
// prepended to the cell text when building the sort key.
type Cell struct {
	Text    string `json:"text"`
	SortKey string `json:"sort_key,omitempty"`
}

type Header struct {
	Text  string    `json:"text"`
	State Direction `json:"state,omitempty"`
}

// Table is a header row plus body rows.
type Table struct {
	Headers []Header `json:"headers"`
	Rows    [][]Cell `json:"rows"`
	// SortedColumn is the active sort column, or -1.
	SortedColumn int `json:"sorted_column"`
}

// New builds an unsorted table.
func New(headers []string, rows [][]Cell) *Table {
	hs := make([]Header, len(headers))
	for i, h := range headers {
		hs[i] = Header{Text: h}
	}
	return &Table{Headers: hs, Rows: rows, SortedColumn: -1}
}

// Sort reorders rows by column. The direction is descending when the header
// is currently sorted-asc and ascending otherwise. Equal keys keep their order.
func (t *Table) Sort(column int) (Direction, error) {
	if column < 0 || column >= len(t.Headers) {
		return Unsorted, fmt.Errorf("column %d out of range", column)
	}

	dir := Ascending
	if t.Headers[column].State == Ascending {
		dir = Descending
	}

	keys := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		keys[i] = Key(cellAt(row, column))
	}
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		c := Compare(keys[order[a]], keys[order[b]])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	sorted := make([][]Cell, len(t.Rows))
	for i, idx := range order {
		sorted[i] = t.Rows[idx]
	}
	t.Rows = sorted

	for i := range t.Headers {
		t.Headers[i].State = Unsorted
	}
	t.Headers[column].State = dir
	t.SortedColumn = column
	return dir, nil
}

// Key builds the upper-cased composite key for a cell.
func Key(c Cell) string {
	return strings.ToUpper(c.SortKey + " " + c.Text)
}

// Compare orders two keys numerically when both are non-negative numbers and
// lexicographically otherwise.
func Compare(a, b string) int {
	na, aok := numeric(a)
	nb, bok := numeric(b)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func numeric(key string) (float64, bool) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return 0, false
	}
	dot := false
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return 0, false
		}
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func cellAt(row []Cell, column int) Cell {
	if column < len(row) {
		return row[column]
	}
	return Cell{}
}
