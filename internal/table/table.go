// Package table is a small in-memory relational table: named columns and rows
// of nullable text cells, with the dedupe and left-join operations the voter
// pipeline needs.
package table

import (
	"database/sql"
	"fmt"
	"strings"
)

// Row is one record. Cells line up with Table.Columns.
type Row []sql.NullString

// Table holds rows of nullable strings under a fixed column list.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	index map[string]int
}

// Suffixes disambiguate non-key columns that exist in both join inputs.
type Suffixes struct {
	Left  string
	Right string
}

// New creates an empty table. Column names are normalised to lower case.
func New(name string, columns ...string) *Table {
	t := &Table{Name: name, Columns: make([]string, len(columns))}
	for i, c := range columns {
		t.Columns[i] = normalise(c)
	}
	t.reindex()
	return t
}

// Null is a NULL cell.
func Null() sql.NullString { return sql.NullString{} }

// Str is a non-NULL cell.
func Str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column, or -1.
func (t *Table) Index(column string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[normalise(column)]; ok {
		return i
	}
	return -1
}

// Lookup finds a column by its plain name, falling back to name+suffix for
// columns that were renamed by a join.
func (t *Table) Lookup(column, suffix string) int {
	if i := t.Index(column); i >= 0 {
		return i
	}
	if suffix == "" {
		return -1
	}
	return t.Index(column + suffix)
}

// Has reports whether every named column exists.
func (t *Table) Has(columns ...string) (missing []string) {
	for _, c := range columns {
		if t.Index(c) < 0 {
			missing = append(missing, normalise(c))
		}
	}
	return missing
}

// Append adds a row. The cell count must match the column count.
func (t *Table) Append(cells ...sql.NullString) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, want %d", t.Name, len(cells), len(t.Columns))
	}
	row := make(Row, len(cells))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// Value returns the cell at (row, column). Unknown columns read as NULL.
func (t *Table) Value(row int, column string) sql.NullString {
	i := t.Index(column)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return sql.NullString{}
	}
	return t.Rows[row][i]
}

// DistinctBy returns a copy of t keeping only the first row for each value of
// key. NULL keys form one group of their own, so the first NULL-keyed row is
// kept too. It returns the non-NULL duplicates and the NULL-keyed rows dropped.
func (t *Table) DistinctBy(key string) (out *Table, duplicates, nullKeys int, err error) {
	ki := t.Index(key)
	if ki < 0 {
		return nil, 0, 0, fmt.Errorf("table %s: no key column %q", t.Name, key)
	}

	out = New(t.Name, t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	seenNull := false
	for _, row := range t.Rows {
		k := row[ki]
		if !k.Valid {
			if seenNull {
				nullKeys++
				continue
			}
			seenNull = true
			out.Rows = append(out.Rows, row)
			continue
		}
		if _, ok := seen[k.String]; ok {
			duplicates++
			continue
		}
		seen[k.String] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, duplicates, nullKeys, nil
}

// Unique reports whether no key value, NULL included, appears twice.
func (t *Table) Unique(key string) bool {
	ki := t.Index(key)
	if ki < 0 {
		return false
	}
	seen := make(map[string]struct{}, len(t.Rows))
	seenNull := false
	for _, row := range t.Rows {
		if !row[ki].Valid {
			if seenNull {
				return false
			}
			seenNull = true
			continue
		}
		if _, ok := seen[row[ki].String]; ok {
			return false
		}
		seen[row[ki].String] = struct{}{}
	}
	return true
}

// LeftJoin joins every row of left to at most one row of right on key. The
// right table must already be distinct on key. A NULL key never matches.
// Columns other than the key that
// appear in both tables are renamed with the given suffixes; unmatched left
// rows carry NULLs in the right-hand columns.
func LeftJoin(left, right *Table, key string, sfx Suffixes) (*Table, error) {
	lk, rk := left.Index(key), right.Index(key)
	if lk < 0 {
		return nil, fmt.Errorf("left join: table %s has no key column %q", left.Name, key)
	}
	if rk < 0 {
		return nil, fmt.Errorf("left join: table %s has no key column %q", right.Name, key)
	}

	lookup := make(map[string]int, len(right.Rows))
	for i, row := range right.Rows {
		k := row[rk]
		if !k.Valid {
			continue
		}
		if _, dup := lookup[k.String]; dup {
			return nil, fmt.Errorf("left join: table %s has duplicate key %q", right.Name, k.String)
		}
		lookup[k.String] = i
	}

	overlap := make(map[string]bool)
	for i, c := range right.Columns {
		if i != rk && left.Index(c) >= 0 && left.Index(c) != lk {
			overlap[c] = true
		}
	}

	columns := make([]string, 0, len(left.Columns)+len(right.Columns)-1)
	for i, c := range left.Columns {
		if i != lk && overlap[c] {
			c += sfx.Left
		}
		columns = append(columns, c)
	}
	rightCols := make([]int, 0, len(right.Columns)-1)
	for i, c := range right.Columns {
		if i == rk {
			continue
		}
		if overlap[c] {
			c += sfx.Right
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	out := New(left.Name+"+"+right.Name, columns...)
	out.Rows = make([]Row, 0, len(left.Rows))
	for _, lrow := range left.Rows {
		row := make(Row, 0, len(columns))
		row = append(row, lrow...)
		match := -1
		if k := lrow[lk]; k.Valid {
			if ri, ok := lookup[k.String]; ok {
				match = ri
			}
		}
		for _, ci := range rightCols {
			if match < 0 {
				row = append(row, sql.NullString{})
				continue
			}
			row = append(row, right.Rows[match][ci])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
