package models

// Table is an ordered, column-named collection of string-valued records.
// Every stage of the pipeline consumes one Table and produces a new one;
// tables are never mutated across stage boundaries. An empty string cell
// is the missing value.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a record. Short rows are padded with missing values so
// every row always matches the column count.
func (t *Table) AppendRow(row []string) {
	for len(row) < len(t.Columns) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row[:len(t.Columns)])
}

// NumRows returns the record count.
func (t Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the column count.
func (t Table) NumColumns() int { return len(t.Columns) }

// Clone returns a deep copy, so a stage can rework records without
// touching its input.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// DropColumn returns a copy of the table without the named column.
// Asking to drop an absent column is not an error; the table is returned
// unchanged.
func (t Table) DropColumn(name string) Table {
	idx := t.ColumnIndex(name)
	if idx == -1 {
		return t
	}

	out := Table{Columns: make([]string, 0, len(t.Columns)-1)}
	out.Columns = append(out.Columns, t.Columns[:idx]...)
	out.Columns = append(out.Columns, t.Columns[idx+1:]...)

	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, 0, len(row)-1)
		r = append(r, row[:idx]...)
		r = append(r, row[idx+1:]...)
		out.Rows[i] = r
	}
	return out
}

// AddColumn returns a copy of the table with a new column appended and
// filled from values. Missing trailing values pad with the missing cell.
func (t Table) AddColumn(name string, values []string) Table {
	out := Table{Columns: append(append([]string(nil), t.Columns...), name)}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		out.Rows[i] = append(append([]string(nil), row...), v)
	}
	return out
}
