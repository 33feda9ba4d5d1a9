package salary

// Row maps column names to cell values. Missing cells are simply absent;
// they round-trip through CSV as empty strings.
type Row map[string]string

// Table is an ordered-column, row-indexed table. Column order is first-seen
// order, which keeps repeated runs over the same inputs byte-identical on
// disk.
type Table struct {
	cols  []Column
	index map[string]int
	rows  []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: map[string]int{}}
}

// EnsureColumn registers a column by name if it is not already present,
// classifying it on first sight. Existing columns keep their position.
func (t *Table) EnsureColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, ClassifyColumn(name))
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the table's columns in order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, col := range t.cols {
		out[i] = col.Name
	}
	return out
}

// AppendRow adds one row. Cells referencing unregistered columns are kept;
// callers are expected to EnsureColumn first so column order stays
// deterministic.
func (t *Table) AppendRow(row Row) {
	t.rows = append(t.rows, row)
}

// Rows returns the backing row slice.
func (t *Table) Rows() []Row {
	return t.rows
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// FilterRows keeps only the rows for which keep returns true.
func (t *Table) FilterRows(keep func(Row) bool) {
	kept := t.rows[:0]
	for _, row := range t.rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
}

// DropColumns removes every column for which drop returns true, along with
// the matching cells.
func (t *Table) DropColumns(drop func(Column) bool) {
	var kept []Column
	for _, col := range t.cols {
		if drop(col) {
			for _, row := range t.rows {
				delete(row, col.Name)
			}
			continue
		}
		kept = append(kept, col)
	}
	t.cols = kept
	t.index = make(map[string]int, len(kept))
	for i, col := range kept {
		t.index[col.Name] = i
	}
}

// AppendTable concatenates another table onto this one, registering its
// columns in first-seen order.
func (t *Table) AppendTable(other *Table) {
	for _, col := range other.cols {
		t.EnsureColumn(col.Name)
	}
	t.rows = append(t.rows, other.rows...)
}
