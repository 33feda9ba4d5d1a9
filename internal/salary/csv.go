package salary

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the table with a header row. Missing cells become empty
// strings, mirroring how absent fields behave in the upstream responses.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.cols))
	for _, row := range t.rows {
		for i, col := range t.cols {
			record[i] = row[col.Name]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// ReadCSV reads a table previously written by WriteCSV, re-deriving column
// tags from the header names.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := NewTable()
	for _, name := range header {
		table.EnsureColumn(name)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := Row{}
		for i, value := range record {
			if value == "" {
				continue
			}
			row[header[i]] = value
		}
		table.AppendRow(row)
	}

	return table, nil
}
