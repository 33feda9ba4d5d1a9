package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"salarymap/internal/logging"
	"salarymap/internal/salary"
)

// PostgresWriter mirrors the cleaned dataset into PostgreSQL.
type PostgresWriter struct {
	db  *sql.DB
	log *logging.Logger
}

const cleanedTableName = "final_salaries"

// NewPostgresWriter opens a connection and pings the database.
func NewPostgresWriter(connStr string, log *logging.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	log.Info("connected to PostgreSQL")
	return &PostgresWriter{db: db, log: log}, nil
}

// CreateTable recreates the cleaned-data table to match the table's columns.
// Each cleaning run recomputes the full dataset, so the previous contents are
// dropped rather than merged.
func (w *PostgresWriter) CreateTable(table *salary.Table) error {
	defs := make([]string, 0, len(table.Columns())+1)
	defs = append(defs, "id SERIAL PRIMARY KEY")
	for _, col := range table.Columns() {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(col.Name), columnType(col)))
	}

	query := fmt.Sprintf(`
	DROP TABLE IF EXISTS %s;
	CREATE TABLE %s (%s);
	CREATE INDEX idx_%s_location ON %s ("location");
	`, cleanedTableName, cleanedTableName, strings.Join(defs, ", "), cleanedTableName, cleanedTableName)

	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.log.Info("table ready", "table", cleanedTableName)
	return nil
}

// BatchInsert inserts all rows of the cleaned table in one transaction.
func (w *PostgresWriter) BatchInsert(table *salary.Table) error {
	if table.NumRows() == 0 {
		return nil
	}

	cols := table.Columns()
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		names[i] = quoteIdent(col.Name)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		cleanedTableName, strings.Join(names, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range table.Rows() {
		args := make([]any, len(cols))
		for i, col := range cols {
			args[i] = cellValue(col, row[col.Name])
		}
		if _, err = stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.log.Info("inserted cleaned rows into PostgreSQL", "rows", inserted)
	return nil
}

// Close closes the database connection.
func (w *PostgresWriter) Close() {
	if w.db != nil {
		_ = w.db.Close()
	}
}

func isNumeric(col salary.Column) bool {
	switch col.Category {
	case salary.CategoryMonetary, salary.CategorySampleCount:
		return true
	}
	switch col.Name {
	case "numDataPoints", "city_population":
		return true
	}
	return false
}

func columnType(col salary.Column) string {
	if isNumeric(col) {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

// cellValue maps empty cells to NULL and numeric columns to floats.
func cellValue(col salary.Column, value string) any {
	if value == "" {
		return nil
	}
	if isNumeric(col) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		return f
	}
	return value
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, ``) + `"`
}
