package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Store performs row operations against tables described by a config file
type Store struct {
	db     *sql.DB
	def    *DatabaseDef
	logger *slog.Logger
	debug  bool
}

// NewStore wraps an open database handle and its table definitions.
// When debug is true every statement is logged before execution.
func NewStore(db *sql.DB, def *DatabaseDef, logger *slog.Logger, debug bool) *Store {
	return &Store{db: db, def: def, logger: logger, debug: debug}
}

func (s *Store) logQuery(query string, args []any) {
	if s.debug {
		s.logger.Info("executing", "query", query, "args", args)
	}
}

// Exec runs an arbitrary SQL statement and returns any produced rows as maps
func (s *Store) Exec(query string, args ...any) ([]map[string]any, error) {
	s.logQuery(query, args)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result []map[string]any
	for rows.Next() {
		vals := make([]any, len(columns))
		valPtrs := make([]any, len(columns))
		for i := range columns {
			valPtrs[i] = &vals[i]
		}
		if err := rows.Scan(valPtrs...); err != nil {
			return nil, err
		}
		obj := map[string]any{}
		for i, col := range columns {
			if b, ok := vals[i].([]byte); ok {
				obj[col] = string(b)
				continue
			}
			obj[col] = vals[i]
		}
		result = append(result, obj)
	}
	return result, rows.Err()
}

// column resolves a column name against the table definition
func (s *Store) column(table *TableDef, name string) (string, error) {
	if _, err := sanitizeIdentifier(name); err != nil {
		return "", err
	}
	if _, ok := table.Column(name); !ok {
		return "", fmt.Errorf("table %s has no column %q", table.Name, name)
	}
	return name, nil
}

// Insert inserts one row. Columns absent from the row are left to SQLite
// (NULL unless the schema says otherwise).
func (s *Store) Insert(table string, row map[string]any) error {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return err
	}
	for name := range row {
		if _, err := s.column(def, name); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	cols := []string{}
	vals := []any{}
	for _, col := range def.Columns {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		cols = append(cols, col.Name)
		vals = append(vals, v)
	}
	if len(cols) == 0 {
		return fmt.Errorf("insert %s: no known columns in row", table)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		def.Name,
		strings.Join(cols, ", "),
		strings.TrimRight(strings.Repeat("?,", len(cols)), ","),
	)
	s.logQuery(q, vals)
	if _, err := s.db.Exec(q, vals...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Select returns rows from a table. An empty column list selects everything;
// where is appended verbatim with args bound to its placeholders.
func (s *Store) Select(table string, cols []string, where string, args ...any) ([]map[string]any, error) {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return nil, err
	}
	selection := "*"
	if len(cols) > 0 {
		for _, c := range cols {
			if _, err := s.column(def, c); err != nil {
				return nil, fmt.Errorf("select %s: %w", table, err)
			}
		}
		selection = strings.Join(cols, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", selection, def.Name)
	if where != "" {
		query += " WHERE " + where
	}
	return s.Exec(query, args...)
}

// Update sets columns on all rows matching the where clause and returns the
// number of rows changed
func (s *Store) Update(table string, set map[string]any, where string, args ...any) (int64, error) {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return 0, err
	}
	if len(set) == 0 {
		return 0, fmt.Errorf("update %s: nothing to set", table)
	}

	// Sorted for a stable statement shape
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	setParts := make([]string, 0, len(names))
	vals := make([]any, 0, len(names)+len(args))
	for _, name := range names {
		if _, err := s.column(def, name); err != nil {
			return 0, fmt.Errorf("update %s: %w", table, err)
		}
		setParts = append(setParts, name+" = ?")
		vals = append(vals, set[name])
	}
	vals = append(vals, args...)

	query := fmt.Sprintf("UPDATE %s SET %s", def.Name, strings.Join(setParts, ", "))
	if where != "" {
		query += " WHERE " + where
	}
	s.logQuery(query, vals)
	res, err := s.db.Exec(query, vals...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Delete removes all rows where column equals value and returns the number
// of rows removed
func (s *Store) Delete(table, column string, value any) (int64, error) {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return 0, err
	}
	if _, err := s.column(def, column); err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", def.Name, column)
	s.logQuery(query, []any{value})
	res, err := s.db.Exec(query, value)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Min returns the smallest value in a column
func (s *Store) Min(table, column string) (any, error) {
	return s.aggregate("MIN", table, column)
}

// Max returns the largest value in a column
func (s *Store) Max(table, column string) (any, error) {
	return s.aggregate("MAX", table, column)
}

// Avg returns the average value of a column
func (s *Store) Avg(table, column string) (any, error) {
	return s.aggregate("AVG", table, column)
}

func (s *Store) aggregate(fn, table, column string) (any, error) {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return nil, err
	}
	if _, err := s.column(def, column); err != nil {
		return nil, fmt.Errorf("%s %s: %w", strings.ToLower(fn), table, err)
	}
	rows, err := s.Exec(fmt.Sprintf("SELECT %s(%s) AS value FROM %s", fn, column, def.Name))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0]["value"], nil
}

// Count returns the number of rows matching the where clause, or the total
// row count when where is empty
func (s *Store) Count(table, where string, args ...any) (int64, error) {
	def, err := LookupTable(s.def, table)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", def.Name)
	if where != "" {
		query += " WHERE " + where
	}
	s.logQuery(query, args)
	var total int64
	if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
