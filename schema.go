package main

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateTableSQL builds the CREATE TABLE statement for a table definition.
// The PRIMARY KEY clause is only emitted when at least one column carries
// the '*' marker.
func CreateTableSQL(table *TableDef) string {
	parts := make([]string, 0, len(table.Columns)+1)
	for _, col := range table.Columns {
		parts = append(parts, fmt.Sprintf("%s %s", col.Name, col.Type))
	}
	if keys := table.PrimaryKeys(); len(keys) > 0 {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Name, strings.Join(parts, ", "))
}

// CreateTables creates every table from the config, in file order.
// Database errors propagate unchanged.
func CreateTables(db *sql.DB, dbs *DatabaseDef) error {
	for _, name := range dbs.TableOrder {
		if _, err := db.Exec(CreateTableSQL(dbs.Tables[name])); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}
	return nil
}
