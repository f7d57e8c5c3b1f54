package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Command-line handlers

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// openStore loads the config, resolves the database path, and opens the
// database. Failures are fatal: this runs once per invocation.
func openStore(configFile, dbFile string, verbose bool) (*Store, *sql.DB) {
	dbs, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Load config:", err)
		os.Exit(1)
	}
	path, err := resolveDBPath(dbFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := OpenDatabase(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Open DB:", err)
		os.Exit(1)
	}
	return NewStore(db, dbs, newLogger(), verbose), db
}

// splitArgs turns a comma-separated --args value into bind parameters.
// Values are bound as text; SQLite's column affinity does the rest.
func splitArgs(raw string) []any {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	args := make([]any, len(parts))
	for i, p := range parts {
		args[i] = p
	}
	return args
}

func initCmd(args []string) {
	flags := flag.NewFlagSet("init", flag.ExitOnError)
	var configFile, dbFile string
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.Parse(args)
	if configFile == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		os.Exit(1)
	}
	dbs, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Load config:", err)
		os.Exit(1)
	}
	path, err := resolveDBPath(dbFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := OpenDatabase(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Open DB:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := CreateTables(db, dbs); err != nil {
		fmt.Fprintln(os.Stderr, "Create tables:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Created %d tables in %s\n", len(dbs.TableOrder), path)
}

func insertCmd(args []string) {
	flags := flag.NewFlagSet("insert", flag.ExitOnError)
	var configFile, dbFile, table, rowJSON string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&table, "table", "", "Table to insert into")
	flags.StringVar(&rowJSON, "row", "", "Row as a JSON object")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if configFile == "" || table == "" || rowJSON == "" {
		fmt.Fprintln(os.Stderr, "--config, --table, and --row are required")
		os.Exit(1)
	}
	var row map[string]any
	if err := json.Unmarshal([]byte(rowJSON), &row); err != nil {
		fmt.Fprintln(os.Stderr, "Parse row:", err)
		os.Exit(1)
	}
	store, db := openStore(configFile, dbFile, verbose)
	defer db.Close()
	if err := store.Insert(table, row); err != nil {
		fmt.Fprintln(os.Stderr, "Insert:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Inserted 1 row into %s\n", table)
}

func dumpCmd(args []string) {
	flags := flag.NewFlagSet("dump", flag.ExitOnError)
	var configFile, dbFile, table, columns, where, bindArgs string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&table, "table", "", "Table to dump")
	flags.StringVar(&columns, "columns", "", "Comma-separated columns (default all)")
	flags.StringVar(&where, "where", "", "WHERE clause, without the keyword")
	flags.StringVar(&bindArgs, "args", "", "Comma-separated values for ? placeholders")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if configFile == "" || table == "" {
		fmt.Fprintln(os.Stderr, "--config and --table are required")
		os.Exit(1)
	}
	var cols []string
	if columns != "" {
		cols = strings.Split(columns, ",")
	}
	store, db := openStore(configFile, dbFile, verbose)
	defer db.Close()
	rows, err := store.Select(table, cols, where, splitArgs(bindArgs)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Dump error:", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		_ = enc.Encode(row)
	}
}

func updateCmd(args []string) {
	flags := flag.NewFlagSet("update", flag.ExitOnError)
	var configFile, dbFile, table, setJSON, where, bindArgs string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&table, "table", "", "Table to update")
	flags.StringVar(&setJSON, "set", "", "Columns to set, as a JSON object")
	flags.StringVar(&where, "where", "", "WHERE clause, without the keyword")
	flags.StringVar(&bindArgs, "args", "", "Comma-separated values for ? placeholders")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if configFile == "" || table == "" || setJSON == "" {
		fmt.Fprintln(os.Stderr, "--config, --table, and --set are required")
		os.Exit(1)
	}
	var set map[string]any
	if err := json.Unmarshal([]byte(setJSON), &set); err != nil {
		fmt.Fprintln(os.Stderr, "Parse set:", err)
		os.Exit(1)
	}
	store, db := openStore(configFile, dbFile, verbose)
	defer db.Close()
	n, err := store.Update(table, set, where, splitArgs(bindArgs)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Update:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Updated %d rows in %s\n", n, table)
}

func deleteCmd(args []string) {
	flags := flag.NewFlagSet("delete", flag.ExitOnError)
	var configFile, dbFile, table, column, value string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&table, "table", "", "Table to delete from")
	flags.StringVar(&column, "column", "", "Column to match")
	flags.StringVar(&value, "value", "", "Value identifying rows to delete")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if configFile == "" || table == "" || column == "" {
		fmt.Fprintln(os.Stderr, "--config, --table, and --column are required")
		os.Exit(1)
	}
	store, db := openStore(configFile, dbFile, verbose)
	defer db.Close()
	n, err := store.Delete(table, column, value)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Delete:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Deleted %d rows from %s\n", n, table)
}

func statsCmd(args []string) {
	flags := flag.NewFlagSet("stats", flag.ExitOnError)
	var configFile, dbFile, table, column string
	var verbose bool
	flags.StringVar(&configFile, "config", "", "Table config file (INI)")
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&table, "table", "", "Table to inspect")
	flags.StringVar(&column, "column", "", "Column to aggregate")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if configFile == "" || table == "" || column == "" {
		fmt.Fprintln(os.Stderr, "--config, --table, and --column are required")
		os.Exit(1)
	}
	store, db := openStore(configFile, dbFile, verbose)
	defer db.Close()

	min, err := store.Min(table, column)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Stats:", err)
		os.Exit(1)
	}
	max, err := store.Max(table, column)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Stats:", err)
		os.Exit(1)
	}
	avg, err := store.Avg(table, column)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Stats:", err)
		os.Exit(1)
	}
	count, err := store.Count(table, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Stats:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "%s.%s: min=%v max=%v avg=%v count=%d\n", table, column, min, max, avg, count)
}

func queryCmd(args []string) {
	flags := flag.NewFlagSet("query", flag.ExitOnError)
	var dbFile, sqlText, bindArgs string
	var verbose bool
	flags.StringVar(&dbFile, "db", "", "SQLite database file")
	flags.StringVar(&sqlText, "sql", "", "SQL statement to execute")
	flags.StringVar(&bindArgs, "args", "", "Comma-separated values for ? placeholders")
	flags.BoolVar(&verbose, "verbose", false, "Log statements before execution")
	flags.Parse(args)
	if sqlText == "" {
		fmt.Fprintln(os.Stderr, "--sql is required")
		os.Exit(1)
	}
	path, err := resolveDBPath(dbFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := OpenDatabase(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Open DB:", err)
		os.Exit(1)
	}
	defer db.Close()
	store := NewStore(db, &DatabaseDef{Tables: map[string]*TableDef{}}, newLogger(), verbose)
	rows, err := store.Exec(sqlText, splitArgs(bindArgs)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Query error:", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		_ = enc.Encode(row)
	}
}
