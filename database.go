package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens (creating if necessary) the SQLite database at path
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// resolveDBPath returns the database path from the --db flag, falling back
// to the INILITE_DB environment variable (optionally from a .env file)
func resolveDBPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	// Load .env if present, silently ignore if missing
	_ = godotenv.Load()
	if path := os.Getenv("INILITE_DB"); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no database given: pass --db or set INILITE_DB")
}
