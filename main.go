package main

import (
	"fmt"
	"os"
)

// CLI Entrypoint
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, `Usage:
  %s init --config tables.ini [--db my.db]
  %s insert --config tables.ini --table t --row '{"col":"val"}' [--db my.db]
  %s dump --config tables.ini --table t [--columns a,b] [--where "a = ?"] [--args v] [--db my.db]
  %s update --config tables.ini --table t --set '{"col":"val"}' [--where "a = ?"] [--args v] [--db my.db]
  %s delete --config tables.ini --table t --column c --value v [--db my.db]
  %s stats --config tables.ini --table t --column c [--db my.db]
  %s query --sql "SELECT ..." [--args v1,v2] [--db my.db]

The database defaults to $INILITE_DB (also read from .env).
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
		os.Exit(1)
	}
	switch os.Args[1] {
	case "init":
		initCmd(os.Args[2:])
	case "insert":
		insertCmd(os.Args[2:])
	case "dump":
		dumpCmd(os.Args[2:])
	case "update":
		updateCmd(os.Args[2:])
	case "delete":
		deleteCmd(os.Args[2:])
	case "stats":
		statsCmd(os.Args[2:])
	case "query":
		queryCmd(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
