package main

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
)

// Config file format:
//
//	[example_table]
//	*id=INTEGER
//	name=TEXT
//	age=INTEGER
//
// Each section is one table, each key one column. A '*' prefix on the key
// marks the column as part of the primary key.

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sanitizeIdentifier rejects table/column names that cannot be safely
// embedded in a SQL statement. Identifiers cannot be bound as parameters,
// so this is the only guard against injection through the config file.
func sanitizeIdentifier(identifier string) (string, error) {
	if !reIdent.MatchString(identifier) {
		return "", fmt.Errorf("invalid identifier: %q", identifier)
	}
	return identifier, nil
}

// LoadConfig parses an INI config file and returns the table definitions,
// one per section, in file order
func LoadConfig(path string) (*DatabaseDef, error) {
	// AllowShadows keeps repeated keys visible so they can be rejected
	// instead of silently collapsed to the last value
	f, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	dbs := &DatabaseDef{Tables: map[string]*TableDef{}}
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			// Keys before the first section header have no table
			if len(sec.Keys()) > 0 {
				return nil, fmt.Errorf("%s: key %q appears before any table section",
					path, sec.Keys()[0].Name())
			}
			continue
		}
		table, err := parseTableSection(sec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		dbs.Tables[table.Name] = table
		dbs.TableOrder = append(dbs.TableOrder, table.Name)
	}
	return dbs, nil
}

// parseTableSection turns one config section into a TableDef
func parseTableSection(sec *ini.Section) (*TableDef, error) {
	name, err := sanitizeIdentifier(sec.Name())
	if err != nil {
		return nil, fmt.Errorf("table name: %w", err)
	}
	table := &TableDef{Name: name}

	seen := map[string]bool{}
	for _, key := range sec.Keys() {
		col, pk := strings.CutPrefix(key.Name(), "*")
		col, err := sanitizeIdentifier(col)
		if err != nil {
			return nil, fmt.Errorf("table %s: column name: %w", name, err)
		}
		if len(key.ValueWithShadows()) > 1 || seen[col] {
			return nil, fmt.Errorf("table %s: duplicate column %q", name, col)
		}
		seen[col] = true

		typ := ColumnType(strings.ToUpper(strings.TrimSpace(key.Value())))
		if !validTypes[typ] {
			return nil, fmt.Errorf("table %s: column %s: unknown type %q", name, col, key.Value())
		}
		table.Columns = append(table.Columns, ColumnDef{
			Name:       col,
			Type:       typ,
			PrimaryKey: pk,
		})
	}
	return table, nil
}

// LookupTable returns the definition for a single table
func LookupTable(dbs *DatabaseDef, name string) (*TableDef, error) {
	table, ok := dbs.Tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found in config", name)
	}
	return table, nil
}
