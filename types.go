package main

// ColumnType represents a SQLite column type
type ColumnType string

const (
	TypeInt     ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
	TypeText    ColumnType = "TEXT"
	TypeBlob    ColumnType = "BLOB"
	TypeNumeric ColumnType = "NUMERIC"
	TypeBool    ColumnType = "BOOLEAN"
)

// ColumnDef represents one column of a table
type ColumnDef struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool // derived from the '*' marker on the config key
}

// TableDef represents the definition of a table
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// DatabaseDef represents all table definitions from one config file
type DatabaseDef struct {
	Tables     map[string]*TableDef
	TableOrder []string
}

// Column returns the definition of the named column, if present
func (t *TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// PrimaryKeys returns the names of the columns marked as primary key,
// in declaration order
func (t *TableDef) PrimaryKeys() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

var validTypes = map[ColumnType]bool{
	TypeInt:     true,
	TypeReal:    true,
	TypeText:    true,
	TypeBlob:    true,
	TypeNumeric: true,
	TypeBool:    true,
}
