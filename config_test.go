package main

import (
	"os"
	"path/filepath"
	"testing"
)

// Helper for tests
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.ini")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigSectionCount(t *testing.T) {
	path := writeTempConfig(t, `
[users]
*id=INTEGER
name=TEXT

[posts]
*id=INTEGER
title=TEXT

[tags]
name=TEXT
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(dbs.Tables) != 3 {
		t.Errorf("expected 3 tables, got %d", len(dbs.Tables))
	}
	want := []string{"users", "posts", "tags"}
	if len(dbs.TableOrder) != len(want) {
		t.Fatalf("expected order %v, got %v", want, dbs.TableOrder)
	}
	for i, name := range want {
		if dbs.TableOrder[i] != name {
			t.Errorf("table %d: expected %s, got %s", i, name, dbs.TableOrder[i])
		}
	}
}

func TestPrimaryKeyMarker(t *testing.T) {
	path := writeTempConfig(t, `
[example_table]
*id=INTEGER
name=TEXT
age=INTEGER
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	table, err := LookupTable(dbs, "example_table")
	if err != nil {
		t.Fatal(err)
	}
	want := []ColumnDef{
		{Name: "id", Type: TypeInt, PrimaryKey: true},
		{Name: "name", Type: TypeText, PrimaryKey: false},
		{Name: "age", Type: TypeInt, PrimaryKey: false},
	}
	if len(table.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(table.Columns))
	}
	for i, w := range want {
		got := table.Columns[i]
		if got != w {
			t.Errorf("column %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestCompositePrimaryKey(t *testing.T) {
	path := writeTempConfig(t, `
[membership]
*user_id=INTEGER
*group_id=INTEGER
role=TEXT
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	keys := dbs.Tables["membership"].PrimaryKeys()
	if len(keys) != 2 || keys[0] != "user_id" || keys[1] != "group_id" {
		t.Errorf("expected [user_id group_id], got %v", keys)
	}
}

func TestNoPrimaryKeyIsLegal(t *testing.T) {
	path := writeTempConfig(t, `
[log_lines]
message=TEXT
level=TEXT
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if keys := dbs.Tables["log_lines"].PrimaryKeys(); keys != nil {
		t.Errorf("expected no primary keys, got %v", keys)
	}
}

func TestTypeNormalizedToUpper(t *testing.T) {
	path := writeTempConfig(t, `
[t]
*id=integer
name=text
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	col, ok := dbs.Tables["t"].Column("id")
	if !ok || col.Type != TypeInt {
		t.Errorf("expected INTEGER, got %+v", col)
	}
}

func TestDuplicateColumnRejected(t *testing.T) {
	// '*id' and 'id' collide once the marker is stripped
	path := writeTempConfig(t, `
[t]
*id=INTEGER
id=TEXT
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected duplicate column error, got nil")
	}
}

func TestRepeatedKeyRejected(t *testing.T) {
	// The same key twice, byte for byte, must not collapse to the last value
	path := writeTempConfig(t, `
[t]
id=INTEGER
id=TEXT
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected duplicate column error, got nil")
	}
}

func TestUnknownTypeRejected(t *testing.T) {
	path := writeTempConfig(t, `
[t]
id=FANCY
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected unknown type error, got nil")
	}
}

func TestInvalidIdentifierRejected(t *testing.T) {
	cases := map[string]string{
		"table name":  "[bad-table]\nid=INTEGER\n",
		"column name": "[t]\nbad-col=INTEGER\n",
	}
	for name, content := range cases {
		if _, err := LoadConfig(writeTempConfig(t, content)); err == nil {
			t.Errorf("%s: expected identifier error, got nil", name)
		}
	}
}

func TestKeyBeforeSectionRejected(t *testing.T) {
	path := writeTempConfig(t, `
id=INTEGER

[t]
name=TEXT
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for key outside a section, got nil")
	}
}

func TestLookupTableMissing(t *testing.T) {
	path := writeTempConfig(t, `
[t]
id=INTEGER
`)
	dbs, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := LookupTable(dbs, "missing"); err == nil {
		t.Error("expected error for missing table, got nil")
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	for _, ok := range []string{"users", "_hidden", "Col9"} {
		if _, err := sanitizeIdentifier(ok); err != nil {
			t.Errorf("%q: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"", "9col", "a b", "users;drop", "naïve"} {
		if _, err := sanitizeIdentifier(bad); err == nil {
			t.Errorf("%q: expected error, got nil", bad)
		}
	}
}
