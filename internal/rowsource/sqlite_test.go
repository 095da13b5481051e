// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rowsource

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
)

func testDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE researchers (first TEXT, last TEXT, org TEXT)`,
		`INSERT INTO researchers VALUES ('Marie', 'Curie', 'Sorbonne')`,
		`INSERT INTO researchers VALUES ('Niels', 'Bohr', NULL)`,
		`INSERT INTO researchers VALUES ('Lise', 'Meitner', 'KWI')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestSQLiteRows(t *testing.T) {
	src := &SQLiteSource{Path: testDB(t), Table: "researchers"}

	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if want := []string{"first", "last", "org"}; !reflect.DeepEqual(rows[0].Columns, want) {
		t.Errorf("columns = %v, want %v", rows[0].Columns, want)
	}
	if rows[0].Values["first"] != "Marie" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Values["org"] != "" {
		t.Errorf("NULL cell = %q, want empty", rows[1].Values["org"])
	}
}

func TestSQLiteColumnSelection(t *testing.T) {
	src := &SQLiteSource{Path: testDB(t), Table: "researchers", Columns: []string{"last", "first"}}

	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if want := []string{"last", "first"}; !reflect.DeepEqual(rows[0].Columns, want) {
		t.Errorf("columns = %v, want requested order %v", rows[0].Columns, want)
	}
	if _, ok := rows[0].Values["org"]; ok {
		t.Error("unrequested column should be absent")
	}
}

func TestSQLiteLimit(t *testing.T) {
	src := &SQLiteSource{Path: testDB(t), Table: "researchers", Limit: 2}

	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want limit of 2", len(rows))
	}
}

func TestSQLiteRejectsUnsafeIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		src  SQLiteSource
	}{
		{"table injection", SQLiteSource{Table: `researchers; DROP TABLE researchers`}},
		{"quoted table", SQLiteSource{Table: `"researchers"`}},
		{"column injection", SQLiteSource{Table: "researchers", Columns: []string{`first" FROM sqlite_master; --`}}},
		{"empty table", SQLiteSource{Table: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.src.Path = testDB(t)
			if _, err := tt.src.Rows(context.Background()); err == nil {
				t.Fatal("expected identifier validation error")
			}
		})
	}
}

func TestSQLiteMissingTable(t *testing.T) {
	src := &SQLiteSource{Path: testDB(t), Table: "nope"}
	if _, err := src.Rows(context.Background()); err == nil {
		t.Fatal("expected error for a missing table")
	}
}
