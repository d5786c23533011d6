package render

import (
	"strings"
	"testing"

	"github.com/pg2sqlite/pg2sqlite/ir"
)

func affinity(t ir.SqliteType) *ir.SqliteType {
	return &t
}

func column(name string, t ir.SqliteType) *ir.Column {
	return &ir.Column{Name: ir.NewIdent(name), SqliteType: affinity(t)}
}

func TestRenderBasicTable(t *testing.T) {
	id := column("id", ir.SqliteInteger)
	id.IsPrimaryKey = true
	name := column("name", ir.SqliteText)
	name.NotNull = true
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("users"),
			Columns: []*ir.Column{id, name},
		}},
	}

	got := Render(model, Options{})
	want := "CREATE TABLE users (\n" +
		"  id INTEGER PRIMARY KEY,\n" +
		"  name TEXT NOT NULL\n" +
		");\n"
	if got != want {
		t.Errorf("output mismatch:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestRenderPragmaPrologue(t *testing.T) {
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("t"),
			Columns: []*ir.Column{column("id", ir.SqliteInteger)},
		}},
	}
	got := Render(model, Options{EnableForeignKeys: true})
	if !strings.HasPrefix(got, "PRAGMA foreign_keys = ON;\n\n") {
		t.Errorf("output must start with the PRAGMA line and a blank line:\n%s", got)
	}
}

func TestRenderDefaultParenthesization(t *testing.T) {
	created := column("created_at", ir.SqliteText)
	created.Default = ir.TimeValue{Name: "CURRENT_TIMESTAMP"}
	count := column("count", ir.SqliteInteger)
	count.Default = ir.IntegerLit{Value: 0}
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("t"),
			Columns: []*ir.Column{created, count},
		}},
	}
	got := Render(model, Options{})
	if !strings.Contains(got, "created_at TEXT DEFAULT (CURRENT_TIMESTAMP)") {
		t.Errorf("function-like default must be parenthesized:\n%s", got)
	}
	if !strings.Contains(got, "count INTEGER DEFAULT 0") {
		t.Errorf("literal default must not be parenthesized:\n%s", got)
	}
}

func TestRenderConstraintOrder(t *testing.T) {
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name: ir.Unqualified("t"),
			Columns: []*ir.Column{
				column("a", ir.SqliteInteger),
				column("b", ir.SqliteInteger),
			},
			Constraints: []*ir.TableConstraint{
				{
					Kind:       ir.ConstraintForeignKey,
					Columns:    []ir.Ident{ir.NewIdent("b")},
					RefTable:   ir.Unqualified("other"),
					RefColumns: []ir.Ident{ir.NewIdent("id")},
					OnDelete:   ir.FkActionCascade,
				},
				{Kind: ir.ConstraintCheck, Expr: ir.BinaryExpr{Left: ir.ColumnRef{Name: "a"}, Op: ">", Right: ir.IntegerLit{Value: 0}}},
				{Kind: ir.ConstraintUnique, Columns: []ir.Ident{ir.NewIdent("b")}},
				{Kind: ir.ConstraintPrimaryKey, Columns: []ir.Ident{ir.NewIdent("a"), ir.NewIdent("b")}},
			},
		}},
	}
	got := Render(model, Options{EnableForeignKeys: true})
	want := "CREATE TABLE t (\n" +
		"  a INTEGER,\n" +
		"  b INTEGER,\n" +
		"  PRIMARY KEY (a, b),\n" +
		"  UNIQUE (b),\n" +
		"  CHECK (a > 0),\n" +
		"  FOREIGN KEY (b) REFERENCES other(id) ON DELETE CASCADE\n" +
		");"
	if !strings.Contains(got, want) {
		t.Errorf("constraints must render in PK, UNIQUE, CHECK, FK order:\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func TestRenderQuotedIdentifiers(t *testing.T) {
	col := column("select", ir.SqliteText)
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("MyTable"),
			Columns: []*ir.Column{col},
		}},
	}
	got := Render(model, Options{})
	if !strings.Contains(got, `CREATE TABLE "MyTable" (`) {
		t.Errorf("mixed-case table name must be quoted:\n%s", got)
	}
	if !strings.Contains(got, `"select" TEXT`) {
		t.Errorf("reserved-word column must be quoted:\n%s", got)
	}
}

func TestRenderIndexes(t *testing.T) {
	email := ir.NewIdent("email")
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("users"),
			Columns: []*ir.Column{column("email", ir.SqliteText)},
		}},
		Indexes: []*ir.Index{{
			Name:    ir.NewIdent("idx_users_email"),
			Table:   ir.Unqualified("users"),
			Columns: []ir.IndexKey{{Column: &email}},
			Unique:  true,
			Where:   ir.NullTest{Expr: ir.ColumnRef{Name: "email"}, Negated: true},
		}},
	}
	got := Render(model, Options{})
	want := "CREATE UNIQUE INDEX idx_users_email ON users (email) WHERE email IS NOT NULL;\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("index statement mismatch:\n--- got ---\n%s--- want suffix ---\n%s", got, want)
	}
}

func TestRenderEnumChecks(t *testing.T) {
	col := column("mood", ir.SqliteText)
	col.EnumValues = []string{"sad", "ok", "happy"}
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("t"),
			Columns: []*ir.Column{col},
		}},
	}

	plain := Render(model, Options{})
	if strings.Contains(plain, "CHECK") {
		t.Errorf("enum checks are off by default:\n%s", plain)
	}

	emulated := Render(model, Options{EnumChecks: true})
	if !strings.Contains(emulated, "mood TEXT CHECK (mood IN ('sad', 'ok', 'happy'))") {
		t.Errorf("enum check emulation missing:\n%s", emulated)
	}
}

func TestRenderAutoincrement(t *testing.T) {
	id := column("id", ir.SqliteInteger)
	id.IsPrimaryKey = true
	id.AutoIncrement = true
	model := &ir.SchemaModel{
		Tables: []*ir.Table{{
			Name:    ir.Unqualified("t"),
			Columns: []*ir.Column{id},
		}},
	}
	got := Render(model, Options{})
	if !strings.Contains(got, "id INTEGER PRIMARY KEY AUTOINCREMENT") {
		t.Errorf("autoincrement column mismatch:\n%s", got)
	}
}

func TestRenderTrailingNewlineAndSeparation(t *testing.T) {
	model := &ir.SchemaModel{
		Tables: []*ir.Table{
			{Name: ir.Unqualified("a"), Columns: []*ir.Column{column("id", ir.SqliteInteger)}},
			{Name: ir.Unqualified("b"), Columns: []*ir.Column{column("id", ir.SqliteInteger)}},
		},
	}
	got := Render(model, Options{})
	if !strings.HasSuffix(got, ");\n") {
		t.Errorf("output must end with a trailing newline:\n%q", got)
	}
	if strings.Count(got, "\n\n") != 1 {
		t.Errorf("statements must be separated by exactly one blank line:\n%q", got)
	}
}

func TestRenderEmptyModel(t *testing.T) {
	if got := Render(&ir.SchemaModel{}, Options{}); got != "" {
		t.Errorf("empty model must render to empty output, got %q", got)
	}
}
