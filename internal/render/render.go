// Package render emits the final SQLite DDL text. Output is deterministic:
// stable quoting, fixed constraint ordering, single-blank-line statement
// separation, trailing newline.
package render

import (
	"strings"

	"github.com/pg2sqlite/pg2sqlite/ir"
)

// Options controls rendering.
type Options struct {
	// EnableForeignKeys emits the PRAGMA prologue and foreign-key clauses.
	EnableForeignKeys bool
	// EnumChecks appends CHECK (col IN (...)) for columns whose type was a
	// PostgreSQL enum.
	EnumChecks bool
}

// Render produces the SQLite DDL script for the model. Tables must already
// be in final order.
func Render(model *ir.SchemaModel, opts Options) string {
	var statements []string

	if opts.EnableForeignKeys {
		statements = append(statements, "PRAGMA foreign_keys = ON;")
	}

	for _, table := range model.Tables {
		statements = append(statements, renderTable(table, opts))
	}
	for _, index := range model.Indexes {
		statements = append(statements, renderIndex(index))
	}

	if len(statements) == 0 {
		return ""
	}
	return strings.Join(statements, "\n\n") + "\n"
}

func renderTable(table *ir.Table, opts Options) string {
	var lines []string

	for _, col := range table.Columns {
		lines = append(lines, "  "+renderColumn(col, opts))
	}

	// Fixed table-constraint order: PRIMARY KEY, UNIQUE, CHECK, FOREIGN KEY.
	for _, kind := range []ir.ConstraintKind{
		ir.ConstraintPrimaryKey,
		ir.ConstraintUnique,
		ir.ConstraintCheck,
		ir.ConstraintForeignKey,
	} {
		for _, c := range table.Constraints {
			if c.Kind == kind {
				lines = append(lines, "  "+renderConstraint(c))
			}
		}
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(table.Name.SQL())
	b.WriteString(" (\n")
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);")
	return b.String()
}

func renderColumn(col *ir.Column, opts Options) string {
	var b strings.Builder
	b.WriteString(col.Name.SQL())
	b.WriteString(" ")
	if col.SqliteType != nil {
		b.WriteString(col.SqliteType.String())
	} else {
		b.WriteString(ir.SqliteText.String())
	}

	if col.IsPrimaryKey {
		b.WriteString(" PRIMARY KEY")
		if col.AutoIncrement {
			b.WriteString(" AUTOINCREMENT")
		}
	} else if col.NotNull {
		// INTEGER PRIMARY KEY already implies NOT NULL.
		b.WriteString(" NOT NULL")
	}

	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(renderDefault(col.Default))
	}

	if col.IsUnique && !col.IsPrimaryKey {
		b.WriteString(" UNIQUE")
	}

	if col.Check != nil {
		b.WriteString(" CHECK ")
		b.WriteString(parenthesized(col.Check))
	}
	if opts.EnumChecks && len(col.EnumValues) > 0 {
		b.WriteString(" CHECK ")
		b.WriteString(enumCheck(col))
	}

	if col.References != nil {
		b.WriteString(" REFERENCES ")
		b.WriteString(col.References.Table.SQL())
		if col.References.Column != nil {
			b.WriteString("(")
			b.WriteString(col.References.Column.SQL())
			b.WriteString(")")
		}
		b.WriteString(renderActions(col.References.OnDelete, col.References.OnUpdate))
	}

	return b.String()
}

// renderDefault wraps function-like default values in parentheses, which
// SQLite requires for anything that is not a plain literal.
func renderDefault(expr ir.Expr) string {
	switch expr.(type) {
	case ir.TimeValue, ir.FuncCall:
		return "(" + expr.SQL() + ")"
	default:
		return expr.SQL()
	}
}

func enumCheck(col *ir.Column) string {
	items := make([]string, len(col.EnumValues))
	for i, v := range col.EnumValues {
		items[i] = ir.StringLit{Value: v}.SQL()
	}
	return "(" + col.Name.SQL() + " IN (" + strings.Join(items, ", ") + "))"
}

func renderConstraint(c *ir.TableConstraint) string {
	switch c.Kind {
	case ir.ConstraintPrimaryKey:
		return "PRIMARY KEY (" + columnList(c.Columns) + ")"
	case ir.ConstraintUnique:
		return "UNIQUE (" + columnList(c.Columns) + ")"
	case ir.ConstraintCheck:
		return "CHECK " + parenthesized(c.Expr)
	case ir.ConstraintForeignKey:
		var b strings.Builder
		b.WriteString("FOREIGN KEY (")
		b.WriteString(columnList(c.Columns))
		b.WriteString(") REFERENCES ")
		b.WriteString(c.RefTable.SQL())
		if len(c.RefColumns) > 0 {
			b.WriteString("(")
			b.WriteString(columnList(c.RefColumns))
			b.WriteString(")")
		}
		b.WriteString(renderActions(c.OnDelete, c.OnUpdate))
		return b.String()
	default:
		return ""
	}
}

func renderActions(onDelete, onUpdate ir.FkAction) string {
	var b strings.Builder
	if onDelete != ir.FkActionUnspecified {
		b.WriteString(" ON DELETE ")
		b.WriteString(onDelete.String())
	}
	if onUpdate != ir.FkActionUnspecified {
		b.WriteString(" ON UPDATE ")
		b.WriteString(onUpdate.String())
	}
	return b.String()
}

func renderIndex(index *ir.Index) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if index.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	b.WriteString(index.Name.SQL())
	b.WriteString(" ON ")
	b.WriteString(index.Table.SQL())
	b.WriteString(" (")
	keys := make([]string, len(index.Columns))
	for i, key := range index.Columns {
		if key.Column != nil {
			keys[i] = key.Column.SQL()
		} else {
			keys[i] = key.Expr.SQL()
		}
	}
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString(")")
	if index.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(stripOuterParen(index.Where).SQL())
	}
	b.WriteString(";")
	return b.String()
}

func columnList(columns []ir.Ident) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c.SQL()
	}
	return strings.Join(parts, ", ")
}

// parenthesized renders an expression with exactly one pair of outer
// parentheses.
func parenthesized(expr ir.Expr) string {
	return "(" + stripOuterParen(expr).SQL() + ")"
}

func stripOuterParen(expr ir.Expr) ir.Expr {
	for {
		paren, ok := expr.(ir.Paren)
		if !ok {
			return expr
		}
		expr = paren.Expr
	}
}
