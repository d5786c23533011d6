// Package pg2sqlite converts PostgreSQL 16 DDL text into SQLite3 DDL text.
// The conversion is a pure function of the input and the options: no
// database connection, no persisted state, byte-identical output for
// identical input.
package pg2sqlite

import (
	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/internal/render"
	"github.com/pg2sqlite/pg2sqlite/internal/transform"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// Options configures a conversion.
type Options struct {
	// Schema is the single schema to convert. Empty means "public".
	Schema string
	// IncludeAllSchemas converts every schema, mangling colliding table
	// names to schema__name.
	IncludeAllSchemas bool
	// EnableForeignKeys emits PRAGMA foreign_keys = ON, keeps foreign-key
	// constraints, and orders tables so referenced tables come first.
	EnableForeignKeys bool
	// Strict fails the conversion when any Lossy-or-higher diagnostic was
	// emitted.
	Strict bool
	// EnumChecks emulates PostgreSQL enums with CHECK (col IN (...)).
	EnumChecks bool
}

// Result is the outcome of a conversion. When Convert also returns an
// error, SQL is empty and only Warnings is set.
type Result struct {
	// SQL is the generated SQLite DDL script.
	SQL string
	// Warnings are the diagnostics accumulated across all stages, in
	// emission order.
	Warnings []diagnostic.Warning
}

// Convert runs the full pipeline: parse, normalize, plan, map types,
// expressions, constraints and indexes, resolve names, order, render.
//
// Mapping stages never abort on a single feature loss; they log a warning
// and continue. On a strict-mode violation no SQL is produced, but the
// returned Result still carries every accumulated warning alongside the
// error.
func Convert(input string, opts Options) (*Result, error) {
	log := &diagnostic.Log{}

	parser := ir.NewParser(log)
	model, err := parser.Parse(input)
	if err != nil {
		return &Result{Warnings: log.Warnings()}, err
	}

	ir.Normalize(model, ir.NormalizeOptions{
		Schema:            opts.Schema,
		IncludeAllSchemas: opts.IncludeAllSchemas,
	})

	transform.Plan(model, log)
	transform.MapTypes(model, log)
	mapDefaults(model, log)
	transform.MapConstraints(model, opts.EnableForeignKeys, log)
	transform.MapIndexes(model, log)
	transform.ResolveNames(model, opts.IncludeAllSchemas, log)
	transform.OrderModel(model, opts.EnableForeignKeys, log)

	sql := render.Render(model, render.Options{
		EnableForeignKeys: opts.EnableForeignKeys,
		EnumChecks:        opts.EnumChecks,
	})

	warnings := log.Warnings()
	if opts.Strict {
		if err := diagnostic.CheckStrict(warnings); err != nil {
			// No output text on an abortive error; the warning list that
			// accumulated up to this point is still returned.
			return &Result{Warnings: warnings}, err
		}
	}

	return &Result{SQL: sql, Warnings: warnings}, nil
}

// mapDefaults runs every surviving column DEFAULT through the expression
// mapper in DefaultExpr mode.
func mapDefaults(model *ir.SchemaModel, log *diagnostic.Log) {
	for _, table := range model.Tables {
		for _, col := range table.Columns {
			if col.Default == nil {
				continue
			}
			obj := table.Name.Name.Normalized + "." + col.Name.Normalized
			mapped, ok := transform.MapDefaultExpr(col.Default, obj, log)
			if ok {
				col.Default = mapped
			} else {
				col.Default = nil
			}
		}
	}
}
