package transform

import (
	"fmt"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// MapConstraints decides the SQLite shape of every constraint: rowid-alias
// promotion for single-column integer primary keys, foreign-key gating and
// modifier stripping, CHECK expression mapping, and constraint-name drops.
func MapConstraints(model *ir.SchemaModel, enableForeignKeys bool, log *diagnostic.Log) {
	tableNames := make(map[string]bool, len(model.Tables))
	for _, t := range model.Tables {
		tableNames[t.Name.Name.Normalized] = true
	}

	for _, table := range model.Tables {
		mapTableConstraints(table, tableNames, enableForeignKeys, log)
	}
}

func mapTableConstraints(table *ir.Table, tableNames map[string]bool, enableForeignKeys bool, log *diagnostic.Log) {
	tableName := table.Name.Name.Normalized

	// Names are reported before PK promotion, which removes the table-level
	// entry of a promoted primary key.
	for _, c := range table.Constraints {
		if c.Name != nil {
			log.Add(diagnostic.ConstraintNameDropped, diagnostic.SeverityInfo, tableName,
				fmt.Sprintf("constraint name %q dropped; SQLite ignores constraint names", c.Name.Normalized))
		}
	}

	promoteIntegerPrimaryKey(table)
	demoteNonIntegerPrimaryKey(table)

	var kept []*ir.TableConstraint
	for _, c := range table.Constraints {
		switch c.Kind {
		case ir.ConstraintPrimaryKey, ir.ConstraintUnique:
			kept = append(kept, c)

		case ir.ConstraintForeignKey:
			if !enableForeignKeys {
				continue
			}
			if !tableNames[c.RefTable.Name.Normalized] {
				log.Add(diagnostic.FKTargetMissing, diagnostic.SeverityUnsupported, tableName,
					fmt.Sprintf("foreign key references missing table %q; constraint dropped", c.RefTable.Name.Normalized))
				continue
			}
			if c.Deferrable || c.InitiallyDeferred {
				log.Add(diagnostic.DeferrableSemanticsChanged, diagnostic.SeverityLossy, tableName,
					"DEFERRABLE modifier dropped; SQLite checks foreign keys immediately")
				c.Deferrable = false
				c.InitiallyDeferred = false
			}
			if c.MatchFull {
				log.Add(diagnostic.FKMatchIgnored, diagnostic.SeverityLossy, tableName,
					"MATCH FULL modifier dropped from foreign key")
				c.MatchFull = false
			}
			kept = append(kept, c)

		case ir.ConstraintCheck:
			obj := tableName + ".CHECK"
			mapped, ok := MapCheckExpr(c.Expr, obj, log)
			if !ok {
				continue
			}
			c.Expr = mapped
			kept = append(kept, c)
		}
	}
	table.Constraints = kept

	for _, col := range table.Columns {
		obj := tableName + "." + col.Name.Normalized

		if col.Check != nil {
			mapped, ok := MapCheckExpr(col.Check, obj, log)
			if ok {
				col.Check = mapped
			} else {
				col.Check = nil
			}
		}

		if col.References != nil {
			switch {
			case !enableForeignKeys:
				col.References = nil
			case !tableNames[col.References.Table.Name.Normalized]:
				log.Add(diagnostic.FKTargetMissing, diagnostic.SeverityUnsupported, obj,
					fmt.Sprintf("foreign key references missing table %q; constraint dropped", col.References.Table.Name.Normalized))
				col.References = nil
			}
		}
	}
}

// promoteIntegerPrimaryKey turns a table-level single-column PRIMARY KEY
// over an integer column into the inline form, making the column a rowid
// alias.
func promoteIntegerPrimaryKey(table *ir.Table) {
	for i, c := range table.Constraints {
		if c.Kind != ir.ConstraintPrimaryKey || len(c.Columns) != 1 {
			continue
		}
		col := table.FindColumn(c.Columns[0].Normalized)
		if col == nil {
			return
		}
		if col.AutoIncrement {
			// Identity resolution already removed the table-level entry.
			return
		}
		isInteger := col.Type.IsIntegerFamily() ||
			(col.SqliteType != nil && *col.SqliteType == ir.SqliteInteger)
		if isInteger {
			col.IsPrimaryKey = true
			table.Constraints = append(table.Constraints[:i], table.Constraints[i+1:]...)
		}
		return
	}
}

// demoteNonIntegerPrimaryKey moves an inline PRIMARY KEY on a non-integer
// column to the table level. Only an INTEGER primary key stays inline, where
// it aliases the rowid.
func demoteNonIntegerPrimaryKey(table *ir.Table) {
	for _, col := range table.Columns {
		if !col.IsPrimaryKey || col.AutoIncrement {
			continue
		}
		isInteger := col.Type.IsIntegerFamily() ||
			(col.SqliteType != nil && *col.SqliteType == ir.SqliteInteger)
		if isInteger {
			continue
		}
		col.IsPrimaryKey = false
		table.Constraints = append(table.Constraints, &ir.TableConstraint{
			Kind:    ir.ConstraintPrimaryKey,
			Columns: []ir.Ident{col.Name},
		})
	}
}
