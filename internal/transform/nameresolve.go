package transform

import (
	"fmt"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// ResolveNames strips schema qualifiers from every identifier. With
// includeAllSchemas, tables whose bare name collides across schemas are
// renamed to schema__name; the rewrite map is applied to table names,
// foreign-key targets, and index targets alike.
func ResolveNames(model *ir.SchemaModel, includeAllSchemas bool, log *diagnostic.Log) {
	if !includeAllSchemas {
		stripSchemas(model)
		return
	}

	// Group tables by bare name to find collisions.
	byName := make(map[string][]*ir.Table)
	for _, t := range model.Tables {
		byName[t.Name.Name.Normalized] = append(byName[t.Name.Name.Normalized], t)
	}

	// renames maps "schema.name" to the mangled identifier.
	renames := make(map[string]string)
	for name, tables := range byName {
		if len(tables) < 2 {
			continue
		}
		for _, t := range tables {
			if t.Name.Schema == nil {
				continue
			}
			schema := t.Name.Schema.Normalized
			mangled := schema + "__" + name
			renames[schema+"."+name] = mangled
			log.Add(diagnostic.SchemaPrefixed, diagnostic.SeverityLossy, mangled,
				fmt.Sprintf("table %q renamed to %q to avoid a cross-schema collision", schema+"."+name, mangled))
		}
	}

	rewrite := func(q ir.QualifiedName) ir.QualifiedName {
		if q.Schema != nil {
			if mangled, ok := renames[q.Schema.Normalized+"."+q.Name.Normalized]; ok {
				return ir.Unqualified(mangled)
			}
		}
		return ir.Unqualified(q.Name.Raw)
	}

	for _, table := range model.Tables {
		table.Name = rewrite(table.Name)
		for _, c := range table.Constraints {
			if c.Kind == ir.ConstraintForeignKey {
				c.RefTable = rewrite(c.RefTable)
			}
		}
		for _, col := range table.Columns {
			if col.References != nil {
				col.References.Table = rewrite(col.References.Table)
			}
		}
	}
	for _, index := range model.Indexes {
		index.Table = rewrite(index.Table)
	}
}

func stripSchemas(model *ir.SchemaModel) {
	for _, table := range model.Tables {
		table.Name.Schema = nil
		for _, c := range table.Constraints {
			if c.Kind == ir.ConstraintForeignKey {
				c.RefTable.Schema = nil
			}
		}
		for _, col := range table.Columns {
			if col.References != nil {
				col.References.Table.Schema = nil
			}
		}
	}
	for _, index := range model.Indexes {
		index.Table.Schema = nil
	}
}
