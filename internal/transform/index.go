package transform

import (
	"fmt"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// MapIndexes strips access methods, maps partial-index WHERE clauses and
// expression keys, and drops indexes that use features SQLite cannot
// evaluate.
func MapIndexes(model *ir.SchemaModel, log *diagnostic.Log) {
	var kept []*ir.Index
	for _, index := range model.Indexes {
		if mapped := mapIndex(index, log); mapped != nil {
			kept = append(kept, mapped)
		}
	}
	model.Indexes = kept
}

func mapIndex(index *ir.Index, log *diagnostic.Log) *ir.Index {
	obj := index.Name.Normalized

	// btree is SQLite's only structure, so that clause vanishes silently;
	// any other method is reported, since the index is built as a plain
	// btree.
	if index.Method != "" && index.Method != "btree" {
		log.Add(diagnostic.IndexMethodIgnored, diagnostic.SeverityInfo, obj,
			fmt.Sprintf("index method %q ignored; SQLite indexes are btree", index.Method))
	}

	out := &ir.Index{
		Name:   index.Name,
		Table:  index.Table,
		Unique: index.Unique,
	}

	if index.Where != nil {
		mapped, ok := MapIndexWhere(index.Where, obj, log)
		if !ok {
			return nil
		}
		out.Where = mapped
	}

	for _, key := range index.Columns {
		if key.Column != nil {
			out.Columns = append(out.Columns, ir.IndexKey{Column: key.Column})
			continue
		}
		mapped, ok := MapIndexExpr(key.Expr, obj, log)
		if !ok {
			return nil
		}
		out.Columns = append(out.Columns, ir.IndexKey{Expr: mapped})
	}

	return out
}
