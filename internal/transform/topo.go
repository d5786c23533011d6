package transform

import (
	"sort"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// OrderModel fixes the emission order. With foreign keys enabled, tables
// are sorted so every referenced table precedes its referencing tables,
// ties broken alphabetically; a reference cycle falls back to plain
// alphabetical order. With foreign keys disabled the order is alphabetical
// unconditionally. Indexes are ordered by (target table, index name).
func OrderModel(model *ir.SchemaModel, enableForeignKeys bool, log *diagnostic.Log) {
	if enableForeignKeys {
		sortTablesByDependency(model.Tables, log)
	} else {
		sortTablesByName(model.Tables)
	}

	sort.SliceStable(model.Indexes, func(i, j int) bool {
		a, b := model.Indexes[i], model.Indexes[j]
		if a.Table.Name.Normalized != b.Table.Name.Normalized {
			return a.Table.Name.Normalized < b.Table.Name.Normalized
		}
		return a.Name.Normalized < b.Name.Normalized
	})
}

func sortTablesByName(tables []*ir.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].Name.Name.Normalized < tables[j].Name.Name.Normalized
	})
}

// sortTablesByDependency is Kahn's algorithm over the FK graph, emitting
// referenced tables first and keeping every ready set alphabetical so the
// output is deterministic.
func sortTablesByDependency(tables []*ir.Table, log *diagnostic.Log) {
	indexByName := make(map[string]int, len(tables))
	for i, t := range tables {
		indexByName[t.Name.Name.Normalized] = i
	}

	inDegree := make([]int, len(tables))
	dependents := make([][]int, len(tables))
	for i, t := range tables {
		for dep := range fkDependencies(t) {
			depIdx, ok := indexByName[dep]
			if !ok || depIdx == i {
				continue
			}
			dependents[depIdx] = append(dependents[depIdx], i)
			inDegree[i]++
		}
	}

	var ready []int
	for i, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, i)
		}
	}
	sortByTableName(ready, tables)

	var order []int
	for len(ready) > 0 {
		idx := ready[0]
		ready = ready[1:]
		order = append(order, idx)

		var next []int
		for _, dep := range dependents[idx] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				next = append(next, dep)
			}
		}
		ready = append(ready, next...)
		sortByTableName(ready, tables)
	}

	if len(order) != len(tables) {
		log.Add(diagnostic.FKCycleFallback, diagnostic.SeverityInfo, "",
			"foreign-key reference cycle detected; tables ordered alphabetically")
		sortTablesByName(tables)
		return
	}

	sorted := make([]*ir.Table, len(tables))
	for pos, idx := range order {
		sorted[pos] = tables[idx]
	}
	copy(tables, sorted)
}

func sortByTableName(indexes []int, tables []*ir.Table) {
	sort.Slice(indexes, func(a, b int) bool {
		return tables[indexes[a]].Name.Name.Normalized < tables[indexes[b]].Name.Name.Normalized
	})
}

// fkDependencies collects the normalized names of every table this table
// references through a surviving foreign key.
func fkDependencies(table *ir.Table) map[string]bool {
	deps := make(map[string]bool)
	for _, c := range table.Constraints {
		if c.Kind == ir.ConstraintForeignKey {
			deps[c.RefTable.Name.Normalized] = true
		}
	}
	for _, col := range table.Columns {
		if col.References != nil {
			deps[col.References.Table.Name.Normalized] = true
		}
	}
	return deps
}
