// Package transform holds the pipeline stages between the parsed IR and the
// renderer: planning, type/expression/constraint/index mapping, name
// resolution, and dependency ordering. Every stage appends diagnostics and
// never aborts on a single feature loss.
package transform

import (
	"fmt"
	"strings"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// Plan reshapes the model so the mapping stages see a self-contained
// per-table view: standalone ALTER constraints are merged into their
// tables, identity and SERIAL columns are resolved into rowid-alias
// candidates, domains are flattened, and enum references are bound.
func Plan(model *ir.SchemaModel, log *diagnostic.Log) {
	mergeAlterConstraints(model, log)
	resolveIdentities(model, log)
	resolveSerials(model, log)
	flattenDomains(model, log)
	bindEnums(model)
}

// findAlterTarget resolves an ALTER TABLE target. The schema qualifier is
// honored when both sides carry one, so an all-schemas run routes the
// constraint to the right table even when bare names collide.
func findAlterTarget(model *ir.SchemaModel, target ir.QualifiedName) *ir.Table {
	for _, t := range model.Tables {
		if t.Name.Name.Normalized != target.Name.Normalized {
			continue
		}
		if target.Schema != nil && t.Name.Schema != nil &&
			target.Schema.Normalized != t.Name.Schema.Normalized {
			continue
		}
		return t
	}
	return nil
}

func mergeAlterConstraints(model *ir.SchemaModel, log *diagnostic.Log) {
	alters := model.AlterConstraints
	model.AlterConstraints = nil

	for _, alter := range alters {
		table := findAlterTarget(model, alter.Table)
		if table == nil {
			log.Add(diagnostic.AlterTargetMissing, diagnostic.SeverityUnsupported,
				alter.Table.Name.Normalized,
				fmt.Sprintf("ALTER TABLE target %q not found; constraint skipped", alter.Table.Name.Normalized))
			continue
		}
		table.Constraints = append(table.Constraints, alter.Constraint)
	}
}

// resolveIdentities handles GENERATED ... AS IDENTITY, both the inline form
// and ALTER TABLE ... ADD GENERATED. A sole integer primary-key identity
// column becomes INTEGER PRIMARY KEY AUTOINCREMENT; everything else loses
// the identity clause.
func resolveIdentities(model *ir.SchemaModel, log *diagnostic.Log) {
	identities := model.IdentityAlters
	model.IdentityAlters = nil

	for _, alter := range identities {
		table := findAlterTarget(model, alter.Table)
		if table == nil {
			log.Add(diagnostic.AlterTargetMissing, diagnostic.SeverityUnsupported,
				alter.Table.Name.Normalized,
				fmt.Sprintf("ALTER TABLE target %q not found; identity skipped", alter.Table.Name.Normalized))
			continue
		}
		col := table.FindColumn(alter.Column.Normalized)
		if col == nil {
			obj := table.Name.Name.Normalized + "." + alter.Column.Normalized
			log.Add(diagnostic.AlterTargetMissing, diagnostic.SeverityUnsupported, obj,
				fmt.Sprintf("identity column %q not found; skipped", obj))
			continue
		}
		col.Identity = true
	}

	for _, table := range model.Tables {
		pkCols := table.PrimaryKeyColumns()
		for _, col := range table.Columns {
			if !col.Identity {
				continue
			}
			col.Identity = false
			obj := table.Name.Name.Normalized + "." + col.Name.Normalized

			solePK := col.IsPrimaryKey || (len(pkCols) == 1 && pkCols[0] == col.Name.Normalized)

			if solePK && col.Type.IsIntegerFamily() {
				col.Type = ir.PgType{Kind: ir.PgInteger}
				col.IsPrimaryKey = true
				col.AutoIncrement = true
				col.Default = nil
				for _, c := range table.Constraints {
					if c.Kind == ir.ConstraintPrimaryKey && c.Name != nil {
						log.Add(diagnostic.ConstraintNameDropped, diagnostic.SeverityInfo, table.Name.Name.Normalized,
							fmt.Sprintf("constraint name %q dropped; SQLite ignores constraint names", c.Name.Normalized))
					}
				}
				removePrimaryKeyConstraint(table)
				log.Add(diagnostic.IdentityToAutoincrement, diagnostic.SeverityLossy, obj,
					"IDENTITY + PRIMARY KEY mapped to INTEGER PRIMARY KEY AUTOINCREMENT")
			} else {
				log.Add(diagnostic.IdentityNoPK, diagnostic.SeverityUnsupported, obj,
					"IDENTITY column is not a sole integer primary key; identity clause dropped")
			}
		}
	}
}

// resolveSerials handles serial/bigserial columns and DEFAULT nextval(seq)
// over a known sequence. A sole primary-key serial becomes a rowid-alias
// candidate; any other serial maps to plain INTEGER without auto-increment.
// In both cases the sequence default is stripped.
func resolveSerials(model *ir.SchemaModel, log *diagnostic.Log) {
	knownSequences := make(map[string]bool, len(model.Sequences))
	for _, seq := range model.Sequences {
		knownSequences[seq.Name.Name.Normalized] = true
	}
	consumed := make(map[string]bool)

	for _, table := range model.Tables {
		pkCols := table.PrimaryKeyColumns()

		for _, col := range table.Columns {
			isSerial := col.Type.IsSerial()
			var seqName string
			if nv, ok := col.Default.(ir.NextVal); ok && knownSequences[nv.Sequence.Name.Normalized] {
				seqName = nv.Sequence.Name.Normalized
			}
			if !isSerial && seqName == "" {
				continue
			}

			obj := table.Name.Name.Normalized + "." + col.Name.Normalized
			if seqName != "" {
				consumed[seqName] = true
			}

			col.Type = ir.PgType{Kind: ir.PgInteger}
			col.Default = nil

			solePK := col.IsPrimaryKey || (len(pkCols) == 1 && pkCols[0] == col.Name.Normalized)
			if solePK {
				col.IsPrimaryKey = true
				log.Add(diagnostic.SerialToRowid, diagnostic.SeverityLossy, obj,
					"SERIAL column mapped to INTEGER PRIMARY KEY (rowid alias)")
			} else {
				log.Add(diagnostic.SerialNotPrimaryKey, diagnostic.SeverityLossy, obj,
					"SERIAL column is not the sole primary key; mapped to INTEGER without auto-increment")
			}
		}
	}

	for _, seq := range model.Sequences {
		if consumed[seq.Name.Name.Normalized] {
			continue
		}
		log.Add(diagnostic.SequenceIgnored, diagnostic.SeverityInfo,
			seq.Name.Name.Normalized,
			fmt.Sprintf("sequence %q has no SQLite equivalent; ignored", seq.Name.Name.Normalized))
	}
}

// flattenDomains substitutes each domain reference with its base type, ANDs
// the domain's NOT NULL into the column, and appends the domain's CHECK.
func flattenDomains(model *ir.SchemaModel, log *diagnostic.Log) {
	domains := make(map[string]*ir.DomainDef, len(model.Domains))
	for _, d := range model.Domains {
		domains[d.Name.Name.Normalized] = d
	}
	if len(domains) == 0 {
		return
	}

	for _, table := range model.Tables {
		for _, col := range table.Columns {
			if col.Type.Kind != ir.PgUnknown && col.Type.Kind != ir.PgDomain {
				continue
			}
			domain, ok := domains[col.Type.Ref.Name.Normalized]
			if !ok {
				continue
			}
			obj := table.Name.Name.Normalized + "." + col.Name.Normalized

			col.Type = domain.BaseType
			col.NotNull = col.NotNull || domain.NotNull
			if domain.Check != nil {
				check := substituteValueRef(domain.Check, col.Name)
				if col.Check != nil {
					col.Check = ir.BinaryExpr{Left: col.Check, Op: "AND", Right: check}
				} else {
					col.Check = check
				}
			}
			if col.Default == nil && domain.Default != nil {
				col.Default = domain.Default
			}
			log.Add(diagnostic.DomainFlattened, diagnostic.SeverityInfo, obj,
				fmt.Sprintf("domain %q flattened to %s", domain.Name.Name.Normalized, col.Type))
		}
	}
}

// substituteValueRef rewrites the VALUE placeholder of a domain CHECK into
// a reference to the column the domain was flattened onto.
func substituteValueRef(expr ir.Expr, col ir.Ident) ir.Expr {
	switch e := expr.(type) {
	case ir.ColumnRef:
		if strings.EqualFold(e.Name, "value") {
			return ir.ColumnRef{Name: col.Raw}
		}
		return e
	case ir.FuncCall:
		args := make([]ir.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = substituteValueRef(a, col)
		}
		return ir.FuncCall{Name: e.Name, Args: args}
	case ir.CastExpr:
		return ir.CastExpr{Expr: substituteValueRef(e.Expr, col), TypeName: e.TypeName}
	case ir.BinaryExpr:
		return ir.BinaryExpr{
			Left:  substituteValueRef(e.Left, col),
			Op:    e.Op,
			Right: substituteValueRef(e.Right, col),
		}
	case ir.UnaryExpr:
		return ir.UnaryExpr{Op: e.Op, Expr: substituteValueRef(e.Expr, col)}
	case ir.NullTest:
		return ir.NullTest{Expr: substituteValueRef(e.Expr, col), Negated: e.Negated}
	case ir.InList:
		list := make([]ir.Expr, len(e.List))
		for i, item := range e.List {
			list[i] = substituteValueRef(item, col)
		}
		return ir.InList{Expr: substituteValueRef(e.Expr, col), List: list, Negated: e.Negated}
	case ir.Between:
		return ir.Between{
			Expr:    substituteValueRef(e.Expr, col),
			Low:     substituteValueRef(e.Low, col),
			High:    substituteValueRef(e.High, col),
			Negated: e.Negated,
		}
	case ir.Paren:
		return ir.Paren{Expr: substituteValueRef(e.Expr, col)}
	default:
		return expr
	}
}

// bindEnums rewrites columns whose unresolved type names an enum definition,
// attaching the value list for optional CHECK emulation.
func bindEnums(model *ir.SchemaModel) {
	enums := make(map[string]*ir.EnumDef, len(model.Enums))
	for _, e := range model.Enums {
		enums[e.Name.Name.Normalized] = e
	}
	if len(enums) == 0 {
		return
	}

	for _, table := range model.Tables {
		for _, col := range table.Columns {
			if col.Type.Kind != ir.PgUnknown {
				continue
			}
			enum, ok := enums[col.Type.Ref.Name.Normalized]
			if !ok {
				continue
			}
			col.Type = ir.PgType{Kind: ir.PgEnum, Ref: enum.Name, Name: enum.Name.Key()}
			col.EnumValues = enum.Values
		}
	}
}

func removePrimaryKeyConstraint(table *ir.Table) {
	kept := table.Constraints[:0]
	for _, c := range table.Constraints {
		if c.Kind != ir.ConstraintPrimaryKey {
			kept = append(kept, c)
		}
	}
	table.Constraints = kept
}
