package transform

import (
	"testing"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

func makeColumn(name string, kind ir.PgTypeKind) *ir.Column {
	return &ir.Column{Name: ir.NewIdent(name), Type: ir.PgType{Kind: kind}}
}

func makeTable(name string, columns []*ir.Column, constraints ...*ir.TableConstraint) *ir.Table {
	return &ir.Table{
		Name:        ir.Unqualified(name),
		Columns:     columns,
		Constraints: constraints,
	}
}

func fkConstraint(column, refTable string) *ir.TableConstraint {
	return &ir.TableConstraint{
		Kind:       ir.ConstraintForeignKey,
		Columns:    []ir.Ident{ir.NewIdent(column)},
		RefTable:   ir.Unqualified(refTable),
		RefColumns: []ir.Ident{ir.NewIdent("id")},
	}
}

func TestPlanMergesAlterConstraints(t *testing.T) {
	model := &ir.SchemaModel{
		Tables: []*ir.Table{
			makeTable("orders", []*ir.Column{
				makeColumn("id", ir.PgInteger),
				makeColumn("user_id", ir.PgInteger),
			}),
		},
		AlterConstraints: []*ir.AlterConstraint{
			{Table: ir.Unqualified("orders"), Constraint: fkConstraint("user_id", "users")},
		},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if len(model.Tables[0].Constraints) != 1 {
		t.Fatalf("expected merged constraint, got %d", len(model.Tables[0].Constraints))
	}
	if len(model.AlterConstraints) != 0 {
		t.Error("alter constraints should be consumed")
	}
}

func TestPlanAlterTargetMissing(t *testing.T) {
	model := &ir.SchemaModel{
		AlterConstraints: []*ir.AlterConstraint{
			{Table: ir.Unqualified("nope"), Constraint: fkConstraint("a", "b")},
		},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if !log.Has(diagnostic.AlterTargetMissing) {
		t.Error("expected ALTER_TARGET_MISSING warning")
	}
}

func TestPlanSerialSolePrimaryKey(t *testing.T) {
	col := makeColumn("id", ir.PgSerial)
	col.IsPrimaryKey = true
	model := &ir.SchemaModel{Tables: []*ir.Table{makeTable("users", []*ir.Column{col})}}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.Type.Kind != ir.PgInteger {
		t.Errorf("type = %v; want integer", col.Type)
	}
	if !col.IsPrimaryKey {
		t.Error("column should stay the primary key")
	}
	if col.Default != nil {
		t.Error("serial default must be stripped")
	}
	if !log.Has(diagnostic.SerialToRowid) {
		t.Error("expected SERIAL_TO_ROWID warning")
	}
}

func TestPlanSerialTableLevelPrimaryKey(t *testing.T) {
	col := makeColumn("id", ir.PgBigSerial)
	pk := &ir.TableConstraint{Kind: ir.ConstraintPrimaryKey, Columns: []ir.Ident{ir.NewIdent("id")}}
	model := &ir.SchemaModel{Tables: []*ir.Table{makeTable("users", []*ir.Column{col}, pk)}}
	log := &diagnostic.Log{}
	Plan(model, log)

	if !col.IsPrimaryKey || !log.Has(diagnostic.SerialToRowid) {
		t.Error("serial backed by a single-column table PK should become the rowid alias")
	}
}

func TestPlanSerialNotPrimaryKey(t *testing.T) {
	col := makeColumn("counter", ir.PgSerial)
	model := &ir.SchemaModel{Tables: []*ir.Table{makeTable("t", []*ir.Column{col})}}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.Type.Kind != ir.PgInteger {
		t.Errorf("type = %v; want integer", col.Type)
	}
	if col.IsPrimaryKey {
		t.Error("non-PK serial must not become a primary key")
	}
	if !log.Has(diagnostic.SerialNotPrimaryKey) {
		t.Error("expected SERIAL_NOT_PRIMARY_KEY warning")
	}
}

func TestPlanNextvalOverKnownSequence(t *testing.T) {
	col := makeColumn("id", ir.PgInteger)
	col.IsPrimaryKey = true
	col.Default = ir.NextVal{Sequence: ir.Unqualified("t_id_seq")}
	model := &ir.SchemaModel{
		Tables:    []*ir.Table{makeTable("t", []*ir.Column{col})},
		Sequences: []*ir.Sequence{{Name: ir.Unqualified("t_id_seq")}},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.Default != nil {
		t.Error("nextval default must be stripped")
	}
	if !log.Has(diagnostic.SerialToRowid) {
		t.Error("expected SERIAL_TO_ROWID warning")
	}
	if log.Has(diagnostic.SequenceIgnored) {
		t.Error("consumed sequence must not be reported as ignored")
	}
}

func TestPlanStandaloneSequenceIgnored(t *testing.T) {
	model := &ir.SchemaModel{
		Sequences: []*ir.Sequence{{Name: ir.Unqualified("orphan_seq")}},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if !log.Has(diagnostic.SequenceIgnored) {
		t.Error("expected SEQUENCE_IGNORED warning")
	}
}

func TestPlanFlattensDomain(t *testing.T) {
	col := makeColumn("contact", ir.PgUnknown)
	col.Type.Ref = ir.Unqualified("email")
	col.Type.Name = "email"
	model := &ir.SchemaModel{
		Tables: []*ir.Table{makeTable("t", []*ir.Column{col})},
		Domains: []*ir.DomainDef{{
			Name:     ir.Unqualified("email"),
			BaseType: ir.PgType{Kind: ir.PgText},
			NotNull:  true,
			Check:    ir.BinaryExpr{Left: ir.ColumnRef{Name: "VALUE"}, Op: "<>", Right: ir.StringLit{}},
		}},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.Type.Kind != ir.PgText {
		t.Errorf("type = %v; want text base", col.Type)
	}
	if !col.NotNull {
		t.Error("domain NOT NULL must be ANDed into the column")
	}
	check, ok := col.Check.(ir.BinaryExpr)
	if !ok {
		t.Fatalf("col.Check = %#v; want binary expression", col.Check)
	}
	if ref, ok := check.Left.(ir.ColumnRef); !ok || ref.Name != "contact" {
		t.Errorf("VALUE placeholder must be rewritten to the column name, got %#v", check.Left)
	}
	if !log.Has(diagnostic.DomainFlattened) {
		t.Error("expected DOMAIN_FLATTENED warning")
	}
}

func TestPlanBindsEnum(t *testing.T) {
	col := makeColumn("mood", ir.PgUnknown)
	col.Type.Ref = ir.Unqualified("mood")
	col.Type.Name = "mood"
	model := &ir.SchemaModel{
		Tables: []*ir.Table{makeTable("t", []*ir.Column{col})},
		Enums:  []*ir.EnumDef{{Name: ir.Unqualified("mood"), Values: []string{"sad", "ok", "happy"}}},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.Type.Kind != ir.PgEnum {
		t.Errorf("type kind = %d; want enum", col.Type.Kind)
	}
	if len(col.EnumValues) != 3 {
		t.Errorf("enum values = %v; want three", col.EnumValues)
	}
}

func TestPlanIdentitySolePrimaryKey(t *testing.T) {
	col := makeColumn("id", ir.PgBigInt)
	col.NotNull = true
	pk := &ir.TableConstraint{Kind: ir.ConstraintPrimaryKey, Columns: []ir.Ident{ir.NewIdent("id")}}
	model := &ir.SchemaModel{
		Tables: []*ir.Table{makeTable("seed", []*ir.Column{col, makeColumn("name", ir.PgText)}, pk)},
		IdentityAlters: []*ir.AlterIdentity{
			{Table: ir.Unqualified("seed"), Column: ir.NewIdent("id")},
		},
	}
	log := &diagnostic.Log{}
	Plan(model, log)

	if !col.AutoIncrement || !col.IsPrimaryKey {
		t.Error("identity over sole integer PK should become INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	if col.Type.Kind != ir.PgInteger {
		t.Errorf("type = %v; want integer", col.Type)
	}
	if len(model.Tables[0].Constraints) != 0 {
		t.Error("table-level PK should be removed")
	}
	if !log.Has(diagnostic.IdentityToAutoincrement) {
		t.Error("expected IDENTITY_TO_AUTOINCREMENT warning")
	}
}

func TestPlanIdentityWithoutPrimaryKey(t *testing.T) {
	col := makeColumn("id", ir.PgBigInt)
	col.Identity = true
	model := &ir.SchemaModel{Tables: []*ir.Table{makeTable("t", []*ir.Column{col})}}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.AutoIncrement || col.IsPrimaryKey {
		t.Error("identity without a PK must not auto-increment")
	}
	if !log.Has(diagnostic.IdentityNoPK) {
		t.Error("expected IDENTITY_NO_PK warning")
	}
}

func TestPlanIdentityNonIntegerBase(t *testing.T) {
	col := makeColumn("id", ir.PgUUID)
	col.Identity = true
	col.IsPrimaryKey = true
	model := &ir.SchemaModel{Tables: []*ir.Table{makeTable("t", []*ir.Column{col})}}
	log := &diagnostic.Log{}
	Plan(model, log)

	if col.AutoIncrement {
		t.Error("non-integer identity must not auto-increment")
	}
	if !log.Has(diagnostic.IdentityNoPK) {
		t.Error("expected IDENTITY_NO_PK warning")
	}
}
