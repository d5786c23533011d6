package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

func TestDefaultLiteralPassthrough(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapDefaultExpr(ir.IntegerLit{Value: 42}, "t.c", log)
	if !ok {
		t.Fatal("literal default should survive")
	}
	if diff := cmp.Diff(ir.IntegerLit{Value: 42}, got); diff != "" {
		t.Errorf("mapped expr mismatch:\n%s", diff)
	}
	if len(log.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", log.Warnings())
	}
}

func TestDefaultBooleanToInteger(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapDefaultExpr(ir.BoolLit{Value: true}, "t.c", log)
	if !ok {
		t.Fatal("boolean default should survive")
	}
	if lit, isInt := got.(ir.IntegerLit); !isInt || lit.Value != 1 {
		t.Errorf("mapped = %#v; want 1", got)
	}
	if !log.Has(diagnostic.BooleanAsInteger) {
		t.Error("expected BOOLEAN_AS_INTEGER warning")
	}

	got, _ = MapDefaultExpr(ir.BoolLit{Value: false}, "t.c", log)
	if lit, isInt := got.(ir.IntegerLit); !isInt || lit.Value != 0 {
		t.Errorf("mapped = %#v; want 0", got)
	}
}

func TestDefaultNowBecomesCurrentTimestamp(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapDefaultExpr(ir.FuncCall{Name: "now"}, "t.c", log)
	if !ok {
		t.Fatal("now() default should survive")
	}
	if tv, isTV := got.(ir.TimeValue); !isTV || tv.Name != "CURRENT_TIMESTAMP" {
		t.Errorf("mapped = %#v; want CURRENT_TIMESTAMP", got)
	}
}

func TestDefaultCurrentDatePassthrough(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapDefaultExpr(ir.TimeValue{Name: "CURRENT_DATE"}, "t.c", log)
	if !ok || got.(ir.TimeValue).Name != "CURRENT_DATE" {
		t.Errorf("mapped = %#v; want CURRENT_DATE", got)
	}
}

func TestDefaultNextvalRemoved(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapDefaultExpr(ir.NextVal{Sequence: ir.Unqualified("s")}, "t.id", log)
	if ok {
		t.Fatal("nextval default must be dropped")
	}
	if !log.Has(diagnostic.NextvalRemoved) {
		t.Error("expected NEXTVAL_REMOVED warning")
	}
	if log.Has(diagnostic.DefaultUnsupported) {
		t.Error("nextval drop must not also report DEFAULT_UNSUPPORTED")
	}
}

func TestDefaultCastStripped(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapDefaultExpr(ir.CastExpr{Expr: ir.StringLit{Value: "x"}, TypeName: "text"}, "t.c", log)
	if !ok {
		t.Fatal("cast default should survive with the cast removed")
	}
	if _, isLit := got.(ir.StringLit); !isLit {
		t.Errorf("mapped = %#v; want bare string literal", got)
	}
	if !log.Has(diagnostic.CastRemoved) {
		t.Error("expected CAST_REMOVED warning")
	}
}

func TestDefaultUuidGenerateRemoved(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapDefaultExpr(ir.FuncCall{Name: "uuid_generate_v4"}, "t.id", log)
	if ok {
		t.Fatal("uuid_generate_v4 default must be dropped")
	}
	if !log.Has(diagnostic.UUIDDefaultRemoved) {
		t.Error("expected UUID_DEFAULT_REMOVED warning")
	}
	if log.Has(diagnostic.DefaultUnsupported) {
		t.Error("uuid default drop must not also report DEFAULT_UNSUPPORTED")
	}
}

func TestDefaultUnsupportedFunction(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapDefaultExpr(ir.FuncCall{Name: "gen_random_uuid"}, "t.id", log)
	if ok {
		t.Fatal("unknown function default must be dropped")
	}
	if !log.Has(diagnostic.DefaultUnsupported) {
		t.Error("expected DEFAULT_UNSUPPORTED warning")
	}
}

func TestCheckCompatibleSubsetSurvives(t *testing.T) {
	expr := ir.Paren{Expr: ir.BinaryExpr{
		Left:  ir.FuncCall{Name: "length", Args: []ir.Expr{ir.ColumnRef{Name: "name"}}},
		Op:    ">",
		Right: ir.IntegerLit{Value: 0},
	}}
	log := &diagnostic.Log{}
	got, ok := MapCheckExpr(expr, "t", log)
	if !ok {
		t.Fatalf("compatible CHECK should survive, warnings: %v", log.Warnings())
	}
	if got.SQL() != "(length(name) > 0)" {
		t.Errorf("SQL = %q", got.SQL())
	}
}

func TestCheckInListWithCasts(t *testing.T) {
	expr := ir.InList{
		Expr: ir.ColumnRef{Name: "account"},
		List: []ir.Expr{
			ir.CastExpr{Expr: ir.StringLit{Value: "client"}, TypeName: "text"},
			ir.CastExpr{Expr: ir.StringLit{Value: "deposit"}, TypeName: "text"},
		},
	}
	log := &diagnostic.Log{}
	got, ok := MapCheckExpr(expr, "t", log)
	if !ok {
		t.Fatal("IN list CHECK should survive")
	}
	if got.SQL() != "account IN ('client', 'deposit')" {
		t.Errorf("SQL = %q", got.SQL())
	}
	if !log.Has(diagnostic.CastRemoved) {
		t.Error("expected CAST_REMOVED warnings")
	}
}

func TestCheckUnsupportedDropped(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapCheckExpr(ir.RawExpr{Text: "EXISTS (SELECT 1)"}, "t", log)
	if ok {
		t.Fatal("raw expression CHECK must be dropped")
	}
	if !log.Has(diagnostic.CheckExpressionUnsupported) {
		t.Error("expected CHECK_EXPRESSION_UNSUPPORTED warning")
	}
}

func TestCheckQualifiedReferenceRejected(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapCheckExpr(ir.ColumnRef{Name: "other.column"}, "t", log)
	if ok {
		t.Error("qualified identifier reference must be rejected")
	}
}

func TestCheckUnsupportedOperatorRejected(t *testing.T) {
	expr := ir.BinaryExpr{
		Left:  ir.ColumnRef{Name: "data"},
		Op:    "@>",
		Right: ir.StringLit{Value: "{}"},
	}
	log := &diagnostic.Log{}
	if _, ok := MapCheckExpr(expr, "t", log); ok {
		t.Error("JSON containment operator must be rejected")
	}
}

func TestIndexWhereUnsupported(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapIndexWhere(ir.FuncCall{Name: "uuid_generate_v4"}, "idx", log)
	if ok {
		t.Fatal("unsupported WHERE must be rejected")
	}
	if !log.Has(diagnostic.PartialIndexUnsupported) {
		t.Error("expected PARTIAL_INDEX_UNSUPPORTED warning")
	}
}

func TestIndexExprUnsupported(t *testing.T) {
	log := &diagnostic.Log{}
	_, ok := MapIndexExpr(ir.FuncCall{Name: "to_tsvector", Args: []ir.Expr{ir.ColumnRef{Name: "body"}}}, "idx", log)
	if ok {
		t.Fatal("unsupported index expression must be rejected")
	}
	if !log.Has(diagnostic.ExpressionIndexUnsupported) {
		t.Error("expected EXPRESSION_INDEX_UNSUPPORTED warning")
	}
}

func TestIndexExprCompatible(t *testing.T) {
	log := &diagnostic.Log{}
	got, ok := MapIndexExpr(ir.FuncCall{Name: "lower", Args: []ir.Expr{ir.ColumnRef{Name: "email"}}}, "idx", log)
	if !ok {
		t.Fatal("lower(email) index key should survive")
	}
	if got.SQL() != "lower(email)" {
		t.Errorf("SQL = %q", got.SQL())
	}
}

func TestBetweenAndNullTestSurvive(t *testing.T) {
	expr := ir.BinaryExpr{
		Left: ir.Between{
			Expr: ir.ColumnRef{Name: "age"},
			Low:  ir.IntegerLit{Value: 0},
			High: ir.IntegerLit{Value: 150},
		},
		Op:    "OR",
		Right: ir.NullTest{Expr: ir.ColumnRef{Name: "age"}},
	}
	log := &diagnostic.Log{}
	got, ok := MapCheckExpr(expr, "t", log)
	if !ok {
		t.Fatal("BETWEEN/IS NULL CHECK should survive")
	}
	if got.SQL() != "age BETWEEN 0 AND 150 OR age IS NULL" {
		t.Errorf("SQL = %q", got.SQL())
	}
}
