package transform

import (
	"fmt"
	"strings"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// ExprMode selects the droppability policy applied when an expression uses
// a construct SQLite cannot evaluate. The tree walk itself is shared.
type ExprMode int

const (
	// ModeDefault maps a column DEFAULT; on unsupported input the default
	// is dropped.
	ModeDefault ExprMode = iota
	// ModeCheck maps a CHECK constraint; on unsupported input the
	// constraint is dropped.
	ModeCheck
	// ModeIndexWhere maps a partial-index WHERE clause; on unsupported
	// input the whole index is dropped.
	ModeIndexWhere
	// ModeIndexExpr maps an expression index key; on unsupported input the
	// whole index is dropped.
	ModeIndexExpr
)

// Functions PostgreSQL and SQLite evaluate alike; calls to anything else
// are unsupported.
var compatibleFunctions = map[string]bool{
	"lower": true, "upper": true, "length": true, "abs": true,
	"max": true, "min": true, "coalesce": true, "nullif": true,
	"typeof": true, "trim": true, "ltrim": true, "rtrim": true,
	"replace": true, "substr": true, "instr": true, "hex": true,
	"quote": true, "round": true, "random": true, "unicode": true,
	"zeroblob": true, "total": true, "sum": true, "avg": true,
	"count": true, "group_concat": true,
}

// Operators shared by both dialects.
var compatibleOperators = map[string]bool{
	"=": true, "<>": true, "!=": true, "<": true, "<=": true, ">": true,
	">=": true, "+": true, "-": true, "*": true, "/": true, "%": true,
	"||": true, "AND": true, "OR": true,
}

var compatibleUnaryOperators = map[string]bool{
	"NOT": true, "-": true, "+": true,
}

// exprMapper is the shared tree walker. It records why a walk failed so
// DefaultExpr mode can distinguish a removed uuid_generate_v4() from a
// generic unsupported default.
type exprMapper struct {
	mode ExprMode
	obj  string
	log  *diagnostic.Log

	// rejectedFunc is the function name that caused rejection, if any.
	rejectedFunc string
	// nextvalRemoved is set when a nextval() default was dropped and
	// already reported; the caller must not add a second warning.
	nextvalRemoved bool
}

// mapExpr rewrites a PostgreSQL expression into a SQLite-compatible one.
// ok is false when the expression must be dropped by the enclosing object.
func (m *exprMapper) mapExpr(expr ir.Expr) (ir.Expr, bool) {
	switch e := expr.(type) {
	case ir.IntegerLit, ir.FloatLit, ir.StringLit, ir.NullLit:
		return e, true

	case ir.BoolLit:
		if m.mode == ModeDefault {
			m.log.Add(diagnostic.BooleanAsInteger, diagnostic.SeverityLossy, m.obj,
				"boolean default stored as INTEGER (0/1)")
		}
		if e.Value {
			return ir.IntegerLit{Value: 1}, true
		}
		return ir.IntegerLit{Value: 0}, true

	case ir.ColumnRef:
		// Qualified references (NEW.x, other_table.y) are not column
		// references in SQLite DDL scope.
		if strings.Contains(e.Name, ".") {
			return nil, false
		}
		return e, true

	case ir.TimeValue:
		return e, true

	case ir.NextVal:
		if m.mode == ModeDefault {
			m.log.Add(diagnostic.NextvalRemoved, diagnostic.SeverityLossy, m.obj,
				fmt.Sprintf("nextval(%q) default removed", e.Sequence))
			m.nextvalRemoved = true
		}
		return nil, false

	case ir.FuncCall:
		return m.mapFuncCall(e)

	case ir.CastExpr:
		m.log.Add(diagnostic.CastRemoved, diagnostic.SeverityInfo, m.obj,
			fmt.Sprintf("cast to %s removed", e.TypeName))
		return m.mapExpr(e.Expr)

	case ir.BinaryExpr:
		if !compatibleOperators[e.Op] {
			return nil, false
		}
		left, ok := m.mapExpr(e.Left)
		if !ok {
			return nil, false
		}
		right, ok := m.mapExpr(e.Right)
		if !ok {
			return nil, false
		}
		return ir.BinaryExpr{Left: left, Op: e.Op, Right: right}, true

	case ir.UnaryExpr:
		if !compatibleUnaryOperators[e.Op] {
			return nil, false
		}
		inner, ok := m.mapExpr(e.Expr)
		if !ok {
			return nil, false
		}
		return ir.UnaryExpr{Op: e.Op, Expr: inner}, true

	case ir.NullTest:
		inner, ok := m.mapExpr(e.Expr)
		if !ok {
			return nil, false
		}
		return ir.NullTest{Expr: inner, Negated: e.Negated}, true

	case ir.InList:
		inner, ok := m.mapExpr(e.Expr)
		if !ok {
			return nil, false
		}
		list := make([]ir.Expr, 0, len(e.List))
		for _, item := range e.List {
			mapped, ok := m.mapExpr(item)
			if !ok {
				return nil, false
			}
			list = append(list, mapped)
		}
		return ir.InList{Expr: inner, List: list, Negated: e.Negated}, true

	case ir.Between:
		inner, ok := m.mapExpr(e.Expr)
		if !ok {
			return nil, false
		}
		low, ok := m.mapExpr(e.Low)
		if !ok {
			return nil, false
		}
		high, ok := m.mapExpr(e.High)
		if !ok {
			return nil, false
		}
		return ir.Between{Expr: inner, Low: low, High: high, Negated: e.Negated}, true

	case ir.Paren:
		inner, ok := m.mapExpr(e.Expr)
		if !ok {
			return nil, false
		}
		return ir.Paren{Expr: inner}, true

	case ir.RawExpr:
		// Subqueries, exotic operators, anything the parser could not
		// decompose.
		return nil, false

	case nil:
		return nil, false

	default:
		panic(fmt.Sprintf("internal: unhandled expression node %T", expr))
	}
}

func (m *exprMapper) mapFuncCall(e ir.FuncCall) (ir.Expr, bool) {
	if e.Name == "now" && len(e.Args) == 0 {
		return ir.TimeValue{Name: "CURRENT_TIMESTAMP"}, true
	}
	if !compatibleFunctions[e.Name] {
		if m.rejectedFunc == "" {
			m.rejectedFunc = e.Name
		}
		return nil, false
	}
	args := make([]ir.Expr, 0, len(e.Args))
	for _, arg := range e.Args {
		mapped, ok := m.mapExpr(arg)
		if !ok {
			return nil, false
		}
		args = append(args, mapped)
	}
	return ir.FuncCall{Name: e.Name, Args: args}, true
}

// MapDefaultExpr maps a DEFAULT expression. ok is false when the default
// must be dropped; the appropriate diagnostic has already been logged.
func MapDefaultExpr(expr ir.Expr, obj string, log *diagnostic.Log) (ir.Expr, bool) {
	m := &exprMapper{mode: ModeDefault, obj: obj, log: log}
	mapped, ok := m.mapExpr(expr)
	if ok {
		return mapped, true
	}
	switch {
	case m.nextvalRemoved:
		// Already reported as NEXTVAL_REMOVED.
	case strings.HasPrefix(m.rejectedFunc, "uuid_generate_v"):
		log.Add(diagnostic.UUIDDefaultRemoved, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("%s() default removed; SQLite has no UUID generator", m.rejectedFunc))
	default:
		log.Add(diagnostic.DefaultUnsupported, diagnostic.SeverityUnsupported, obj,
			"default expression uses unsupported features; dropped")
	}
	return nil, false
}

// MapCheckExpr maps a CHECK expression. ok is false when the constraint
// must be dropped.
func MapCheckExpr(expr ir.Expr, obj string, log *diagnostic.Log) (ir.Expr, bool) {
	m := &exprMapper{mode: ModeCheck, obj: obj, log: log}
	mapped, ok := m.mapExpr(expr)
	if !ok {
		log.Add(diagnostic.CheckExpressionUnsupported, diagnostic.SeverityUnsupported, obj,
			"CHECK expression uses unsupported features; constraint dropped")
		return nil, false
	}
	return mapped, true
}

// MapIndexWhere maps a partial-index WHERE clause. ok is false when the
// containing index must be dropped.
func MapIndexWhere(expr ir.Expr, obj string, log *diagnostic.Log) (ir.Expr, bool) {
	m := &exprMapper{mode: ModeIndexWhere, obj: obj, log: log}
	mapped, ok := m.mapExpr(expr)
	if !ok {
		log.Add(diagnostic.PartialIndexUnsupported, diagnostic.SeverityUnsupported, obj,
			"partial index WHERE clause uses unsupported features; index dropped")
		return nil, false
	}
	return mapped, true
}

// MapIndexExpr maps an expression index key. ok is false when the
// containing index must be dropped.
func MapIndexExpr(expr ir.Expr, obj string, log *diagnostic.Log) (ir.Expr, bool) {
	m := &exprMapper{mode: ModeIndexExpr, obj: obj, log: log}
	mapped, ok := m.mapExpr(expr)
	if !ok {
		log.Add(diagnostic.ExpressionIndexUnsupported, diagnostic.SeverityUnsupported, obj,
			"expression index key uses unsupported features; index dropped")
		return nil, false
	}
	return mapped, true
}
