package ir

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
)

// Parser turns PostgreSQL DDL text into a SchemaModel. Statements the model
// does not cover are skipped: known non-DDL kinds silently, anything else
// with a PARSE_SKIPPED diagnostic.
type Parser struct {
	model *SchemaModel
	log   *diagnostic.Log
}

// NewParser creates a parser that appends diagnostics to log.
func NewParser(log *diagnostic.Log) *Parser {
	return &Parser{
		model: &SchemaModel{},
		log:   log,
	}
}

// Parse parses DDL text into a SchemaModel. Parsing is per-statement: one
// malformed statement is skipped with a diagnostic and the rest of the
// script still converts.
func (p *Parser) Parse(sql string) (*SchemaModel, error) {
	// Scanner-based splitting keeps working in the presence of a malformed
	// statement, so one bad statement cannot take down the whole script.
	statements, err := pg_query.SplitWithScanner(sql, true)
	if err != nil {
		// The whole script is unsplittable; surface it as one skipped
		// statement rather than an abort (the pipeline is non-fatal here).
		p.log.Add(diagnostic.ParseSkipped, diagnostic.SeverityUnsupported, "",
			"failed to split DDL script: "+err.Error())
		return p.model, nil
	}

	for _, stmt := range statements {
		result, err := pg_query.Parse(stmt)
		if err != nil {
			p.log.Add(diagnostic.ParseSkipped, diagnostic.SeverityUnsupported, "",
				"statement skipped: "+err.Error())
			continue
		}
		for _, raw := range result.Stmts {
			if raw.Stmt != nil {
				p.processStatement(raw.Stmt)
			}
		}
	}

	return p.model, nil
}

func (p *Parser) processStatement(stmt *pg_query.Node) {
	switch node := stmt.Node.(type) {
	case *pg_query.Node_CreateStmt:
		p.parseCreateTable(node.CreateStmt)
	case *pg_query.Node_IndexStmt:
		p.parseCreateIndex(node.IndexStmt)
	case *pg_query.Node_AlterTableStmt:
		p.parseAlterTable(node.AlterTableStmt)
	case *pg_query.Node_CreateSeqStmt:
		p.parseCreateSequence(node.CreateSeqStmt)
	case *pg_query.Node_CreateEnumStmt:
		p.parseCreateEnum(node.CreateEnumStmt)
	case *pg_query.Node_CreateDomainStmt:
		p.parseCreateDomain(node.CreateDomainStmt)
	case *pg_query.Node_CommentStmt,
		*pg_query.Node_VariableSetStmt,
		*pg_query.Node_SelectStmt,
		*pg_query.Node_InsertStmt,
		*pg_query.Node_UpdateStmt,
		*pg_query.Node_DeleteStmt,
		*pg_query.Node_GrantStmt,
		*pg_query.Node_GrantRoleStmt,
		*pg_query.Node_CreateSchemaStmt,
		*pg_query.Node_CreateExtensionStmt,
		*pg_query.Node_CreateFunctionStmt,
		*pg_query.Node_ViewStmt,
		*pg_query.Node_CreateTrigStmt,
		*pg_query.Node_CreatePolicyStmt,
		*pg_query.Node_CreateRoleStmt,
		*pg_query.Node_AlterOwnerStmt,
		*pg_query.Node_DropStmt,
		*pg_query.Node_TruncateStmt,
		*pg_query.Node_TransactionStmt,
		*pg_query.Node_DoStmt:
		// Legal input, outside the conversion scope; dropped silently.
	default:
		p.log.Add(diagnostic.ParseSkipped, diagnostic.SeverityUnsupported, "",
			"unrecognized top-level statement skipped")
	}
}

// rangeVarName converts a pg_query RangeVar to a QualifiedName.
func rangeVarName(rv *pg_query.RangeVar) QualifiedName {
	if rv.Schemaname != "" {
		return Qualified(rv.Schemaname, rv.Relname)
	}
	return Unqualified(rv.Relname)
}

// nameListToQualified converts a []*Node of strings (as used for type and
// domain names) to a QualifiedName, taking the last two parts as
// schema.name.
func nameListToQualified(nodes []*pg_query.Node) QualifiedName {
	var parts []string
	for _, n := range nodes {
		if s := n.GetString_(); s != nil {
			parts = append(parts, s.Sval)
		}
	}
	switch len(parts) {
	case 0:
		return Unqualified("")
	case 1:
		return Unqualified(parts[0])
	default:
		return Qualified(parts[len(parts)-2], parts[len(parts)-1])
	}
}

func (p *Parser) parseCreateTable(stmt *pg_query.CreateStmt) {
	table := &Table{
		Name: rangeVarName(stmt.Relation),
	}

	for _, elt := range stmt.TableElts {
		switch node := elt.Node.(type) {
		case *pg_query.Node_ColumnDef:
			table.Columns = append(table.Columns, p.parseColumnDef(node.ColumnDef))
		case *pg_query.Node_Constraint:
			if c := p.parseConstraint(node.Constraint); c != nil {
				table.Constraints = append(table.Constraints, c)
			}
		}
	}

	p.model.Tables = append(p.model.Tables, table)
}

func (p *Parser) parseColumnDef(colDef *pg_query.ColumnDef) *Column {
	column := &Column{
		Name: NewIdent(colDef.Colname),
	}

	if colDef.TypeName != nil {
		column.Type = parseTypeName(colDef.TypeName)
	}

	for _, constraint := range colDef.Constraints {
		cons := constraint.GetConstraint()
		if cons == nil {
			continue
		}
		switch cons.Contype {
		case pg_query.ConstrType_CONSTR_NOTNULL:
			column.NotNull = true
		case pg_query.ConstrType_CONSTR_NULL:
			column.NotNull = false
		case pg_query.ConstrType_CONSTR_DEFAULT:
			if cons.RawExpr != nil {
				column.Default = p.convertExpr(cons.RawExpr)
			}
		case pg_query.ConstrType_CONSTR_PRIMARY:
			column.IsPrimaryKey = true
			column.NotNull = true
		case pg_query.ConstrType_CONSTR_UNIQUE:
			column.IsUnique = true
		case pg_query.ConstrType_CONSTR_FOREIGN:
			column.References = p.parseInlineForeignKey(cons)
		case pg_query.ConstrType_CONSTR_CHECK:
			if cons.RawExpr != nil {
				column.Check = p.convertExpr(cons.RawExpr)
			}
		case pg_query.ConstrType_CONSTR_IDENTITY:
			column.Identity = true
			column.NotNull = true
		}
	}

	return column
}

func (p *Parser) parseInlineForeignKey(cons *pg_query.Constraint) *ForeignKeyRef {
	if cons.Pktable == nil {
		return nil
	}
	ref := &ForeignKeyRef{
		Table:    rangeVarName(cons.Pktable),
		OnDelete: mapReferentialAction(cons.FkDelAction),
		OnUpdate: mapReferentialAction(cons.FkUpdAction),
	}
	for _, attr := range cons.PkAttrs {
		if s := attr.GetString_(); s != nil {
			col := NewIdent(s.Sval)
			ref.Column = &col
			break
		}
	}
	return ref
}

// parseConstraint parses a table-level constraint node. Returns nil for
// constraint kinds the model does not cover (e.g. EXCLUDE).
func (p *Parser) parseConstraint(cons *pg_query.Constraint) *TableConstraint {
	var kind ConstraintKind
	switch cons.Contype {
	case pg_query.ConstrType_CONSTR_PRIMARY:
		kind = ConstraintPrimaryKey
	case pg_query.ConstrType_CONSTR_UNIQUE:
		kind = ConstraintUnique
	case pg_query.ConstrType_CONSTR_FOREIGN:
		kind = ConstraintForeignKey
	case pg_query.ConstrType_CONSTR_CHECK:
		kind = ConstraintCheck
	default:
		return nil
	}

	c := &TableConstraint{Kind: kind}
	if cons.Conname != "" {
		name := NewIdent(cons.Conname)
		c.Name = &name
	}

	// Foreign keys carry their referencing columns in FkAttrs; everything
	// else uses Keys.
	columnKeys := cons.Keys
	if kind == ConstraintForeignKey && len(cons.FkAttrs) > 0 {
		columnKeys = cons.FkAttrs
	}
	for _, key := range columnKeys {
		if s := key.GetString_(); s != nil {
			c.Columns = append(c.Columns, NewIdent(s.Sval))
		}
	}

	if kind == ConstraintForeignKey && cons.Pktable != nil {
		c.RefTable = rangeVarName(cons.Pktable)
		for _, key := range cons.PkAttrs {
			if s := key.GetString_(); s != nil {
				c.RefColumns = append(c.RefColumns, NewIdent(s.Sval))
			}
		}
		c.OnDelete = mapReferentialAction(cons.FkDelAction)
		c.OnUpdate = mapReferentialAction(cons.FkUpdAction)
		c.Deferrable = cons.Deferrable
		c.InitiallyDeferred = cons.Initdeferred
		c.MatchFull = cons.FkMatchtype == "f"
	}

	if kind == ConstraintCheck && cons.RawExpr != nil {
		c.Expr = p.convertExpr(cons.RawExpr)
	}

	return c
}

func (p *Parser) parseCreateIndex(stmt *pg_query.IndexStmt) {
	if stmt.Idxname == "" {
		return
	}

	index := &Index{
		Name:   NewIdent(stmt.Idxname),
		Table:  rangeVarName(stmt.Relation),
		Unique: stmt.Unique,
		Method: stmt.AccessMethod,
	}

	for _, param := range stmt.IndexParams {
		elem := param.GetIndexElem()
		if elem == nil {
			continue
		}
		if elem.Name != "" {
			col := NewIdent(elem.Name)
			index.Columns = append(index.Columns, IndexKey{Column: &col})
		} else if elem.Expr != nil {
			index.Columns = append(index.Columns, IndexKey{Expr: p.convertExpr(elem.Expr)})
		}
	}

	if stmt.WhereClause != nil {
		index.Where = p.convertExpr(stmt.WhereClause)
	}

	p.model.Indexes = append(p.model.Indexes, index)
}

func (p *Parser) parseAlterTable(stmt *pg_query.AlterTableStmt) {
	// pg_query parses ALTER INDEX and friends as AlterTableStmt too; only
	// actual tables are of interest here.
	if stmt.Objtype != pg_query.ObjectType_OBJECT_TABLE {
		return
	}

	table := rangeVarName(stmt.Relation)

	for _, cmd := range stmt.Cmds {
		alterCmd := cmd.GetAlterTableCmd()
		if alterCmd == nil {
			continue
		}
		switch alterCmd.Subtype {
		case pg_query.AlterTableType_AT_AddConstraint:
			if cons := alterCmd.GetDef().GetConstraint(); cons != nil {
				if c := p.parseConstraint(cons); c != nil {
					p.model.AlterConstraints = append(p.model.AlterConstraints, &AlterConstraint{
						Table:      table,
						Constraint: c,
					})
				}
			}
		case pg_query.AlterTableType_AT_AddIdentity:
			if alterCmd.Name != "" {
				p.model.IdentityAlters = append(p.model.IdentityAlters, &AlterIdentity{
					Table:  table,
					Column: NewIdent(alterCmd.Name),
				})
			}
		}
	}
}

func (p *Parser) parseCreateSequence(stmt *pg_query.CreateSeqStmt) {
	if stmt.Sequence == nil {
		return
	}
	p.model.Sequences = append(p.model.Sequences, &Sequence{
		Name: rangeVarName(stmt.Sequence),
	})
}

func (p *Parser) parseCreateEnum(stmt *pg_query.CreateEnumStmt) {
	def := &EnumDef{
		Name: nameListToQualified(stmt.TypeName),
	}
	for _, val := range stmt.Vals {
		if s := val.GetString_(); s != nil {
			def.Values = append(def.Values, s.Sval)
		}
	}
	p.model.Enums = append(p.model.Enums, def)
}

func (p *Parser) parseCreateDomain(stmt *pg_query.CreateDomainStmt) {
	def := &DomainDef{
		Name: nameListToQualified(stmt.Domainname),
	}
	if stmt.TypeName != nil {
		def.BaseType = parseTypeName(stmt.TypeName)
	}
	for _, node := range stmt.Constraints {
		cons := node.GetConstraint()
		if cons == nil {
			continue
		}
		switch cons.Contype {
		case pg_query.ConstrType_CONSTR_NOTNULL:
			def.NotNull = true
		case pg_query.ConstrType_CONSTR_DEFAULT:
			if cons.RawExpr != nil {
				def.Default = p.convertExpr(cons.RawExpr)
			}
		case pg_query.ConstrType_CONSTR_CHECK:
			if cons.RawExpr != nil {
				def.Check = p.convertExpr(cons.RawExpr)
			}
		}
	}
	p.model.Domains = append(p.model.Domains, def)
}

// mapReferentialAction maps pg_query's single-character action codes.
func mapReferentialAction(action string) FkAction {
	switch action {
	case "c":
		return FkActionCascade
	case "n":
		return FkActionSetNull
	case "d":
		return FkActionSetDefault
	case "r":
		return FkActionRestrict
	case "a":
		// pg_query reports NO ACTION both when it is written and when the
		// clause is omitted. It is the default in SQLite too, so it stays
		// unspecified and is not rendered.
		return FkActionUnspecified
	default:
		return FkActionUnspecified
	}
}

// parseTypeName converts a pg_query TypeName to a PgType. pg_query spells
// built-in types with a pg_catalog prefix and internal names (int4, bpchar,
// timestamptz); the last name part decides the kind.
func parseTypeName(tn *pg_query.TypeName) PgType {
	var parts []string
	for _, n := range tn.Names {
		if s := n.GetString_(); s != nil {
			parts = append(parts, s.Sval)
		}
	}
	if len(parts) == 0 {
		return PgType{Kind: PgUnknown}
	}

	last := strings.ToLower(parts[len(parts)-1])
	mods := typeModifiers(tn.Typmods)

	base := scalarType(last, mods)
	if base.Kind == PgUnknown {
		// Possibly a user-defined type (enum or domain); keep the
		// qualified name so the planner can bind it. pg_catalog-prefixed
		// names are never user-defined.
		if len(parts) > 1 && parts[0] != "pg_catalog" {
			base.Ref = Qualified(parts[len(parts)-2], last)
		} else {
			base.Ref = Unqualified(last)
		}
		base.Name = base.Ref.Key()
	}

	if len(tn.ArrayBounds) > 0 {
		elem := base
		return PgType{Kind: PgArray, Elem: &elem}
	}
	return base
}

func scalarType(name string, mods []int) PgType {
	length := func() *int {
		if len(mods) > 0 {
			v := mods[0]
			return &v
		}
		return nil
	}

	switch name {
	case "int2", "smallint":
		return PgType{Kind: PgSmallInt}
	case "int4", "int", "integer":
		return PgType{Kind: PgInteger}
	case "int8", "bigint":
		return PgType{Kind: PgBigInt}
	case "serial2", "smallserial":
		return PgType{Kind: PgSmallSerial}
	case "serial", "serial4":
		return PgType{Kind: PgSerial}
	case "serial8", "bigserial":
		return PgType{Kind: PgBigSerial}
	case "numeric", "decimal":
		t := PgType{Kind: PgNumeric}
		if len(mods) > 0 {
			v := mods[0]
			t.Precision = &v
		}
		if len(mods) > 1 {
			v := mods[1]
			t.Scale = &v
		}
		return t
	case "float4", "real":
		return PgType{Kind: PgReal}
	case "float8", "double precision":
		return PgType{Kind: PgDoublePrecision}
	case "text":
		return PgType{Kind: PgText}
	case "varchar":
		return PgType{Kind: PgVarchar, Length: length()}
	case "bpchar", "char", "character":
		return PgType{Kind: PgChar, Length: length()}
	case "bool", "boolean":
		return PgType{Kind: PgBoolean}
	case "date":
		return PgType{Kind: PgDate}
	case "time":
		return PgType{Kind: PgTime}
	case "timetz":
		return PgType{Kind: PgTime, WithTZ: true}
	case "timestamp":
		return PgType{Kind: PgTimestamp}
	case "timestamptz":
		return PgType{Kind: PgTimestamp, WithTZ: true}
	case "interval":
		return PgType{Kind: PgInterval}
	case "bytea":
		return PgType{Kind: PgBytea}
	case "uuid":
		return PgType{Kind: PgUUID}
	case "json":
		return PgType{Kind: PgJSON}
	case "jsonb":
		return PgType{Kind: PgJSONB}
	case "inet", "cidr", "macaddr", "macaddr8":
		return PgType{Kind: PgNetwork, Name: name}
	case "money":
		return PgType{Kind: PgMoney}
	case "xml":
		return PgType{Kind: PgXML}
	case "bit":
		return PgType{Kind: PgBit, Length: length()}
	case "varbit":
		return PgType{Kind: PgBit, Length: length(), Varying: true}
	case "point", "line", "lseg", "box", "path", "polygon", "circle":
		return PgType{Kind: PgGeometric, Name: name}
	case "int4range", "int8range", "numrange", "tsrange", "tstzrange", "daterange":
		return PgType{Kind: PgRange, Name: name}
	default:
		return PgType{Kind: PgUnknown, Name: name}
	}
}

func typeModifiers(typmods []*pg_query.Node) []int {
	var mods []int
	for _, mod := range typmods {
		if aConst := mod.GetAConst(); aConst != nil {
			if ival := aConst.GetIval(); ival != nil {
				mods = append(mods, int(ival.Ival))
			}
		}
	}
	return mods
}

// convertExpr converts a pg_query expression node into the closed Expr set.
// Anything outside the set is deparsed into a RawExpr, which the expression
// mapper later classifies as unsupported.
func (p *Parser) convertExpr(node *pg_query.Node) Expr {
	if node == nil {
		return nil
	}

	switch n := node.Node.(type) {
	case *pg_query.Node_AConst:
		return convertConst(n.AConst)

	case *pg_query.Node_ColumnRef:
		var parts []string
		for _, field := range n.ColumnRef.Fields {
			if s := field.GetString_(); s != nil {
				parts = append(parts, s.Sval)
			}
		}
		name := strings.Join(parts, ".")
		// Bare keyword spellings reach the AST as column references.
		switch strings.ToLower(name) {
		case "current_timestamp":
			return TimeValue{Name: "CURRENT_TIMESTAMP"}
		case "current_date":
			return TimeValue{Name: "CURRENT_DATE"}
		case "current_time":
			return TimeValue{Name: "CURRENT_TIME"}
		}
		return ColumnRef{Name: name}

	case *pg_query.Node_FuncCall:
		return p.convertFuncCall(n.FuncCall)

	case *pg_query.Node_TypeCast:
		inner := p.convertExpr(n.TypeCast.Arg)
		typeName := ""
		if n.TypeCast.TypeName != nil {
			typeName = parseTypeName(n.TypeCast.TypeName).String()
		}
		// Boolean literals arrive as 't'/'f' string constants cast to bool.
		if typeName == "boolean" {
			if lit, ok := inner.(StringLit); ok {
				switch lit.Value {
				case "t", "true":
					return BoolLit{Value: true}
				case "f", "false":
					return BoolLit{Value: false}
				}
			}
		}
		return CastExpr{Expr: inner, TypeName: typeName}

	case *pg_query.Node_AExpr:
		return p.convertAExpr(n.AExpr)

	case *pg_query.Node_BoolExpr:
		return p.convertBoolExpr(n.BoolExpr)

	case *pg_query.Node_NullTest:
		return NullTest{
			Expr:    p.convertExpr(n.NullTest.Arg),
			Negated: n.NullTest.Nulltesttype == pg_query.NullTestType_IS_NOT_NULL,
		}

	case *pg_query.Node_SqlvalueFunction:
		switch n.SqlvalueFunction.Op {
		case pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP,
			pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIMESTAMP_N:
			return TimeValue{Name: "CURRENT_TIMESTAMP"}
		case pg_query.SQLValueFunctionOp_SVFOP_CURRENT_DATE:
			return TimeValue{Name: "CURRENT_DATE"}
		case pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIME,
			pg_query.SQLValueFunctionOp_SVFOP_CURRENT_TIME_N:
			return TimeValue{Name: "CURRENT_TIME"}
		default:
			return RawExpr{Text: p.deparse(node)}
		}

	default:
		return RawExpr{Text: p.deparse(node)}
	}
}

func convertConst(c *pg_query.A_Const) Expr {
	if c.Isnull {
		return NullLit{}
	}
	switch val := c.Val.(type) {
	case *pg_query.A_Const_Ival:
		return IntegerLit{Value: int64(val.Ival.Ival)}
	case *pg_query.A_Const_Fval:
		return FloatLit{Value: val.Fval.Fval}
	case *pg_query.A_Const_Sval:
		return StringLit{Value: val.Sval.Sval}
	case *pg_query.A_Const_Boolval:
		return BoolLit{Value: val.Boolval.Boolval}
	default:
		return RawExpr{Text: ""}
	}
}

func (p *Parser) convertFuncCall(fc *pg_query.FuncCall) Expr {
	var parts []string
	for _, n := range fc.Funcname {
		if s := n.GetString_(); s != nil {
			parts = append(parts, s.Sval)
		}
	}
	name := strings.ToLower(strings.Join(parts, "."))
	// Strip a pg_catalog prefix so now() and pg_catalog.now() match alike.
	name = strings.TrimPrefix(name, "pg_catalog.")

	args := make([]Expr, 0, len(fc.Args))
	for _, arg := range fc.Args {
		args = append(args, p.convertExpr(arg))
	}

	// nextval('seq'::regclass) participates in SERIAL resolution and is
	// modeled as its own node.
	if name == "nextval" && len(args) > 0 {
		if seq, ok := sequenceNameArg(args[0]); ok {
			return NextVal{Sequence: seq}
		}
	}

	return FuncCall{Name: name, Args: args}
}

// sequenceNameArg extracts a sequence name from a nextval argument, looking
// through the ::regclass cast pg_dump emits.
func sequenceNameArg(arg Expr) (QualifiedName, bool) {
	if cast, ok := arg.(CastExpr); ok {
		arg = cast.Expr
	}
	lit, ok := arg.(StringLit)
	if !ok {
		return QualifiedName{}, false
	}
	parts := strings.Split(lit.Value, ".")
	switch len(parts) {
	case 1:
		return Unqualified(parts[0]), true
	case 2:
		return Qualified(parts[0], parts[1]), true
	default:
		return QualifiedName{}, false
	}
}

func (p *Parser) convertAExpr(ae *pg_query.A_Expr) Expr {
	opName := ""
	for _, n := range ae.Name {
		if s := n.GetString_(); s != nil {
			opName = s.Sval
		}
	}

	switch ae.Kind {
	case pg_query.A_Expr_Kind_AEXPR_OP:
		if ae.Lexpr == nil {
			return UnaryExpr{Op: opName, Expr: p.convertExpr(ae.Rexpr)}
		}
		return BinaryExpr{
			Left:  p.convertExpr(ae.Lexpr),
			Op:    opName,
			Right: p.convertExpr(ae.Rexpr),
		}

	case pg_query.A_Expr_Kind_AEXPR_IN:
		list, ok := p.convertExprList(ae.Rexpr)
		if !ok {
			return RawExpr{Text: p.deparse(wrapAExpr(ae))}
		}
		return InList{
			Expr:    p.convertExpr(ae.Lexpr),
			List:    list,
			Negated: opName == "<>",
		}

	case pg_query.A_Expr_Kind_AEXPR_BETWEEN, pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN:
		bounds, ok := p.convertExprList(ae.Rexpr)
		if !ok || len(bounds) != 2 {
			return RawExpr{Text: p.deparse(wrapAExpr(ae))}
		}
		return Between{
			Expr:    p.convertExpr(ae.Lexpr),
			Low:     bounds[0],
			High:    bounds[1],
			Negated: ae.Kind == pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN,
		}

	case pg_query.A_Expr_Kind_AEXPR_OP_ANY:
		// a = ANY(ARRAY[...]) is the pg_dump spelling of an IN list. Only
		// the literal-array form converts; = ANY over a subquery, a
		// non-array value, or computed array members has no IN equivalent
		// and stays raw.
		if opName == "=" {
			if elems, ok := p.arrayElements(ae.Rexpr); ok && allLiterals(elems) {
				return InList{
					Expr: p.convertExpr(ae.Lexpr),
					List: elems,
				}
			}
		}
		return RawExpr{Text: p.deparse(wrapAExpr(ae))}

	default:
		return RawExpr{Text: p.deparse(wrapAExpr(ae))}
	}
}

func (p *Parser) convertBoolExpr(be *pg_query.BoolExpr) Expr {
	args := make([]Expr, 0, len(be.Args))
	for _, arg := range be.Args {
		args = append(args, p.convertExpr(arg))
	}

	switch be.Boolop {
	case pg_query.BoolExprType_NOT_EXPR:
		if len(args) == 1 {
			return UnaryExpr{Op: "NOT", Expr: args[0]}
		}
	case pg_query.BoolExprType_AND_EXPR, pg_query.BoolExprType_OR_EXPR:
		op := "AND"
		if be.Boolop == pg_query.BoolExprType_OR_EXPR {
			op = "OR"
		}
		if len(args) == 0 {
			break
		}
		expr := args[0]
		for _, next := range args[1:] {
			expr = BinaryExpr{Left: expr, Op: op, Right: next}
		}
		return expr
	}
	return RawExpr{Text: ""}
}

// convertExprList converts a Node_List into expressions. Used for IN lists
// and BETWEEN bounds.
func (p *Parser) convertExprList(node *pg_query.Node) ([]Expr, bool) {
	if node == nil {
		return nil, false
	}
	list := node.GetList()
	if list == nil {
		return nil, false
	}
	exprs := make([]Expr, 0, len(list.Items))
	for _, item := range list.Items {
		exprs = append(exprs, p.convertExpr(item))
	}
	return exprs, true
}

// arrayElements extracts the elements of an ARRAY[...] literal, looking
// through an outer cast (ARRAY[...]::text[]).
func (p *Parser) arrayElements(node *pg_query.Node) ([]Expr, bool) {
	if node == nil {
		return nil, false
	}
	if cast := node.GetTypeCast(); cast != nil {
		return p.arrayElements(cast.Arg)
	}
	arr := node.GetAArrayExpr()
	if arr == nil {
		return nil, false
	}
	elems := make([]Expr, 0, len(arr.Elements))
	for _, e := range arr.Elements {
		elems = append(elems, p.convertExpr(e))
	}
	return elems, true
}

// allLiterals reports whether every expression is a plain literal, looking
// through the ::type casts pg_dump wraps array members in.
func allLiterals(exprs []Expr) bool {
	for _, e := range exprs {
		if cast, ok := e.(CastExpr); ok {
			e = cast.Expr
		}
		switch e.(type) {
		case IntegerLit, FloatLit, StringLit, BoolLit, NullLit:
		default:
			return false
		}
	}
	return true
}

func wrapAExpr(ae *pg_query.A_Expr) *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_AExpr{AExpr: ae}}
}

// deparse renders an expression node back to SQL text for RawExpr carriage.
func (p *Parser) deparse(expr *pg_query.Node) string {
	if expr == nil {
		return ""
	}
	result := &pg_query.ParseResult{
		Stmts: []*pg_query.RawStmt{{Stmt: expr}},
	}
	if text, err := pg_query.Deparse(result); err == nil {
		return strings.TrimSpace(text)
	}
	return ""
}
