// Package ir holds the intermediate representation shared by every stage of
// the conversion pipeline, plus the pg_query-based parser that builds it.
// The same tree shape is used before and after transformation; what changes
// is the content of type and expression nodes and the population of
// constraint and identifier slots.
package ir

// SchemaModel is the top-level IR: everything parsed from one DDL script.
// Table insertion order is preserved until the ordering stage overrides it;
// column order within a table is never changed.
type SchemaModel struct {
	Tables    []*Table
	Indexes   []*Index
	Sequences []*Sequence
	Enums     []*EnumDef
	Domains   []*DomainDef

	// AlterConstraints and IdentityAlters hold standalone ALTER TABLE
	// payloads until the planner merges them into their target tables.
	AlterConstraints []*AlterConstraint
	IdentityAlters   []*AlterIdentity
}

// Table is a parsed CREATE TABLE statement.
type Table struct {
	Name        QualifiedName
	Columns     []*Column
	Constraints []*TableConstraint
}

// Column is a single column definition. SqliteType is nil until the type
// mapping stage runs.
type Column struct {
	Name       Ident
	Type       PgType
	SqliteType *SqliteType
	NotNull    bool
	Default    Expr

	// Inline column constraints.
	IsPrimaryKey bool
	IsUnique     bool
	References   *ForeignKeyRef
	Check        Expr

	// AutoIncrement is set by identity resolution; rendered as
	// INTEGER PRIMARY KEY AUTOINCREMENT.
	AutoIncrement bool

	// Identity records a GENERATED ... AS IDENTITY clause until the
	// planner resolves it.
	Identity bool

	// EnumValues holds the value list of the column's enum type after the
	// planner binds it, for optional CHECK emulation.
	EnumValues []string
}

// ConstraintKind tags a TableConstraint variant.
type ConstraintKind int

const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintUnique
	ConstraintForeignKey
	ConstraintCheck
)

// TableConstraint is a table-level constraint. Which fields are meaningful
// depends on Kind. Names are carried through but never rendered; SQLite
// ignores them.
type TableConstraint struct {
	Kind ConstraintKind
	Name *Ident

	// PRIMARY KEY / UNIQUE / FOREIGN KEY referencing columns.
	Columns []Ident

	// FOREIGN KEY fields.
	RefTable          QualifiedName
	RefColumns        []Ident
	OnDelete          FkAction
	OnUpdate          FkAction
	Deferrable        bool
	InitiallyDeferred bool
	MatchFull         bool

	// CHECK expression.
	Expr Expr
}

// AlterConstraint is an ALTER TABLE ... ADD CONSTRAINT awaiting merge.
type AlterConstraint struct {
	Table      QualifiedName
	Constraint *TableConstraint
}

// AlterIdentity is an ALTER TABLE ... ALTER COLUMN ... ADD GENERATED ...
// AS IDENTITY awaiting resolution.
type AlterIdentity struct {
	Table  QualifiedName
	Column Ident
}

// ForeignKeyRef is a column-level REFERENCES clause.
type ForeignKeyRef struct {
	Table    QualifiedName
	Column   *Ident
	OnDelete FkAction
	OnUpdate FkAction
}

// FkAction is a foreign-key referential action.
type FkAction int

const (
	FkActionUnspecified FkAction = iota
	FkActionCascade
	FkActionSetNull
	FkActionSetDefault
	FkActionRestrict
	FkActionNoAction
)

func (a FkAction) String() string {
	switch a {
	case FkActionCascade:
		return "CASCADE"
	case FkActionSetNull:
		return "SET NULL"
	case FkActionSetDefault:
		return "SET DEFAULT"
	case FkActionRestrict:
		return "RESTRICT"
	case FkActionNoAction:
		return "NO ACTION"
	default:
		return ""
	}
}

// Index is a parsed CREATE INDEX statement.
type Index struct {
	Name    Ident
	Table   QualifiedName
	Columns []IndexKey
	Unique  bool
	// Method is the access-method clause (btree, gin, ...); always
	// stripped before rendering.
	Method string
	Where  Expr
}

// IndexKey is one index key: either a plain column or an expression.
type IndexKey struct {
	Column *Ident
	Expr   Expr
}

// Sequence is a parsed CREATE SEQUENCE statement.
type Sequence struct {
	Name QualifiedName
}

// EnumDef is a parsed CREATE TYPE ... AS ENUM statement.
type EnumDef struct {
	Name   QualifiedName
	Values []string
}

// DomainDef is a parsed CREATE DOMAIN statement.
type DomainDef struct {
	Name     QualifiedName
	BaseType PgType
	NotNull  bool
	Default  Expr
	Check    Expr
}

// FindColumn returns the column with the given normalized name.
func (t *Table) FindColumn(normalized string) *Column {
	for _, c := range t.Columns {
		if c.Name.Normalized == normalized {
			return c
		}
	}
	return nil
}

// PrimaryKeyColumns returns the normalized column names of the table-level
// primary key, or nil if the table has none.
func (t *Table) PrimaryKeyColumns() []string {
	for _, c := range t.Constraints {
		if c.Kind == ConstraintPrimaryKey {
			cols := make([]string, len(c.Columns))
			for i, col := range c.Columns {
				cols[i] = col.Normalized
			}
			return cols
		}
	}
	return nil
}
