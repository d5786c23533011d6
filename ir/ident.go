package ir

import "strings"

// SQLite reserved keywords that force quoting in rendered DDL.
// Based on the SQLite documentation: https://www.sqlite.org/lang_keywords.html
var sqliteReservedWords = map[string]bool{
	"abort": true, "action": true, "add": true, "after": true, "all": true,
	"alter": true, "always": true, "analyze": true, "and": true, "as": true,
	"asc": true, "attach": true, "autoincrement": true, "before": true,
	"begin": true, "between": true, "by": true, "cascade": true, "case": true,
	"cast": true, "check": true, "collate": true, "column": true,
	"commit": true, "conflict": true, "constraint": true, "create": true,
	"cross": true, "current": true, "current_date": true,
	"current_time": true, "current_timestamp": true, "database": true,
	"default": true, "deferrable": true, "deferred": true, "delete": true,
	"desc": true, "detach": true, "distinct": true, "do": true, "drop": true,
	"each": true, "else": true, "end": true, "escape": true, "except": true,
	"exclude": true, "exclusive": true, "exists": true, "explain": true,
	"fail": true, "filter": true, "first": true, "following": true,
	"for": true, "foreign": true, "from": true, "full": true,
	"generated": true, "glob": true, "group": true, "groups": true,
	"having": true, "if": true, "ignore": true, "immediate": true, "in": true,
	"index": true, "indexed": true, "initially": true, "inner": true,
	"insert": true, "instead": true, "intersect": true, "into": true,
	"is": true, "isnull": true, "join": true, "key": true, "last": true,
	"left": true, "like": true, "limit": true, "match": true,
	"materialized": true, "natural": true, "no": true, "not": true,
	"nothing": true, "notnull": true, "null": true, "nulls": true, "of": true,
	"offset": true, "on": true, "or": true, "order": true, "others": true,
	"outer": true, "over": true, "partition": true, "plan": true,
	"pragma": true, "preceding": true, "primary": true, "query": true,
	"raise": true, "range": true, "recursive": true, "references": true,
	"regexp": true, "reindex": true, "release": true, "rename": true,
	"replace": true, "restrict": true, "returning": true, "right": true,
	"rollback": true, "row": true, "rows": true, "savepoint": true,
	"select": true, "set": true, "table": true, "temp": true,
	"temporary": true, "then": true, "ties": true, "to": true,
	"transaction": true, "trigger": true, "unbounded": true, "union": true,
	"unique": true, "update": true, "using": true, "vacuum": true,
	"values": true, "view": true, "virtual": true, "when": true,
	"where": true, "window": true, "with": true, "without": true,
}

// Ident is an identifier carrying both the form written in the source DDL
// and the case-folded form used for symbol-table lookups. PostgreSQL folds
// unquoted identifiers to lowercase; quoted identifiers keep their case.
type Ident struct {
	// Raw is the identifier as written in the source.
	Raw string
	// Normalized is the lookup form: lowercased unless the source quoted it.
	Normalized string
	// Quoted records whether the source must have used quotes.
	Quoted bool
}

// NewIdent builds an identifier from a name as delivered by the parser.
// pg_query has already folded unquoted identifiers to lowercase, so a name
// that is not pure lowercase-safe can only have come from a quoted source.
func NewIdent(name string) Ident {
	quoted := name != strings.ToLower(name) || !isPlainIdent(name)
	return Ident{Raw: name, Normalized: name, Quoted: quoted}
}

// isPlainIdent reports whether s is lowercase alphanumeric/underscore and
// does not start with a digit.
func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// NeedsQuoting reports whether the identifier must be quoted in SQLite
// output: uppercase letters, whitespace, hyphens, other special characters,
// a leading digit, or a reserved keyword.
func (id Ident) NeedsQuoting() bool {
	if !isPlainIdent(id.Normalized) {
		return true
	}
	return sqliteReservedWords[id.Normalized]
}

// SQL renders the identifier for SQLite output, quoting when necessary.
// Quoted emission escapes embedded double quotes by doubling them.
func (id Ident) SQL() string {
	if id.NeedsQuoting() {
		return `"` + strings.ReplaceAll(id.Raw, `"`, `""`) + `"`
	}
	return id.Normalized
}

func (id Ident) String() string {
	return id.Normalized
}

// QualifiedName is an optionally schema-qualified object name. After name
// resolution the schema slot is nil (or the name has been replaced by a
// schema__name mangled identifier).
type QualifiedName struct {
	Schema *Ident
	Name   Ident
}

// Qualified builds a schema-qualified name.
func Qualified(schema, name string) QualifiedName {
	s := NewIdent(schema)
	return QualifiedName{Schema: &s, Name: NewIdent(name)}
}

// Unqualified builds a bare name.
func Unqualified(name string) QualifiedName {
	return QualifiedName{Name: NewIdent(name)}
}

// Key returns the normalized lookup key, "schema.name" or "name".
func (q QualifiedName) Key() string {
	if q.Schema != nil {
		return q.Schema.Normalized + "." + q.Name.Normalized
	}
	return q.Name.Normalized
}

// SQL renders the object name for SQLite output. Schemas never survive to
// rendering, so only the name part is emitted.
func (q QualifiedName) SQL() string {
	return q.Name.SQL()
}

func (q QualifiedName) String() string {
	if q.Schema != nil {
		return q.Schema.Normalized + "." + q.Name.Normalized
	}
	return q.Name.Normalized
}
