package ir

import "fmt"

// PgTypeKind enumerates the recognized PostgreSQL column types. Go has no
// sum types, so the closed variant set is a kind tag plus payload fields on
// PgType; every switch over kinds carries a default arm.
type PgTypeKind int

const (
	PgSmallInt PgTypeKind = iota
	PgInteger
	PgBigInt
	PgSmallSerial
	PgSerial
	PgBigSerial
	PgNumeric
	PgReal
	PgDoublePrecision
	PgText
	PgVarchar
	PgChar
	PgBoolean
	PgDate
	PgTime
	PgTimestamp
	PgInterval
	PgBytea
	PgUUID
	PgJSON
	PgJSONB
	PgNetwork
	PgGeometric
	PgMoney
	PgBit
	PgXML
	PgRange
	PgEnum
	PgDomain
	PgArray
	PgUnknown
)

// PgType is a parsed PostgreSQL column type. Which payload fields are
// meaningful depends on Kind:
//
//	PgNumeric              Precision, Scale
//	PgVarchar, PgChar      Length
//	PgBit                  Length, Varying
//	PgTime, PgTimestamp    WithTZ
//	PgArray                Elem
//	PgEnum, PgDomain       Ref (resolved user-defined type)
//	PgNetwork, PgGeometric, PgRange, PgUnknown  Name (source spelling)
//	PgUnknown              Ref (type name the planner may bind to an enum or domain)
type PgType struct {
	Kind      PgTypeKind
	Precision *int
	Scale     *int
	Length    *int
	Varying   bool
	WithTZ    bool
	Elem      *PgType
	Ref       QualifiedName
	Name      string
}

// IsSerial reports whether the type is one of the serial pseudo-types.
func (t PgType) IsSerial() bool {
	switch t.Kind {
	case PgSmallSerial, PgSerial, PgBigSerial:
		return true
	default:
		return false
	}
}

// IsIntegerFamily reports whether the type maps to SQLite INTEGER without
// loss of class (integer and serial families).
func (t PgType) IsIntegerFamily() bool {
	switch t.Kind {
	case PgSmallInt, PgInteger, PgBigInt, PgSmallSerial, PgSerial, PgBigSerial:
		return true
	default:
		return false
	}
}

func (t PgType) String() string {
	switch t.Kind {
	case PgSmallInt:
		return "smallint"
	case PgInteger:
		return "integer"
	case PgBigInt:
		return "bigint"
	case PgSmallSerial:
		return "smallserial"
	case PgSerial:
		return "serial"
	case PgBigSerial:
		return "bigserial"
	case PgNumeric:
		switch {
		case t.Precision != nil && t.Scale != nil:
			return fmt.Sprintf("numeric(%d,%d)", *t.Precision, *t.Scale)
		case t.Precision != nil:
			return fmt.Sprintf("numeric(%d)", *t.Precision)
		default:
			return "numeric"
		}
	case PgReal:
		return "real"
	case PgDoublePrecision:
		return "double precision"
	case PgText:
		return "text"
	case PgVarchar:
		if t.Length != nil {
			return fmt.Sprintf("varchar(%d)", *t.Length)
		}
		return "varchar"
	case PgChar:
		if t.Length != nil {
			return fmt.Sprintf("char(%d)", *t.Length)
		}
		return "char"
	case PgBoolean:
		return "boolean"
	case PgDate:
		return "date"
	case PgTime:
		if t.WithTZ {
			return "time with time zone"
		}
		return "time"
	case PgTimestamp:
		if t.WithTZ {
			return "timestamp with time zone"
		}
		return "timestamp"
	case PgInterval:
		return "interval"
	case PgBytea:
		return "bytea"
	case PgUUID:
		return "uuid"
	case PgJSON:
		return "json"
	case PgJSONB:
		return "jsonb"
	case PgMoney:
		return "money"
	case PgXML:
		return "xml"
	case PgBit:
		if t.Varying {
			return "varbit"
		}
		return "bit"
	case PgNetwork, PgGeometric, PgRange, PgUnknown:
		return t.Name
	case PgEnum, PgDomain:
		return t.Ref.String()
	case PgArray:
		if t.Elem != nil {
			return t.Elem.String() + "[]"
		}
		return "[]"
	default:
		return fmt.Sprintf("pgtype(%d)", int(t.Kind))
	}
}

// SqliteType is a SQLite storage-class affinity.
type SqliteType int

const (
	SqliteInteger SqliteType = iota
	SqliteText
	SqliteReal
	SqliteNumeric
	SqliteBlob
)

func (t SqliteType) String() string {
	switch t {
	case SqliteInteger:
		return "INTEGER"
	case SqliteText:
		return "TEXT"
	case SqliteReal:
		return "REAL"
	case SqliteNumeric:
		return "NUMERIC"
	case SqliteBlob:
		return "BLOB"
	default:
		return fmt.Sprintf("affinity(%d)", int(t))
	}
}
