package transform

import (
	"fmt"

	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/ir"
)

// MapTypes assigns a SQLite affinity to every column, logging each lossy
// mapping once per affected column.
func MapTypes(model *ir.SchemaModel, log *diagnostic.Log) {
	for _, table := range model.Tables {
		for _, col := range table.Columns {
			obj := table.Name.Name.Normalized + "." + col.Name.Normalized
			affinity := MapType(col.Type, obj, log)
			col.SqliteType = &affinity
		}
	}
}

// MapType translates a single PostgreSQL type into its SQLite affinity.
// The switch is exhaustive over PgTypeKind; an unhandled kind is an
// internal contract violation, not an input error.
func MapType(t ir.PgType, obj string, log *diagnostic.Log) ir.SqliteType {
	switch t.Kind {
	case ir.PgSmallInt:
		log.Add(diagnostic.TypeWidthIgnored, diagnostic.SeverityInfo, obj,
			"smallint width not enforced in SQLite")
		return ir.SqliteInteger
	case ir.PgInteger, ir.PgBigInt:
		return ir.SqliteInteger

	case ir.PgSmallSerial, ir.PgSerial, ir.PgBigSerial:
		// Rowid-alias versus plain-INTEGER handling already happened in
		// the planner; only the affinity is decided here.
		return ir.SqliteInteger

	case ir.PgNumeric:
		log.Add(diagnostic.NumericPrecisionLoss, diagnostic.SeverityLossy, obj,
			"numeric precision/scale not enforced in SQLite")
		return ir.SqliteNumeric
	case ir.PgReal, ir.PgDoublePrecision:
		return ir.SqliteReal

	case ir.PgText:
		return ir.SqliteText
	case ir.PgVarchar:
		if t.Length != nil {
			log.Add(diagnostic.VarcharLengthIgnored, diagnostic.SeverityLossy, obj,
				"varchar length constraint not enforced in SQLite")
		}
		return ir.SqliteText
	case ir.PgChar:
		if t.Length != nil {
			log.Add(diagnostic.CharLengthIgnored, diagnostic.SeverityLossy, obj,
				"char length constraint not enforced in SQLite")
		}
		return ir.SqliteText

	case ir.PgBoolean:
		log.Add(diagnostic.BooleanAsInteger, diagnostic.SeverityLossy, obj,
			"boolean stored as INTEGER (0/1) in SQLite")
		return ir.SqliteInteger

	case ir.PgDate, ir.PgTime, ir.PgTimestamp:
		log.Add(diagnostic.DatetimeTextStorage, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("%s stored as TEXT in SQLite", t))
		if t.WithTZ {
			log.Add(diagnostic.TimezoneLoss, diagnostic.SeverityLossy, obj,
				"timezone information not preserved in SQLite")
		}
		return ir.SqliteText
	case ir.PgInterval:
		log.Add(diagnostic.IntervalAsText, diagnostic.SeverityLossy, obj,
			"interval stored as TEXT in SQLite")
		return ir.SqliteText

	case ir.PgBytea:
		return ir.SqliteBlob

	case ir.PgUUID:
		log.Add(diagnostic.UUIDAsText, diagnostic.SeverityLossy, obj,
			"uuid stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgJSON:
		log.Add(diagnostic.JSONAsText, diagnostic.SeverityLossy, obj,
			"json stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgJSONB:
		log.Add(diagnostic.JSONBLoss, diagnostic.SeverityLossy, obj,
			"jsonb binary representation lost; stored as TEXT in SQLite")
		return ir.SqliteText

	case ir.PgNetwork:
		log.Add(diagnostic.NetworkAsText, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("%s stored as TEXT in SQLite", t.Name))
		return ir.SqliteText
	case ir.PgGeometric:
		log.Add(diagnostic.GeoAsText, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("%s stored as TEXT in SQLite", t.Name))
		return ir.SqliteText
	case ir.PgMoney:
		log.Add(diagnostic.MoneyAsText, diagnostic.SeverityLossy, obj,
			"money stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgBit:
		log.Add(diagnostic.BitAsText, diagnostic.SeverityLossy, obj,
			"bit string stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgXML:
		log.Add(diagnostic.XMLAsText, diagnostic.SeverityLossy, obj,
			"xml stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgRange:
		log.Add(diagnostic.RangeAsText, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("%s stored as TEXT in SQLite", t.Name))
		return ir.SqliteText

	case ir.PgEnum:
		log.Add(diagnostic.EnumAsText, diagnostic.SeverityLossy, obj,
			"enum stored as TEXT in SQLite")
		return ir.SqliteText
	case ir.PgDomain:
		// Domains are flattened by the planner; reaching here means the
		// definition was missing from the script.
		log.Add(diagnostic.UnknownTypeAsText, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("domain %q has no definition in the script; mapped to TEXT", t.Name))
		return ir.SqliteText

	case ir.PgArray:
		log.Add(diagnostic.ArrayLossy, diagnostic.SeverityLossy, obj,
			"array stored as TEXT in SQLite")
		return ir.SqliteText

	case ir.PgUnknown:
		log.Add(diagnostic.UnknownTypeAsText, diagnostic.SeverityLossy, obj,
			fmt.Sprintf("unrecognized type %q mapped to TEXT", t.Name))
		return ir.SqliteText

	default:
		panic(fmt.Sprintf("internal: unhandled PgTypeKind %d", int(t.Kind)))
	}
}
