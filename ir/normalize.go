package ir

// NormalizeOptions controls the schema filter applied to a freshly parsed
// model.
type NormalizeOptions struct {
	// Schema is the single schema to keep. Empty means "public".
	Schema string
	// IncludeAllSchemas bypasses the filter entirely.
	IncludeAllSchemas bool
}

// Normalize applies the schema filter: objects qualified with a schema other
// than the target are dropped, unqualified objects are assumed to live in
// the target schema. Running Normalize twice yields an identical model.
func Normalize(model *SchemaModel, opts NormalizeOptions) {
	if opts.IncludeAllSchemas {
		return
	}

	target := opts.Schema
	if target == "" {
		target = "public"
	}

	inTarget := func(q QualifiedName) bool {
		if q.Schema == nil {
			return true
		}
		return q.Schema.Normalized == target
	}

	tables := model.Tables[:0]
	for _, t := range model.Tables {
		if inTarget(t.Name) {
			tables = append(tables, t)
		}
	}
	model.Tables = tables

	indexes := model.Indexes[:0]
	for _, idx := range model.Indexes {
		if inTarget(idx.Table) {
			indexes = append(indexes, idx)
		}
	}
	model.Indexes = indexes

	sequences := model.Sequences[:0]
	for _, seq := range model.Sequences {
		if inTarget(seq.Name) {
			sequences = append(sequences, seq)
		}
	}
	model.Sequences = sequences

	enums := model.Enums[:0]
	for _, e := range model.Enums {
		if inTarget(e.Name) {
			enums = append(enums, e)
		}
	}
	model.Enums = enums

	domains := model.Domains[:0]
	for _, d := range model.Domains {
		if inTarget(d.Name) {
			domains = append(domains, d)
		}
	}
	model.Domains = domains

	alters := model.AlterConstraints[:0]
	for _, a := range model.AlterConstraints {
		if inTarget(a.Table) {
			alters = append(alters, a)
		}
	}
	model.AlterConstraints = alters

	identities := model.IdentityAlters[:0]
	for _, a := range model.IdentityAlters {
		if inTarget(a.Table) {
			identities = append(identities, a)
		}
	}
	model.IdentityAlters = identities
}
