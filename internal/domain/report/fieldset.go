package report

import "sort"

// FieldSet holds the operator-entered values of one report form
type FieldSet map[string]string

// Get returns the value of a field, or "" when it is absent
func (f FieldSet) Get(key string) string {
	return f[key]
}

// Missing lists the schema fields of kind that are absent or empty, in render order
func (f FieldSet) Missing(kind Kind) []string {
	schema, ok := SchemaFor(kind)
	if !ok {
		return nil
	}

	var missing []string
	for _, key := range schema.Fields() {
		if f[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Unknown lists keys that are not part of the kind's schema, sorted
func (f FieldSet) Unknown(kind Kind) []string {
	schema, ok := SchemaFor(kind)
	if !ok {
		return nil
	}

	known := make(map[string]bool)
	for _, key := range schema.Fields() {
		known[key] = true
	}

	var unknown []string
	for key := range f {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
