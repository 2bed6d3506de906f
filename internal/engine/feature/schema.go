// Package feature derives fixed-length feature vectors from normalized log
// records. The mapping from fields to vector slots is declarative: a Schema
// is data, not code, so the extraction logic stays uniform across input
// formats.
package feature

import "fmt"

// Transform names how a field value becomes vector slots.
type Transform int

const (
	// Numeric passes the field value through as a single slot.
	Numeric Transform = iota
	// OneHot expands a categorical field into one slot per known category,
	// plus an optional trailing "other" slot.
	OneHot
	// HourOfDay derives the record timestamp's hour (0-23) as a single slot.
	HourOfDay
)

// FieldSpec declares one schema entry: which record field feeds it and how
// it is transformed.
type FieldSpec struct {
	Field     string
	Transform Transform
	Required  bool

	// Default is imputed for absent Numeric/HourOfDay fields.
	Default float64

	// OneHot only.
	Categories      []string
	DefaultCategory string // imputed for absent fields; must be a known category
	OtherBucket     bool   // adds a trailing slot catching unknown categories
}

// slots returns how many vector positions the field occupies.
func (f FieldSpec) slots() int {
	if f.Transform != OneHot {
		return 1
	}
	n := len(f.Categories)
	if f.OtherBucket {
		n++
	}
	return n
}

// Schema is a versioned, ordered feature layout. Vectors extracted with a
// Schema are only scoreable by a classifier trained on the same version.
type Schema struct {
	Version string
	Fields  []FieldSpec
}

// Width returns the total vector length the schema produces.
func (s Schema) Width() int {
	n := 0
	for _, f := range s.Fields {
		n += f.slots()
	}
	return n
}

// Vector is a fixed-order feature vector stamped with the schema version it
// was extracted under.
type Vector struct {
	SchemaVersion string
	Values        []float64
}

// SchemaMismatchError reports a record that violates the feature schema,
// such as a categorical value outside the known set with no other-bucket.
type SchemaMismatchError struct {
	Field  string
	Value  string
	Detail string
}

func (e *SchemaMismatchError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("feature: field %q: %s (value %q)", e.Field, e.Detail, e.Value)
	}
	return fmt.Sprintf("feature: field %q: %s", e.Field, e.Detail)
}
