package feature

import (
	"strconv"

	"github.com/crimson-sun/panlogs/internal/model"
)

// Extract derives a feature vector from a record according to the schema.
// Absent fields are imputed with the schema-declared default, never a silent
// zero. Returns a *SchemaMismatchError when a value violates the schema.
func Extract(rec model.LogRecord, s Schema) (Vector, error) {
	values := make([]float64, 0, s.Width())

	for _, spec := range s.Fields {
		var (
			slots []float64
			err   error
		)
		switch spec.Transform {
		case Numeric:
			slots, err = numericSlots(rec, spec)
		case OneHot:
			slots, err = oneHotSlots(rec, spec)
		case HourOfDay:
			slots = hourSlots(rec, spec)
		default:
			err = &SchemaMismatchError{Field: spec.Field, Detail: "unknown transform"}
		}
		if err != nil {
			return Vector{}, err
		}
		values = append(values, slots...)
	}

	return Vector{SchemaVersion: s.Version, Values: values}, nil
}

func numericSlots(rec model.LogRecord, spec FieldSpec) ([]float64, error) {
	v := rec.Field(spec.Field)
	if v.IsAbsent() {
		return []float64{spec.Default}, nil
	}
	switch v.Kind {
	case model.KindNumber:
		return []float64{v.Num}, nil
	case model.KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return nil, &SchemaMismatchError{Field: spec.Field, Value: v.Str, Detail: "not numeric"}
		}
		return []float64{f}, nil
	}
	return nil, &SchemaMismatchError{Field: spec.Field, Value: v.Text(), Detail: "not numeric"}
}

func oneHotSlots(rec model.LogRecord, spec FieldSpec) ([]float64, error) {
	slots := make([]float64, spec.slots())

	v := rec.Field(spec.Field)
	category := v.Text()
	if v.IsAbsent() {
		if spec.DefaultCategory == "" {
			if spec.OtherBucket {
				slots[len(slots)-1] = 1
				return slots, nil
			}
			return nil, &SchemaMismatchError{Field: spec.Field, Detail: "absent with no default category"}
		}
		category = spec.DefaultCategory
	}

	for i, c := range spec.Categories {
		if c == category {
			slots[i] = 1
			return slots, nil
		}
	}
	if spec.OtherBucket {
		slots[len(slots)-1] = 1
		return slots, nil
	}
	return nil, &SchemaMismatchError{Field: spec.Field, Value: category, Detail: "unknown category"}
}

func hourSlots(rec model.LogRecord, spec FieldSpec) []float64 {
	ts := rec.Timestamp
	if field := rec.Field(spec.Field); field.Kind == model.KindTime {
		ts = field.Time
	}
	if ts.IsZero() {
		return []float64{spec.Default}
	}
	return []float64{float64(ts.Hour())}
}
