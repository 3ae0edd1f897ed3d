package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// MissingFields returns the schema columns absent from rec, in schema order.
// A key that is present with a null value is not missing.
func MissingFields(schema Schema, rec map[string]any) []string {
	var missing []string
	for _, spec := range schema.Columns {
		if _, ok := rec[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

// FrameFromRecord wraps a single decoded JSON object into a one-row frame
// with the schema's column names and order. Keys outside the schema are
// ignored; null values become missing.
//
// Numeric columns accept JSON numbers only. Categorical columns take strings
// as is; other scalars are converted to their text form and therefore act as
// categories the encoders have probably never seen.
func FrameFromRecord(schema Schema, rec map[string]any) (*Frame, error) {
	if missing := MissingFields(schema, rec); len(missing) > 0 {
		return nil, errors.Wrapf(errors.ErrMissingFields, "absent: %v", missing)
	}

	cols := make([]*Column, len(schema.Columns))
	for i, spec := range schema.Columns {
		v := rec[spec.Name]
		switch spec.Kind {
		case Numeric:
			f, err := toFloat(spec.Name, v)
			if err != nil {
				return nil, err
			}
			cols[i] = NewNumericColumn(spec.Name, []float64{f})
		default:
			s, present := toCategory(v)
			cols[i] = NewCategoricalColumn(spec.Name, []string{s}, []bool{!present})
		}
	}
	return NewFrame(cols...)
}

func toFloat(name string, v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, errors.NewValueError("dataset.FrameFromRecord",
				fmt.Sprintf("could not convert %q to float for %s", t.String(), name))
		}
		return f, nil
	default:
		return 0, errors.NewValueError("dataset.FrameFromRecord",
			fmt.Sprintf("could not convert %v (%T) to float for %s", v, v, name))
	}
}

func toCategory(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}
