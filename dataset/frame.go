// Package dataset holds the column-oriented table used by the training
// pipeline and the serving path, together with its loaders (CSV, SQLite,
// single JSON record) and the train/test split.
package dataset

import (
	"math"
	"strings"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// Kind is the storage type of a column.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric Kind = iota
	// Categorical columns hold strings plus a null mask.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != Numeric && k != Categorical {
		return nil, errors.NewValueError("Kind.MarshalText", "unknown column kind")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "numeric":
		*k = Numeric
	case "categorical":
		*k = Categorical
	default:
		return errors.NewValidationError("kind", "must be numeric or categorical", string(text))
	}
	return nil
}

// Column is a single named column of a Frame.
type Column struct {
	Name string
	Kind Kind

	nums []float64
	cats []string
	null []bool
}

// NewNumericColumn creates a numeric column. NaN values are missing.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Numeric, nums: values}
}

// NewCategoricalColumn creates a categorical column. null may be nil when no
// value is missing; otherwise it must have the same length as values.
func NewCategoricalColumn(name string, values []string, null []bool) *Column {
	if null == nil {
		null = make([]bool, len(values))
	}
	return &Column{Name: name, Kind: Categorical, cats: values, null: null}
}

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.nums)
	}
	return len(c.cats)
}

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.null[i]
}

// Float returns the numeric value of row i.
func (c *Column) Float(i int) float64 {
	return c.nums[i]
}

// String returns the categorical value of row i and whether it is present.
func (c *Column) String(i int) (string, bool) {
	return c.cats[i], !c.null[i]
}

// take returns a new column holding the given rows in order.
func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		out.nums = make([]float64, len(idx))
		for k, i := range idx {
			out.nums[k] = c.nums[i]
		}
		return out
	}
	out.cats = make([]string, len(idx))
	out.null = make([]bool, len(idx))
	for k, i := range idx {
		out.cats[k] = c.cats[i]
		out.null[k] = c.null[i]
	}
	return out
}

// Frame is an immutable table of equally long columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewFrame builds a Frame. Column names must be unique and all columns must
// have the same length.
func NewFrame(columns ...*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.NewValueError("NewFrame", "duplicate column "+c.Name)
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, errors.NewDimensionError("NewFrame", f.rows, c.Len(), 0)
		}
		f.index[c.Name] = i
		f.columns = append(f.columns, c)
	}
	return f, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int { return f.rows }

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Take returns a new Frame with the rows at idx.
func (f *Frame) Take(idx []int) *Frame {
	out := &Frame{index: f.index, rows: len(idx), columns: make([]*Column, len(f.columns))}
	for i, c := range f.columns {
		out.columns[i] = c.take(idx)
	}
	return out
}
