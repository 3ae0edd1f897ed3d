package dataset

// Column names of the salary table. They double as the JSON keys of a
// prediction request.
const (
	ColAge            = "Age"
	ColGender         = "Gender"
	ColEducationLevel = "Education Level"
	ColJobTitle       = "Job Title"
	ColExperience     = "Years of Experience"
	ColSalary         = "Salary"
)

// ColumnSpec names a feature column and its storage kind.
type ColumnSpec struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Schema is the ordered set of feature columns plus the target column.
type Schema struct {
	Columns []ColumnSpec `json:"columns"`
	Target  string       `json:"target"`
}

// SalarySchema returns the schema of the employee salary table.
func SalarySchema() Schema {
	return Schema{
		Columns: []ColumnSpec{
			{Name: ColAge, Kind: Numeric},
			{Name: ColGender, Kind: Categorical},
			{Name: ColEducationLevel, Kind: Categorical},
			{Name: ColJobTitle, Kind: Categorical},
			{Name: ColExperience, Kind: Numeric},
		},
		Target: ColSalary,
	}
}

// Names returns the feature column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Equal reports whether two schemas have the same columns, kinds, order
// and target.
func (s Schema) Equal(o Schema) bool {
	if s.Target != o.Target || len(s.Columns) != len(o.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != o.Columns[i] {
			return false
		}
	}
	return true
}

// Labeled is a feature frame with its target vector.
type Labeled struct {
	X *Frame
	Y []float64
	// Dropped counts input rows removed because the target was missing.
	Dropped int
}

// Rows returns the number of labeled rows.
func (l *Labeled) Rows() int { return len(l.Y) }

// Take returns the labeled rows at idx.
func (l *Labeled) Take(idx []int) *Labeled {
	y := make([]float64, len(idx))
	for k, i := range idx {
		y[k] = l.Y[i]
	}
	return &Labeled{X: l.X.Take(idx), Y: y}
}
