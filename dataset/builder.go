package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// missingTokens are the text cells read as missing, following the usual
// dataframe conventions.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

func isMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

type columnBuilder struct {
	spec ColumnSpec
	nums []float64
	cats []string
	null []bool
}

func (b *columnBuilder) appendMissing() {
	if b.spec.Kind == Numeric {
		b.nums = append(b.nums, math.NaN())
		return
	}
	b.cats = append(b.cats, "")
	b.null = append(b.null, true)
}

func (b *columnBuilder) appendFloat(v float64) {
	b.nums = append(b.nums, v)
}

func (b *columnBuilder) appendString(s string) {
	b.cats = append(b.cats, s)
	b.null = append(b.null, false)
}

// appendText appends a raw text cell, parsing it for numeric columns.
// Numeric cells that do not parse are kept as missing with a warning.
func (b *columnBuilder) appendText(raw string, row int) {
	if isMissingToken(raw) {
		b.appendMissing()
		return
	}
	if b.spec.Kind == Categorical {
		b.appendString(raw)
		return
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		errors.Warn(errors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("cell %q in column %q (row %d) is not a number; treated as missing", raw, b.spec.Name, row)))
		b.appendMissing()
		return
	}
	b.appendFloat(v)
}

func (b *columnBuilder) build() *Column {
	if b.spec.Kind == Numeric {
		nums := b.nums
		if nums == nil {
			nums = []float64{}
		}
		return NewNumericColumn(b.spec.Name, nums)
	}
	cats := b.cats
	if cats == nil {
		cats = []string{}
	}
	return NewCategoricalColumn(b.spec.Name, cats, b.null)
}

// tableBuilder accumulates labeled rows, dropping rows whose target is
// missing. The target itself is never imputed.
type tableBuilder struct {
	cols    []*columnBuilder
	y       []float64
	dropped int
}

func newTableBuilder(schema Schema) *tableBuilder {
	t := &tableBuilder{cols: make([]*columnBuilder, len(schema.Columns))}
	for i, spec := range schema.Columns {
		t.cols[i] = &columnBuilder{spec: spec}
	}
	return t
}

// parseTarget returns the target value, whether it is missing, and an error
// when the cell holds something that is not a number.
func parseTarget(raw string, row int) (float64, bool, error) {
	if isMissingToken(raw) {
		return 0, true, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false, errors.NewValueError("dataset.parseTarget",
			fmt.Sprintf("target value %q at row %d is not a number", raw, row))
	}
	if math.IsNaN(v) {
		return 0, true, nil
	}
	return v, false, nil
}

func (t *tableBuilder) build() (*Labeled, error) {
	cols := make([]*Column, len(t.cols))
	for i, b := range t.cols {
		cols[i] = b.build()
	}
	frame, err := NewFrame(cols...)
	if err != nil {
		return nil, err
	}
	y := t.y
	if y == nil {
		y = []float64{}
	}
	return &Labeled{X: frame, Y: y, Dropped: t.dropped}, nil
}
