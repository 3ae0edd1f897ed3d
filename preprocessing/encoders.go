package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// UnknownCategory is the code OrdinalEncoder assigns to categories it did
// not see during Fit.
const UnknownCategory = -1

// Encoder turns imputed categorical columns into a numeric block.
type Encoder interface {
	Fit(cols []*dataset.Column) error
	Transform(cols []*dataset.Column) (*mat.Dense, error)
	// FeatureNames names the output columns of the block.
	FeatureNames() []string
	// Vocabulary returns the sorted categories per input column.
	Vocabulary() [][]string
}

// vocabulary holds the sorted categories of each fitted column.
type vocabulary struct {
	model.BaseEstimator

	Columns    []string
	Categories [][]string
	index      []map[string]int
}

func (v *vocabulary) fit(op string, cols []*dataset.Column) error {
	if len(cols) == 0 {
		return errors.NewModelError(op, "no columns", errors.ErrEmptyData)
	}
	v.Reset()
	v.Columns = make([]string, len(cols))
	v.Categories = make([][]string, len(cols))
	for j, c := range cols {
		if c.Kind != dataset.Categorical {
			return errors.NewValueError(op, fmt.Sprintf("column %q must be categorical", c.Name))
		}
		seen := make(map[string]struct{})
		for i := 0; i < c.Len(); i++ {
			s, ok := c.String(i)
			if !ok {
				return errors.NewValueError(op,
					fmt.Sprintf("column %q has missing values; impute before encoding", c.Name))
			}
			seen[s] = struct{}{}
		}
		cats := make([]string, 0, len(seen))
		for s := range seen {
			cats = append(cats, s)
		}
		if len(cats) == 0 {
			return errors.NewModelError(op, fmt.Sprintf("column %q is empty", c.Name), errors.ErrEmptyData)
		}
		sort.Strings(cats)
		v.Columns[j] = c.Name
		v.Categories[j] = cats
	}
	v.buildIndex()
	v.SetFitted()
	return nil
}

// restore は保存済みの語彙から状態を復元する
func (v *vocabulary) restore(op string, columns []string, categories [][]string) error {
	if len(columns) == 0 || len(columns) != len(categories) {
		return errors.NewDimensionError(op, len(columns), len(categories), 1)
	}
	for j, cats := range categories {
		if len(cats) == 0 {
			return errors.NewValueError(op, fmt.Sprintf("column %q has an empty vocabulary", columns[j]))
		}
		if !sort.StringsAreSorted(cats) {
			return errors.NewValueError(op, fmt.Sprintf("vocabulary of %q is not sorted", columns[j]))
		}
	}
	v.Columns = append([]string(nil), columns...)
	v.Categories = make([][]string, len(categories))
	for j, cats := range categories {
		v.Categories[j] = append([]string(nil), cats...)
	}
	v.buildIndex()
	v.SetFitted()
	return nil
}

func (v *vocabulary) buildIndex() {
	v.index = make([]map[string]int, len(v.Categories))
	for j, cats := range v.Categories {
		m := make(map[string]int, len(cats))
		for k, s := range cats {
			m[s] = k
		}
		v.index[j] = m
	}
}

func (v *vocabulary) check(op string, cols []*dataset.Column) error {
	if !v.IsFitted() {
		return errors.NewNotFittedError(op, "Transform")
	}
	if len(cols) != len(v.Columns) {
		return errors.NewDimensionError(op, len(v.Columns), len(cols), 1)
	}
	if cols[0].Len() == 0 {
		return errors.NewModelError(op, "no rows", errors.ErrEmptyData)
	}
	for j, c := range cols {
		if c.Kind != dataset.Categorical {
			return errors.NewValueError(op, fmt.Sprintf("column %q must be categorical", c.Name))
		}
		if c.Name != v.Columns[j] {
			return errors.NewMissingFeatureError("transform", v.Columns[j])
		}
	}
	return nil
}

// Vocabulary returns a copy of the fitted categories.
func (v *vocabulary) Vocabulary() [][]string {
	out := make([][]string, len(v.Categories))
	for j, cats := range v.Categories {
		out[j] = append([]string(nil), cats...)
	}
	return out
}

// OneHotEncoder は観測されたカテゴリごとに 0/1 の指示列を作る。
// 未知のカテゴリは全て 0 のブロックになり、エラーにはならない。
type OneHotEncoder struct {
	vocabulary
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit はカテゴリの語彙を学習する
func (e *OneHotEncoder) Fit(cols []*dataset.Column) error {
	return e.fit("OneHotEncoder.Fit", cols)
}

// Transform は指示行列を返す
func (e *OneHotEncoder) Transform(cols []*dataset.Column) (*mat.Dense, error) {
	if err := e.check("OneHotEncoder", cols); err != nil {
		return nil, err
	}
	width := 0
	for _, cats := range e.Categories {
		width += len(cats)
	}
	rows := cols[0].Len()
	out := mat.NewDense(rows, width, nil)

	offset := 0
	for j, c := range cols {
		for i := 0; i < rows; i++ {
			s, ok := c.String(i)
			if !ok {
				continue
			}
			if k, known := e.index[j][s]; known {
				out.Set(i, offset+k, 1)
			}
		}
		offset += len(e.Categories[j])
	}
	return out, nil
}

// FeatureNames は "列名_カテゴリ" 形式の出力列名を返す
func (e *OneHotEncoder) FeatureNames() []string {
	var names []string
	for j, cats := range e.Categories {
		for _, s := range cats {
			names = append(names, e.Columns[j]+"_"+s)
		}
	}
	return names
}

// OrdinalEncoder はカテゴリを辞書順の整数コードに変換する。
// 未知のカテゴリは UnknownCategory (-1) になる。
type OrdinalEncoder struct {
	vocabulary
}

// NewOrdinalEncoder は新しいOrdinalEncoderを作成する
func NewOrdinalEncoder() *OrdinalEncoder {
	return &OrdinalEncoder{}
}

// Fit はカテゴリの語彙を学習する
func (e *OrdinalEncoder) Fit(cols []*dataset.Column) error {
	return e.fit("OrdinalEncoder.Fit", cols)
}

// Transform は列ごとのコードを返す
func (e *OrdinalEncoder) Transform(cols []*dataset.Column) (*mat.Dense, error) {
	if err := e.check("OrdinalEncoder", cols); err != nil {
		return nil, err
	}
	rows := cols[0].Len()
	out := mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		for i := 0; i < rows; i++ {
			code := UnknownCategory
			if s, ok := c.String(i); ok {
				if k, known := e.index[j][s]; known {
					code = k
				}
			}
			out.Set(i, j, float64(code))
		}
	}
	return out, nil
}

// FeatureNames は入力列名をそのまま返す
func (e *OrdinalEncoder) FeatureNames() []string {
	return append([]string(nil), e.Columns...)
}
