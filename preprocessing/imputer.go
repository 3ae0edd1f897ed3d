// Package preprocessing は表形式データの欠損値補完とカテゴリ変数のエンコーディング、
// およびそれらを列グループごとに束ねる ColumnTransformer を提供する。
package preprocessing

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

// Strategy は SimpleImputer の補完方法
type Strategy string

const (
	// StrategyMedian は数値列を学習データの中央値で補完する
	StrategyMedian Strategy = "median"
	// StrategyMostFrequent はカテゴリ列を最頻値で補完する。
	// 同数の場合は辞書順で最小の値を採用する。
	StrategyMostFrequent Strategy = "most_frequent"
)

// SimpleImputer は列ごとの統計量で欠損値を埋める。
// 統計量は Fit 時にのみ学習され、Transform では更新されない。
type SimpleImputer struct {
	model.BaseEstimator

	// Strategy は補完方法
	Strategy Strategy

	// Medians は数値列ごとの中央値 (StrategyMedian)
	Medians []float64

	// Modes はカテゴリ列ごとの最頻値 (StrategyMostFrequent)
	Modes []string
}

// NewSimpleImputer は新しいSimpleImputerを作成する
//
// 使用例:
//
//	imp := preprocessing.NewSimpleImputer(preprocessing.StrategyMedian)
//	err := imp.Fit(cols)
//	filled, err := imp.Transform(cols)
func NewSimpleImputer(strategy Strategy) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy}
}

// Fit は各列の統計量を計算する。観測値が一つもない列はエラーになる。
func (s *SimpleImputer) Fit(cols []*dataset.Column) error {
	if len(cols) == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "no columns", errors.ErrEmptyData)
	}
	s.Reset()
	s.Medians, s.Modes = nil, nil

	switch s.Strategy {
	case StrategyMedian:
		s.Medians = make([]float64, len(cols))
		for j, c := range cols {
			if c.Kind != dataset.Numeric {
				return errors.NewValueError("SimpleImputer.Fit",
					fmt.Sprintf("median strategy needs a numeric column, %q is %s", c.Name, c.Kind))
			}
			m, ok := median(c)
			if !ok {
				return errors.NewValueError("SimpleImputer.Fit",
					fmt.Sprintf("column %q has no observed values", c.Name))
			}
			s.Medians[j] = m
		}
	case StrategyMostFrequent:
		s.Modes = make([]string, len(cols))
		for j, c := range cols {
			if c.Kind != dataset.Categorical {
				return errors.NewValueError("SimpleImputer.Fit",
					fmt.Sprintf("most_frequent strategy needs a categorical column, %q is %s", c.Name, c.Kind))
			}
			m, ok := mostFrequent(c)
			if !ok {
				return errors.NewValueError("SimpleImputer.Fit",
					fmt.Sprintf("column %q has no observed values", c.Name))
			}
			s.Modes[j] = m
		}
	default:
		return errors.NewValidationError("strategy", "must be median or most_frequent", string(s.Strategy))
	}

	s.SetFitted()
	return nil
}

// Transform は欠損値を学習済みの統計量で埋めた新しい列を返す。入力列は変更しない。
func (s *SimpleImputer) Transform(cols []*dataset.Column) ([]*dataset.Column, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleImputer", "Transform")
	}
	if len(cols) != s.width() {
		return nil, errors.NewDimensionError("SimpleImputer.Transform", s.width(), len(cols), 1)
	}

	out := make([]*dataset.Column, len(cols))
	for j, c := range cols {
		n := c.Len()
		if s.Strategy == StrategyMedian {
			if c.Kind != dataset.Numeric {
				return nil, errors.NewValueError("SimpleImputer.Transform",
					fmt.Sprintf("column %q must be numeric", c.Name))
			}
			values := make([]float64, n)
			for i := range values {
				if c.IsMissing(i) {
					values[i] = s.Medians[j]
				} else {
					values[i] = c.Float(i)
				}
			}
			out[j] = dataset.NewNumericColumn(c.Name, values)
			continue
		}

		if c.Kind != dataset.Categorical {
			return nil, errors.NewValueError("SimpleImputer.Transform",
				fmt.Sprintf("column %q must be categorical", c.Name))
		}
		values := make([]string, n)
		for i := range values {
			if v, ok := c.String(i); ok {
				values[i] = v
			} else {
				values[i] = s.Modes[j]
			}
		}
		out[j] = dataset.NewCategoricalColumn(c.Name, values, nil)
	}
	return out, nil
}

// FitTransform は学習と変換を続けて行う
func (s *SimpleImputer) FitTransform(cols []*dataset.Column) ([]*dataset.Column, error) {
	if err := s.Fit(cols); err != nil {
		return nil, err
	}
	return s.Transform(cols)
}

func (s *SimpleImputer) width() int {
	if s.Strategy == StrategyMedian {
		return len(s.Medians)
	}
	return len(s.Modes)
}

// String はImputerの文字列表現を返す
func (s *SimpleImputer) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("SimpleImputer(strategy=%s)", s.Strategy)
	}
	return fmt.Sprintf("SimpleImputer(strategy=%s, n_features=%d)", s.Strategy, s.width())
}

// median は欠損を除いた値の中央値。偶数個の場合は中央二つの平均。
func median(c *dataset.Column) (float64, bool) {
	values := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			values = append(values, c.Float(i))
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}

func mostFrequent(c *dataset.Column) (string, bool) {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.String(i); ok {
			counts[v]++
		}
	}
	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best, bestCount > 0
}
